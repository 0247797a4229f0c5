package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesdocs/internal/types"
)

var (
	contactInput   types.Contact
	contactCompany string
	userInput      types.User
)

// =============================================================================
// CONTACTS
// =============================================================================

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Manage contact persons of companies",
}

var contactAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a contact person",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			c := contactInput
			if err := a.store.CreateContact(ctx, &c); err != nil {
				return notFoundHint(err, "company list")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created contact %s (%s)\n", c.ContactName, c.ID)
			return nil
		})
	},
}

var contactListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the contacts of a company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			contacts, err := a.store.ListContacts(ctx, contactCompany)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDEPARTMENT\tPOSITION\tMOBILE\tEMAIL")
			for _, c := range contacts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.ContactName, c.Department, c.Position, c.Mobile, c.Email)
			}
			return w.Flush()
		})
	},
}

// =============================================================================
// USERS
// =============================================================================

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage sales staff",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a member of staff",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			u := userInput
			if err := a.store.CreateUser(ctx, &u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", u.Name, u.ID)
			return nil
		})
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			users, err := a.store.ListUsers(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLEVEL")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%d\n", u.ID, u.Name, u.Level)
			}
			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(contactCmd, userCmd)
	contactCmd.AddCommand(contactAddCmd, contactListCmd)
	userCmd.AddCommand(userAddCmd, userListCmd)

	f := contactAddCmd.Flags()
	f.StringVar(&contactInput.CompanyID, "company", "", "Company ID (required)")
	f.StringVar(&contactInput.ContactName, "name", "", "Contact name (required)")
	f.StringVar(&contactInput.Department, "department", "", "Department")
	f.StringVar(&contactInput.Position, "position", "", "Position")
	f.StringVar(&contactInput.Mobile, "mobile", "", "Mobile number")
	f.StringVar(&contactInput.Email, "email", "", "Email address")
	f.IntVar(&contactInput.Level, "level", 0, "Contact level")
	_ = contactAddCmd.MarkFlagRequired("company")
	_ = contactAddCmd.MarkFlagRequired("name")

	contactListCmd.Flags().StringVar(&contactCompany, "company", "", "Company ID (required)")
	_ = contactListCmd.MarkFlagRequired("company")

	userAddCmd.Flags().StringVar(&userInput.Name, "name", "", "User name (required)")
	userAddCmd.Flags().IntVar(&userInput.Level, "level", 0, "User level")
	_ = userAddCmd.MarkFlagRequired("name")
}
