package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesdocs/internal/store"
	"github.com/ginjaninja78/salesdocs/internal/types"
)

var (
	companyInput  types.Company
	companySearch string
	companyPage   int
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Manage customer companies",
}

var companyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a company",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			c := companyInput
			if err := a.store.CreateCompany(ctx, &c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created company %s (%s)\n", c.Name, c.ID)
			return nil
		})
	},
}

var companyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List companies by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			page := store.Page{Number: companyPage, Size: a.cfg.Pagination.Companies}
			res, err := a.store.ListCompanies(ctx, store.CompanyFilter{Search: companySearch}, page)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tEMAIL")
			for _, c := range res.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Email)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPage(cmd, res.Page, res.Total, res.TotalPages())
			return nil
		})
	},
}

var companyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a company with its contacts and recent consultations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			c, err := a.store.GetCompany(ctx, args[0])
			if err != nil {
				return notFoundHint(err, "company list")
			}
			contacts, err := a.store.ListContacts(ctx, c.ID)
			if err != nil {
				return err
			}
			consultations, err := a.store.ListConsultations(ctx, c.ID, store.Page{Size: a.cfg.Pagination.Consultations})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", c.Name)
			fmt.Fprintf(w, "Address:\t%s\n", c.Address)
			fmt.Fprintf(w, "Phone:\t%s\n", c.Phone)
			fmt.Fprintf(w, "Fax:\t%s\n", c.Fax)
			fmt.Fprintf(w, "Email:\t%s\n", c.Email)
			fmt.Fprintf(w, "Notes:\t%s\n", c.Notes)
			fmt.Fprintf(w, "Created:\t%s\n", c.CreatedAt.Local().Format("2006-01-02 15:04"))

			fmt.Fprintf(w, "\nContacts (%d):\n", len(contacts))
			for _, p := range contacts {
				fmt.Fprintf(w, "  %s\t%s\t%s %s\t%s\n", p.ID, p.ContactName, p.Department, p.Position, p.Mobile)
			}

			fmt.Fprintf(w, "\nConsultations (%d):\n", consultations.Total)
			for _, cs := range consultations.Items {
				fmt.Fprintf(w, "  %s\t%s\t%s/%s\t%s\n", cs.ID, cs.Date.Local().Format("2006-01-02"), cs.Status, cs.Priority, cs.Content)
			}
			return w.Flush()
		})
	},
}

var companyNotesCmd = &cobra.Command{
	Use:   "notes <id> <text>",
	Short: "Replace a company's notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			if err := a.store.UpdateCompanyNotes(ctx, args[0], args[1]); err != nil {
				return notFoundHint(err, "company list")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Notes updated")
			return nil
		})
	},
}

// printPage prints the pagination footer of a listing.
func printPage(cmd *cobra.Command, page store.Page, total, pages int) {
	if pages == 0 {
		pages = 1
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d/%d (%d total)\n", page.Number, pages, total)
}

func init() {
	rootCmd.AddCommand(companyCmd)
	companyCmd.AddCommand(companyAddCmd, companyListCmd, companyShowCmd, companyNotesCmd)

	f := companyAddCmd.Flags()
	f.StringVar(&companyInput.Name, "name", "", "Company name (required)")
	f.StringVar(&companyInput.Address, "address", "", "Address")
	f.StringVar(&companyInput.Phone, "phone", "", "Phone number")
	f.StringVar(&companyInput.Fax, "fax", "", "Fax number")
	f.StringVar(&companyInput.Email, "email", "", "Email address")
	f.StringVar(&companyInput.Notes, "notes", "", "Notes")
	_ = companyAddCmd.MarkFlagRequired("name")

	companyListCmd.Flags().StringVar(&companySearch, "search", "", "Match a part of the company name")
	companyListCmd.Flags().IntVar(&companyPage, "page", 1, "Page number")
}
