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
	consultationInput    types.Consultation
	consultationFollowUp string
	consultationCompany  string
	consultationPage     int
)

var consultationCmd = &cobra.Command{
	Use:   "consultation",
	Short: "Record customer consultations",
}

var consultationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a consultation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			c := consultationInput
			if consultationFollowUp != "" {
				day, err := store.ParseDate(consultationFollowUp)
				if err != nil {
					return err
				}
				c.FollowUpDate = &day
			}
			if err := a.store.CreateConsultation(ctx, &c); err != nil {
				return notFoundHint(err, "company list")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created consultation %s\n", c.ID)
			return nil
		})
	},
}

var consultationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a company's consultations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			page := store.Page{Number: consultationPage, Size: a.cfg.Pagination.Consultations}
			res, err := a.store.ListConsultations(ctx, consultationCompany, page)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tSTATUS\tPRIORITY\tFOLLOW-UP\tCONTENT")
			for _, c := range res.Items {
				followUp := ""
				if c.FollowUpDate != nil {
					followUp = c.FollowUpDate.Local().Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					c.ID, c.Date.Local().Format("2006-01-02"), c.Status, c.Priority, followUp, c.Content)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPage(cmd, res.Page, res.Total, res.TotalPages())
			return nil
		})
	},
}

var consultationSetCmd = &cobra.Command{
	Use:   "set <id> <field> <value>",
	Short: "Change the status, priority, follow_up_date or content of a consultation",
	Long: `Change one field of a consultation.

  status          pending | completed | canceled
  priority        low | medium | high
  follow_up_date  YYYY-MM-DD, or "" to clear
  content         free text`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			field := store.ConsultationField(args[1])
			if err := a.store.UpdateConsultation(ctx, args[0], field, args[2]); err != nil {
				return notFoundHint(err, "consultation list")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", field)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(consultationCmd)
	consultationCmd.AddCommand(consultationAddCmd, consultationListCmd, consultationSetCmd)

	f := consultationAddCmd.Flags()
	f.StringVar(&consultationInput.CompanyID, "company", "", "Company ID (required)")
	f.StringVar(&consultationInput.ContactID, "contact", "", "Contact ID")
	f.StringVar(&consultationInput.UserID, "user", "", "User ID")
	f.StringVar(&consultationInput.Content, "content", "", "What was discussed")
	f.StringVar(&consultationInput.Status, "status", "", "pending (default), completed or canceled")
	f.StringVar(&consultationInput.Priority, "priority", "", "low, medium (default) or high")
	f.StringVar(&consultationFollowUp, "follow-up", "", "Follow-up date (YYYY-MM-DD)")
	_ = consultationAddCmd.MarkFlagRequired("company")

	consultationListCmd.Flags().StringVar(&consultationCompany, "company", "", "Company ID (required)")
	consultationListCmd.Flags().IntVar(&consultationPage, "page", 1, "Page number")
	_ = consultationListCmd.MarkFlagRequired("company")
}
