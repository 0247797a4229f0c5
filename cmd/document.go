// =============================================================================
// salesdocs - Document Commands
// =============================================================================
//
// COMMAND USAGE:
//   salesdocs document create --consultation <id> [--draft f.yaml] [--csv f.csv] [--xlsx f.xlsx]
//   salesdocs document list   [--type estimate] [--from 2024-05-01] [--to 2024-05-31] [--consultation <id>]
//   salesdocs document show   <id> [--json]
//   salesdocs document export <id> [--format xlsx,xml]
//   salesdocs document xsd    [--type order]
//
// ITEM SOURCES:
//   Items from a CSV file or an Excel sheet come first, followed by the items
//   listed in the draft file. Imported cells are cleaned by import_rules.
//   Flags override the draft's fields.
//
// =============================================================================

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesdocs/internal/amount"
	"github.com/ginjaninja78/salesdocs/internal/config"
	"github.com/ginjaninja78/salesdocs/internal/csvparser"
	"github.com/ginjaninja78/salesdocs/internal/document"
	"github.com/ginjaninja78/salesdocs/internal/ledger"
	"github.com/ginjaninja78/salesdocs/internal/store"
	"github.com/ginjaninja78/salesdocs/internal/transform"
	"github.com/ginjaninja78/salesdocs/internal/types"
	"github.com/ginjaninja78/salesdocs/internal/validation"
	"github.com/ginjaninja78/salesdocs/internal/xlsxparser"
	"github.com/ginjaninja78/salesdocs/internal/xmlwriter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	draftFile      string
	itemsCSV       string
	itemsXLSX      string
	itemsSheet     string
	itemsHeaderRow int
	draftFlags     document.Draft

	listType    string
	listFrom    string
	listTo      string
	listCompany string
	listUser    string
	listPage    int

	listConsultation string

	showJSON      bool
	exportFormats []string
	xsdType       string
)

// draftFlagOverrides maps flags to the draft field they override.
var draftFlagOverrides = map[string]func(d *document.Draft){
	"type":           func(d *document.Draft) { d.Type = draftFlags.Type },
	"consultation":   func(d *document.Draft) { d.ConsultationID = draftFlags.ConsultationID },
	"contact":        func(d *document.Draft) { d.ContactID = draftFlags.ContactID },
	"user":           func(d *document.Draft) { d.UserID = draftFlags.UserID },
	"valid-until":    func(d *document.Draft) { d.ValidUntil = draftFlags.ValidUntil },
	"delivery-place": func(d *document.Draft) { d.DeliveryPlace = draftFlags.DeliveryPlace },
	"delivery-term":  func(d *document.Draft) { d.DeliveryTerm = draftFlags.DeliveryTerm },
	"payment-terms":  func(d *document.Draft) { d.PaymentTerms = draftFlags.PaymentTerms },
	"delivery-date":  func(d *document.Draft) { d.DeliveryDate = draftFlags.DeliveryDate },
	"desired-date":   func(d *document.Draft) { d.DesiredEstimateDate = draftFlags.DesiredEstimateDate },
	"request-date":   func(d *document.Draft) { d.RequestDate = draftFlags.RequestDate },
	"notes":          func(d *document.Draft) { d.Notes = draftFlags.Notes },
}

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Generate and browse estimates, orders and quotation requests",
}

var documentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Generate a document for a consultation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			draft, err := buildDraft(cmd, a)
			if err != nil {
				return err
			}

			res, err := a.generator().Run(ctx, draft)
			if errors.Is(err, document.ErrInvalidDocument) {
				fmt.Fprint(cmd.ErrOrStderr(), validation.FormatErrors(res.Findings))
			}
			if err != nil {
				return err
			}
			printResult(cmd, res)
			return nil
		})
	},
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents of one type, newest first",
	Long: `List documents newest first.

Without --from and --to the listing covers the current month up to today.
With --consultation every document of that consultation is listed, of any
type and date, unless --type, --from or --to narrow it.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			filter, err := listFilter(time.Now())
			if err != nil {
				return err
			}
			page := store.Page{Number: listPage, Size: a.cfg.Pagination.Documents}
			res, err := a.store.ListDocuments(ctx, filter, page)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "ID\tTYPE\tNUMBER\tDATE\tCOMPANY\tAUTHOR\tSTATUS\tPRIORITY\tTOTAL\t")
			for _, d := range res.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					d.ID, d.Type.Title(), d.DocumentNumber, d.CreatedAt.Local().Format("2006-01-02"), d.CompanyName, d.UserName,
					d.ConsultationStatus, d.ConsultationPriority, amount.FormatWon(d.TotalAmount.IntPart()))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			printPage(cmd, res.Page, res.Total, res.TotalPages())
			return nil
		})
	},
}

var documentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(ctx context.Context, a *app) error {
			d, err := a.store.GetDocument(ctx, args[0])
			if err != nil {
				return notFoundHint(err, "document list")
			}
			if showJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			printDocument(cmd, d)
			return nil
		})
	},
}

var documentExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Render a stored document again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			res, err := a.generator().Export(ctx, args[0], exportFormats...)
			if err != nil {
				return notFoundHint(err, "document list")
			}
			printResult(cmd, res)
			return nil
		})
	},
}

var documentXSDCmd = &cobra.Command{
	Use:   "xsd",
	Short: "Print the XML schema of a document type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := types.ParseDocumentType(xsdType)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(xmlwriter.GenerateXSD(t))
		return err
	},
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// buildDraft merges the draft file, the item sheets and the flags.
func buildDraft(cmd *cobra.Command, a *app) (*document.Draft, error) {
	draft := &document.Draft{}
	if draftFile != "" {
		var err error
		if draft, err = document.LoadDraft(draftFile); err != nil {
			return nil, err
		}
	}
	for name, apply := range draftFlagOverrides {
		if cmd.Flags().Changed(name) {
			apply(draft)
		}
	}
	if draft.ConsultationID == "" {
		return nil, fmt.Errorf("a consultation is required (--consultation or consultation_id in the draft)")
	}

	if itemsCSV == "" && itemsXLSX == "" {
		return draft, nil
	}
	rules, err := transform.NewTransformer(a.cfg.ImportRules)
	if err != nil {
		return nil, err
	}
	l := &ledger.Ledger{}
	if itemsCSV != "" {
		n, err := importCSV(itemsCSV, a.cfg.CSVSettings, rules, l)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", itemsCSV, err)
		}
		a.log.Info("Imported %d item(s) from %s", n, itemsCSV)
	}
	if itemsXLSX != "" {
		n, err := importXLSX(itemsXLSX, rules, l)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", itemsXLSX, err)
		}
		a.log.Info("Imported %d item(s) from %s", n, itemsXLSX)
	}
	draft.Ledger = l
	return draft, nil
}

func importCSV(path string, settings config.CSVSettings, rules *transform.Transformer, l *ledger.Ledger) (int, error) {
	data, err := csvparser.ParseFile(path, settings)
	if err != nil {
		return 0, err
	}
	// CSV rows are not contiguous in the file, so each row is cleaned with
	// its own row number.
	for i := range data.Rows {
		if err := rules.ApplyRows(data.Headers, data.Rows[i:i+1], data.RowNumbers[i]); err != nil {
			return 0, err
		}
	}
	return data.ImportInto(l)
}

func importXLSX(path string, rules *transform.Transformer, l *ledger.Ledger) (int, error) {
	sheet, err := xlsxparser.Parse(path, xlsxparser.Options{Sheet: itemsSheet, HeaderRow: itemsHeaderRow})
	if err != nil {
		return 0, err
	}
	if err := rules.ApplyRows(sheet.Headers, sheet.Rows, sheet.HeaderRow+1); err != nil {
		return 0, fmt.Errorf("sheet %q: %w", sheet.Sheet, err)
	}
	return sheet.ImportInto(l)
}

// listFilter builds the listing filter. Without --from/--to the listing
// covers the current month up to today. A consultation listing shows every
// type and date unless narrowed.
func listFilter(now time.Time) (store.DocumentFilter, error) {
	f := store.DocumentFilter{ConsultationID: listConsultation, CompanyName: listCompany, UserName: listUser}
	if listType != "" || listConsultation == "" {
		t, err := types.ParseDocumentType(listType)
		if err != nil {
			return f, err
		}
		f.Type = t
	}

	var err error
	if listFrom != "" {
		if f.Start, err = store.ParseDate(listFrom); err != nil {
			return f, err
		}
	}
	if listTo != "" {
		if f.End, err = store.ParseDate(listTo); err != nil {
			return f, err
		}
	}
	if listConsultation == "" && listFrom == "" && listTo == "" {
		f.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		f.End = now
	}
	return f, nil
}

func printResult(cmd *cobra.Command, res *document.Result) {
	out := cmd.OutOrStdout()
	d := res.Document
	fmt.Fprintf(out, "%s %s\n", d.Type.Title(), d.DocumentNumber)
	fmt.Fprintf(out, "  ID:     %s\n", d.ID)
	fmt.Fprintf(out, "  Total:  %s (%s)\n", amount.FormatWon(d.TotalAmount.IntPart()), strings.TrimSpace(d.Content.KoreanAmount+" 원"))
	fmt.Fprintf(out, "  Items:  %d\n", res.Stats.Items)
	if res.Stats.Warnings > 0 {
		fmt.Fprintf(out, "  Warnings: %d\n", res.Stats.Warnings)
	}
	for _, f := range res.Files {
		fmt.Fprintf(out, "  ✓ %-4s %s\n", f.Format, f.URL)
	}
	fmt.Fprintf(out, "  Time:   %s\n", res.Stats.ProcessingTime.Round(time.Millisecond))
}

func printDocument(cmd *cobra.Command, d types.Document) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	c := d.Content
	fmt.Fprintf(w, "%s\t%s\n", d.Type.Title(), d.DocumentNumber)
	fmt.Fprintf(w, "Date:\t%s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Company:\t%s\n", d.CompanyName)
	for _, kv := range [][2]string{
		{"Valid until:", c.ValidUntil},
		{"Delivery place:", c.DeliveryPlace},
		{"Delivery term:", c.DeliveryTerm},
		{"Delivery date:", c.DeliveryDate},
		{"Payment terms:", c.PaymentTerms},
		{"Desired date:", c.DesiredEstimateDate},
		{"Request date:", c.RequestDate},
		{"Notes:", c.Notes},
		{"File:", d.FileURL},
	} {
		if kv[1] != "" {
			fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1])
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "#\tNAME\tSPEC\tQTY\tUNIT PRICE\tAMOUNT")
	for _, it := range c.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", it.Number, it.Name, it.Spec, it.Quantity, it.UnitPrice, it.Amount)
	}
	fmt.Fprintf(w, "\t합계\t\t\t\t%s\n", amount.FormatWon(d.TotalAmount.IntPart()))
	fmt.Fprintf(w, "\t\t\t\t\t%s\n", strings.TrimSpace(c.KoreanAmount+" 원"))
	_ = w.Flush()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(documentCmd)
	documentCmd.AddCommand(documentCreateCmd, documentListCmd, documentShowCmd, documentExportCmd, documentXSDCmd)

	f := documentCreateCmd.Flags()
	f.StringVar(&draftFile, "draft", "", "YAML draft file")
	f.StringVar(&itemsCSV, "csv", "", "CSV file with line items")
	f.StringVar(&itemsXLSX, "xlsx", "", "Excel file with line items")
	f.StringVar(&itemsSheet, "sheet", "", "Sheet of --xlsx (default: first sheet)")
	f.IntVar(&itemsHeaderRow, "header-row", 0, "Header row of --xlsx (default: detected)")
	f.StringVar((*string)(&draftFlags.Type), "type", "", "estimate, order or quotation_request")
	f.StringVar(&draftFlags.ConsultationID, "consultation", "", "Consultation ID")
	f.StringVar(&draftFlags.ContactID, "contact", "", "Contact ID (default: the consultation's)")
	f.StringVar(&draftFlags.UserID, "user", "", "User ID (default: the consultation's)")
	f.StringVar(&draftFlags.ValidUntil, "valid-until", "", "Estimate: valid until (YYYY-MM-DD)")
	f.StringVar(&draftFlags.DeliveryPlace, "delivery-place", "", "Estimate: delivery place")
	f.StringVar(&draftFlags.DeliveryTerm, "delivery-term", "", "Estimate: delivery term")
	f.StringVar(&draftFlags.PaymentTerms, "payment-terms", "", "협의, 정기결제 or 선현금결제")
	f.StringVar(&draftFlags.DeliveryDate, "delivery-date", "", "Order: delivery date (YYYY-MM-DD)")
	f.StringVar(&draftFlags.DesiredEstimateDate, "desired-date", "", "Quotation request: desired estimate date (YYYY-MM-DD)")
	f.StringVar(&draftFlags.RequestDate, "request-date", "", "Quotation request: request date (YYYY-MM-DD)")
	f.StringVar(&draftFlags.Notes, "notes", "", "Notes printed on the document")

	lf := documentListCmd.Flags()
	lf.StringVar(&listType, "type", "", "estimate (default), order or quotation_request")
	lf.StringVar(&listConsultation, "consultation", "", "List the documents of one consultation")
	lf.StringVar(&listFrom, "from", "", "First creation day (YYYY-MM-DD, default: first of this month)")
	lf.StringVar(&listTo, "to", "", "Last creation day (YYYY-MM-DD, default: today)")
	lf.StringVar(&listCompany, "company", "", "Match a part of the company name")
	lf.StringVar(&listUser, "user", "", "Match a part of the author's name")
	lf.IntVar(&listPage, "page", 1, "Page number")

	documentShowCmd.Flags().BoolVar(&showJSON, "json", false, "Print the stored record as JSON")
	documentExportCmd.Flags().StringSliceVar(&exportFormats, "format", nil, "Formats to render (default: output.formats)")
	documentXSDCmd.Flags().StringVar(&xsdType, "type", "", "estimate (default), order or quotation_request")
}
