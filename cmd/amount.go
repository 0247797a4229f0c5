package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesdocs/internal/amount"
)

var amountStyle string

var amountCmd = &cobra.Command{
	Use:   "amount <number>",
	Short: "Write an amount in Korean numeral words",
	Long: `Write a whole, non-negative amount in Korean numeral words, the way totals
are printed on documents.

  salesdocs amount 123456
  십이만 삼천사백오십육 원 (₩ 123,456)

--style legacy keeps the digit word 일 in front of every unit (일백, 일만).
Without --style the configured numerals.style is used. Negative amounts
are rejected.`,
	// Flags are parsed by parseAmountArgs so that "-5" is read as an amount.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		arg, help, err := parseAmountArgs(cmd, args)
		if err != nil {
			return err
		}
		if help {
			return cmd.Help()
		}

		style, err := resolveStyle(cmd)
		if err != nil {
			return err
		}

		clean := strings.NewReplacer(",", "", "₩", "", " ", "").Replace(arg)
		d, err := decimal.NewFromString(clean)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", amount.ErrInvalidAmount, arg)
		}
		n, err := amount.WholeWon(d)
		if err != nil {
			return err
		}

		caption, err := amount.Formatter{Style: style}.Caption(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", caption, amount.FormatWon(n))
		return nil
	},
}

// negativeAmount matches arguments such as "-5" or "-₩1,000" that the flag
// parser would take for shorthand flags.
var negativeAmount = regexp.MustCompile(`^-[0-9₩]`)

// parseAmountArgs parses the command's flags, including the inherited
// --config and --verbose, and returns the single amount argument.
func parseAmountArgs(cmd *cobra.Command, args []string) (string, bool, error) {
	var flagArgs, amounts []string
	for _, a := range args {
		if negativeAmount.MatchString(a) {
			amounts = append(amounts, a)
			continue
		}
		flagArgs = append(flagArgs, a)
	}

	// InheritedFlags merges the root's persistent flags into cmd.Flags().
	cmd.InheritedFlags()
	flags := cmd.Flags()
	if err := flags.Parse(flagArgs); err != nil {
		return "", false, err
	}
	if help, _ := flags.GetBool("help"); help {
		return "", true, nil
	}

	amounts = append(flags.Args(), amounts...)
	if len(amounts) != 1 {
		return "", false, fmt.Errorf("accepts 1 arg(s), received %d", len(amounts))
	}
	return amounts[0], false, nil
}

func resolveStyle(cmd *cobra.Command) (amount.Style, error) {
	if amountStyle != "" {
		return amount.ParseStyle(amountStyle)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return amount.StyleConventional, err
	}
	return cfg.NumeralStyle(), nil
}

func init() {
	rootCmd.AddCommand(amountCmd)
	amountCmd.Flags().StringVar(&amountStyle, "style", "", "Numeral style: conventional or legacy")
}
