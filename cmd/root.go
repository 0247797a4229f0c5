// =============================================================================
// salesdocs - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it from the init function of its own file.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesdocs)
//   ├── amount         Korean words for an amount
//   ├── company        add | list | show | notes
//   ├── contact        add | list
//   ├── user           add | list
//   ├── consultation   add | list | set
//   ├── document       create | list | show | export | xsd
//   ├── process        generate documents from a directory of drafts
//   └── version
//
// CONFIGURATION:
//   The root command owns the global flags. Commands that need the store or
//   blob storage open them through openApp (app.go), which loads the
//   configuration, builds the logger and writes metrics on close.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// A missing file at the default path means "use defaults".
var cfgFile string

// verbose enables debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "salesdocs",
	Short: "salesdocs - Estimates, purchase orders and quotation requests",
	Long: `salesdocs keeps the customer records of a sales team (companies, contacts,
consultations) and generates the commercial documents that follow a
consultation: estimates (견적서), purchase orders (발주서) and quotation
requests (견적의뢰서).

Line items come from a YAML draft, a CSV export or an Excel sheet. Every
document carries its total in figures and in Korean numeral words, and is
rendered to XLSX, XML or JSON.

Example Usage:
  salesdocs company add --name 한빛상사
  salesdocs consultation add --company <id> --contact <id> --user <id>
  salesdocs document create --consultation <id> --csv items.csv
  salesdocs amount 123456`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
