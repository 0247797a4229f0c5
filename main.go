// =============================================================================
// salesdocs - Main Entry Point
// =============================================================================
//
// salesdocs keeps customer companies, contacts and consultations, and
// generates estimates, orders and quotation requests from them.
//
// USAGE:
//   salesdocs company add --name 한빛상사   - Register a customer
//   salesdocs consultation add ...        - Record a consultation
//   salesdocs document create ...         - Generate a document
//   salesdocs process drafts/             - Generate documents from draft files
//   salesdocs amount 15000                - Print an amount in Korean words
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Ledger, numerals, store, generation and exporters
//   - pkg/           : Shared file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/salesdocs/cmd"
)

func main() {
	cmd.Execute()
}
