// =============================================================================
// salesdocs - Process Command
// =============================================================================
//
// This file defines the 'process' command, which generates one document per
// draft file found in a directory.
//
// COMMAND USAGE:
//   salesdocs process <dir> [flags]
//
// FLAGS:
//   --dry-run : Check the drafts and their items without storing anything
//   --file    : Process a single draft file instead of a directory
//
// PROCESSING PIPELINE:
//   1. Load configuration
//   2. Discover draft files (*.yaml, *.yml) in the directory
//   3. For each draft (concurrently):
//      a. Load the draft
//      b. Build its line items
//      c. Generate, render and store the document
//   4. Print a summary
//
// A failing draft does not stop the others. Document numbers stay unique
// because all drafts share one generator.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesdocs/internal/amount"
	"github.com/ginjaninja78/salesdocs/internal/document"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun checks drafts without generating documents.
var dryRun bool

// filePath is a single draft to process instead of a directory.
var filePath string

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process [dir]",
	Short: "Generate documents from a directory of draft files",
	Long: `The process command scans a directory for YAML draft files and generates
one document for each of them.

Drafts are processed concurrently. Each draft is processed independently, and
an error in one draft does not affect the others.

A draft names its consultation and lists its items:

  type: estimate
  consultation_id: 6f1c...
  valid_until: 2024-06-01
  items:
    - name: A4 용지
      spec: 80g
      quantity: 2
      unit_price: 1000`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		switch {
		case filePath != "":
			files = []string{filePath}
		case len(args) == 1:
			var err error
			if files, err = discoverInputFiles(args[0]); err != nil {
				return fmt.Errorf("failed to discover draft files: %w", err)
			}
		default:
			return fmt.Errorf("a directory or --file is required")
		}

		if len(files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No draft files found.")
			return nil
		}
		if dryRun {
			return checkDrafts(cmd.OutOrStdout(), files)
		}
		return withApp(cmd, true, func(ctx context.Context, a *app) error {
			return runProcess(ctx, cmd.OutOrStdout(), a.generator(), files)
		})
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Check drafts and their items without generating documents",
	)
	processCmd.Flags().StringVar(
		&filePath,
		"file",
		"",
		"Process a single draft file",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// draftResult is the outcome of one draft file.
type draftResult struct {
	FilePath string
	Result   *document.Result
	Error    error
}

// runProcess generates a document for every file and prints a summary.
func runProcess(ctx context.Context, out io.Writer, gen *document.Generator, files []string) error {
	startTime := time.Now()
	fmt.Fprintf(out, "Processing %d draft(s)...\n", len(files))

	var wg sync.WaitGroup
	results := make(chan draftResult, len(files))

	for _, file := range files {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			draft, err := document.LoadDraft(path)
			if err != nil {
				results <- draftResult{FilePath: path, Error: err}
				return
			}
			res, err := gen.Run(ctx, draft)
			results <- draftResult{FilePath: path, Result: res, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []draftResult
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].FilePath < collected[j].FilePath })

	var successCount, errorCount int
	for _, r := range collected {
		name := filepath.Base(r.FilePath)
		if r.Error != nil {
			errorCount++
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, r.Error)
			continue
		}
		successCount++
		d := r.Result.Document
		fmt.Fprintf(out, "  ✓ %s -> %s %s\n", name, d.DocumentNumber, amount.FormatWon(d.TotalAmount.IntPart()))
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total drafts:    %d\n", len(files))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	if errorCount > 0 {
		return fmt.Errorf("%d of %d draft(s) failed", errorCount, len(files))
	}
	return nil
}

// checkDrafts loads each draft and builds its items without touching the
// database.
func checkDrafts(out io.Writer, files []string) error {
	failed := 0
	for _, path := range files {
		name := filepath.Base(path)
		n, err := checkDraft(path)
		if err == nil {
			fmt.Fprintf(out, "  ✓ %s: %d item(s)\n", name, n)
			continue
		}
		failed++
		fmt.Fprintf(out, "  ✗ %s: %v\n", name, err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d draft(s) failed", failed, len(files))
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func checkDraft(path string) (int, error) {
	draft, err := document.LoadDraft(path)
	if err != nil {
		return 0, err
	}
	l, err := draft.BuildLedger()
	if err != nil {
		return 0, err
	}
	return l.Len(), nil
}

// discoverInputFiles returns the draft files below inputDir in path order.
func discoverInputFiles(inputDir string) ([]string, error) {
	var files []string

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})

	return files, err
}
