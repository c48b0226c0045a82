package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "einvoice",
	Short: "Convert canonical invoices into European e-invoice formats",
	Long: `einvoice converts canonical invoice records (JSON) into electronic
invoice documents and validates them against the matching business rules.

Supported output formats:
  xrechnung-cii, xrechnung-ubl, peppol-bis, facturx-en16931,
  facturx-basic, fatturapa, ksef, nlcius, cius-ro

Examples:
  # Generate a document from a canonical invoice
  einvoice generate invoice.json

  # Generate for a specific format into a directory
  einvoice generate invoice.json --target xrechnung-ubl -o out/

  # Validate without generating
  einvoice validate invoice.json

  # List the supported formats
  einvoice formats`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (json, table)")
}

// newLogger builds the logger used by the long-running commands. Verbose
// mode switches to the development encoder.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
