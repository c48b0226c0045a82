package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/service"
)

var validateTarget string

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate canonical invoices against their format's rules",
	Long: `Validate one or more canonical invoice JSON files without generating
documents.

Each invoice is checked against the business rules of its output format:
the EN 16931 monetary cross-checks plus the format's national rules
(XRechnung, Peppol, Factur-X, FatturaPA, KSeF, NLCIUS, CIUS-RO).

Examples:
  einvoice validate invoice.json
  einvoice validate *.json --target peppol-bis
  einvoice validate invoice.json -f json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateTarget, "target", "t", "", "Override the record's output format")
}

// FileValidation holds the verdict for a single file
type FileValidation struct {
	File    string            `json:"file"`
	Profile string            `json:"profile"`
	Valid   bool              `json:"valid"`
	Errors  []model.Violation `json:"errors,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	svc := service.New()
	results := make([]*FileValidation, 0, len(files))
	allValid := true

	for _, file := range files {
		inv, err := readInvoice(file)
		if err != nil {
			return err
		}
		if validateTarget != "" {
			inv.OutputFormat = validateTarget
		}

		verdict, err := svc.Validate(inv)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		results = append(results, &FileValidation{
			File:    file,
			Profile: verdict.Profile,
			Valid:   verdict.Valid,
			Errors:  verdict.Errors,
		})
		if !verdict.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Printf("✓ %s [%s]: VALID\n", r.File, r.Profile)
				continue
			}
			fmt.Printf("✗ %s [%s]: INVALID\n", r.File, r.Profile)
			for _, v := range r.Errors {
				fmt.Printf("  - [%s] %s\n", v.RuleID, v.Message)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}
