package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rezonia/einvoice-engine/internal/model"
	"github.com/rezonia/einvoice-engine/internal/service"
)

var (
	targetFormat string
	outputDir    string
)

var generateCmd = &cobra.Command{
	Use:   "generate [files...]",
	Short: "Generate e-invoice documents from canonical invoices",
	Long: `Generate electronic invoice documents from canonical invoice JSON files.

Each input file holds one canonical invoice record. The output format is
taken from the record's outputFormat field unless --target overrides it.
Generated documents land next to the input file, or under --output.

A document is always written; business-rule violations are reported on
stderr and reflected in the exit code.

Examples:
  einvoice generate invoice.json
  einvoice generate invoice.json --target facturx-en16931
  einvoice generate *.json -o out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&targetFormat, "target", "t", "", "Override the record's output format")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for generated documents")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to process")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	svc := service.New(service.WithLogger(log))
	allValid := true

	for _, file := range files {
		inv, err := readInvoice(file)
		if err != nil {
			return err
		}
		if targetFormat != "" {
			inv.OutputFormat = targetFormat
		}

		printVerbose("generating %s as %s\n", file, inv.OutputFormat)

		result, err := svc.Generate(inv)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		outPath := filepath.Join(filepath.Dir(file), result.FileName)
		if outputDir != "" {
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}
			outPath = filepath.Join(outputDir, result.FileName)
		}

		content := result.XMLContent
		if len(result.PDFContent) > 0 {
			content = result.PDFContent
		}
		if err := os.WriteFile(outPath, content, 0o644); err != nil {
			return err
		}

		if result.ValidationStatus == model.StatusValid {
			fmt.Printf("✓ %s -> %s\n", file, outPath)
			continue
		}

		allValid = false
		fmt.Printf("✗ %s -> %s (%d rule violations)\n", file, outPath, len(result.ValidationErrors))
		for _, v := range result.ValidationErrors {
			fmt.Fprintf(os.Stderr, "  [%s] %s\n", v.RuleID, v.Message)
		}
	}

	if !allValid {
		return fmt.Errorf("some documents carry rule violations")
	}
	return nil
}

func readInvoice(path string) (*model.CanonicalInvoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var inv model.CanonicalInvoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &inv, nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}
			matches = []string{arg}
		}

		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				entries, err := filepath.Glob(filepath.Join(m, "*.json"))
				if err != nil {
					return nil, err
				}
				files = append(files, entries...)
				continue
			}
			files = append(files, m)
		}
	}

	return files, nil
}
