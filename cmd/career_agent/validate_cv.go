package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-docs/internal/fvs"
	"github.com/jonathan/career-docs/internal/observability"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/types"
)

var validateCVCommand = &cobra.Command{
	Use:   "validate-cv",
	Short: "Validate a tailored CV against its source CV",
	Long:  "Runs fact verification offline: extracts the fact baseline from the source CV and checks every fact the tailored CV asserts against it. Exits non-zero when critical violations are found.",
	RunE:  validateCVCmd,
}

var (
	validateCVSource    string
	validateCVCandidate string
	validateCVVerbose   bool
)

func init() {
	validateCVCommand.Flags().StringVarP(&validateCVSource, "source", "s", "", "Path to the source CV JSON file (required)")
	validateCVCommand.Flags().StringVarP(&validateCVCandidate, "candidate", "c", "", "Path to the tailored CV JSON file (required)")
	validateCVCommand.Flags().BoolVarP(&validateCVVerbose, "verbose", "v", false, "Print the extracted baseline as well")
	_ = validateCVCommand.MarkFlagRequired("source")
	_ = validateCVCommand.MarkFlagRequired("candidate")

	rootCmd.AddCommand(validateCVCommand)
}

func validateCVCmd(_ *cobra.Command, _ []string) error {
	var sourceCV types.SourceCV
	if err := loadDocument(validateCVSource, schemas.SourceCV, &sourceCV); err != nil {
		return err
	}
	var candidate types.TailoredCV
	if err := loadDocument(validateCVCandidate, schemas.TailoredCV, &candidate); err != nil {
		return err
	}

	baseline, err := fvs.ExtractBaseline(&sourceCV)
	if err != nil {
		return fmt.Errorf("failed to extract fact baseline: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if validateCVVerbose {
		printer.PrintBaseline(baseline)
	}

	res := fvs.ValidateCVAgainstBaseline(baseline, &candidate)
	if !res.Success {
		return fmt.Errorf("validation could not run: %s", res.Error)
	}

	code := fvs.ResultCodeFor(res.Data)
	printer.PrintValidationResult(res.Data, code)

	if res.Data.HasCriticalViolations() {
		return fmt.Errorf("tailored CV rejected: %s", code)
	}
	return nil
}

// loadDocument reads a JSON file, checks it against the schema, and decodes it.
func loadDocument(path string, doc schemas.Document, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.Validate(doc, data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
