package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-docs/internal/fvs"
	"github.com/jonathan/career-docs/internal/observability"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/types"
)

var validateVPRCommand = &cobra.Command{
	Use:   "validate-vpr",
	Short: "Validate a Value Proposition Report against a source CV",
	Long:  "Scans the report's narrative fields for company and role mentions that the source CV cannot back. The report's own target company and role are exempt. Exits non-zero when fabrications are found.",
	RunE:  validateVPRCmd,
}

var (
	validateVPRSource  string
	validateVPRReport  string
	validateVPRVerbose bool
)

func init() {
	validateVPRCommand.Flags().StringVarP(&validateVPRSource, "source", "s", "", "Path to the source CV JSON file (required)")
	validateVPRCommand.Flags().StringVarP(&validateVPRReport, "report", "r", "", "Path to the VPR JSON file (required)")
	validateVPRCommand.Flags().BoolVarP(&validateVPRVerbose, "verbose", "v", false, "Print the extracted baseline as well")
	_ = validateVPRCommand.MarkFlagRequired("source")
	_ = validateVPRCommand.MarkFlagRequired("report")

	rootCmd.AddCommand(validateVPRCommand)
}

func validateVPRCmd(_ *cobra.Command, _ []string) error {
	var sourceCV types.SourceCV
	if err := loadDocument(validateVPRSource, schemas.SourceCV, &sourceCV); err != nil {
		return err
	}
	var report types.ValueProposition
	if err := loadDocument(validateVPRReport, schemas.VPR, &report); err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if validateVPRVerbose {
		baseline, err := fvs.ExtractBaseline(&sourceCV)
		if err != nil {
			return fmt.Errorf("failed to extract fact baseline: %w", err)
		}
		printer.PrintBaseline(baseline)
	}

	res := fvs.ValidateVPRAgainstCV(&report, &sourceCV)
	if res.Code == types.CodeInternalError {
		return fmt.Errorf("validation could not run: %s", res.Error)
	}

	printer.PrintValidationResult(res.Data, res.Code)

	if !res.Success {
		return fmt.Errorf("report rejected: %s", res.Code)
	}
	return nil
}
