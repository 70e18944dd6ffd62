package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/isotest/iso-testgen/internal/storage"
	"github.com/isotest/iso-testgen/internal/validation"
)

func newVerifyCmd(a *app) *cobra.Command {
	var output string
	var strict bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check an extended catalog against its own validation rules",
		Long: `Load an extended catalog and confirm that every valid example satisfies its
field's validation rules and that invalid test cases violate them. Date and
time cases are well-formed values and are not rule checked. Structural
problems in field definitions are reported as warnings.

Fails when a valid example is rejected, or with --strict when an invalid
test case is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				a.cfg.Catalog.Output = output
			}
			return runVerify(cmd, a, strict)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "extended catalog to verify (default from config)")
	cmd.Flags().BoolVar(&strict, "strict", false, "also fail when an invalid test case passes the rules")

	return cmd
}

func runVerify(cmd *cobra.Command, a *app, strict bool) error {
	path := a.cfg.Catalog.Output
	if err := a.validator.ValidateFilePath(path); err != nil {
		return fmt.Errorf("invalid catalog path: %w", err)
	}

	catalog, err := storage.NewFileStore("", a.cfg.Catalog.Indent).Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, key := range catalog.Keys() {
		field, _ := catalog.Get(key)
		if err := a.validator.CheckDefinition(field.FieldDefinition); err != nil {
			a.logger.Warn("field definition problem", zap.String("field", key), zap.Error(err))
			fmt.Fprintf(out, "warning: field %s: %v\n", key, err)
		}
	}

	report := a.validator.VerifyCatalog(catalog)
	printReport(out, report)

	a.logger.Debug("catalog verified",
		zap.String("path", path),
		zap.Int("checked", report.Checked),
		zap.Int("valid_failures", len(report.ValidFailures)),
		zap.Int("accepted_invalid", len(report.AcceptedInvalid)),
	)

	if !report.OK() {
		return fmt.Errorf("%d valid example(s) failed their validation rules", len(report.ValidFailures))
	}
	if strict && len(report.AcceptedInvalid) > 0 {
		return fmt.Errorf("%d invalid test case(s) passed their validation rules", len(report.AcceptedInvalid))
	}
	return nil
}

func printReport(w io.Writer, report *validation.Report) {
	for _, f := range report.ValidFailures {
		fmt.Fprintf(w, "FAIL  field %s %s %q: %s\n", f.Field, f.Case, f.Value, f.Error)
	}
	for _, f := range report.AcceptedInvalid {
		fmt.Fprintf(w, "PASS? field %s %s %q was accepted\n", f.Field, f.Case, f.Value)
	}
	fmt.Fprintf(w, "Verified %d fields: %d checks, %d skipped, %d valid example failures, %d invalid cases accepted\n",
		report.Fields, report.Checked, report.Skipped, len(report.ValidFailures), len(report.AcceptedInvalid))
}
