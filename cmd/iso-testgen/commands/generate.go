package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/isotest/iso-testgen/internal/fieldgen"
	"github.com/isotest/iso-testgen/internal/storage"
)

// SuccessMessage is printed after the extended catalog is written
const SuccessMessage = "Successfully generated extended ISO config with test cases!"

type generateOptions struct {
	input                string
	output               string
	seed                 int64
	missingLength        string
	legacyIndicatorCases bool
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Extend a field catalog with test cases, rules and examples",
		Long: `Read the input catalog, synthesize test data for every field that declares
a format and a type, and write the extended catalog. Fields without format
or type are copied unchanged. Nothing is written when generation fails.

Examples:
  iso-testgen generate
  iso-testgen generate --input fields.json --output fields_extended.json --seed 42
  iso-testgen generate --missing-length skip`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "input catalog (default from config, iso_config.json)")
	cmd.Flags().StringVar(&opts.output, "output", "", "output catalog (default from config, iso_config_extended.json)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed for reproducible output (0 = random)")
	cmd.Flags().StringVar(&opts.missingLength, "missing-length", "", "fields lacking a usable length: fail or skip")
	cmd.Flags().BoolVar(&opts.legacyIndicatorCases, "legacy-indicator-cases", false, "add mismatched and missing length indicator cases to variable-length fields")

	return cmd
}

// applyFlags overrides configuration with explicitly set flags
func (o *generateOptions) applyFlags(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("input") {
		a.cfg.Catalog.Input = o.input
	}
	if flags.Changed("output") {
		a.cfg.Catalog.Output = o.output
	}
	if flags.Changed("seed") {
		a.cfg.Generation.Seed = o.seed
	}
	if flags.Changed("missing-length") {
		a.cfg.Generation.MissingLength = o.missingLength
	}
	if flags.Changed("legacy-indicator-cases") {
		a.cfg.Generation.LegacyIndicatorCases = o.legacyIndicatorCases
	}

	if err := a.validator.ValidateFilePath(a.cfg.Catalog.Input); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := a.validator.ValidateFilePath(a.cfg.Catalog.Output); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	return a.cfg.Validate()
}

func runGenerate(cmd *cobra.Command, a *app, opts *generateOptions) error {
	if err := opts.applyFlags(cmd, a); err != nil {
		return err
	}
	cfg := a.cfg

	policy, err := fieldgen.ParsePolicy(cfg.Generation.MissingLength)
	if err != nil {
		return err
	}

	ledger, err := a.openLedger()
	if err != nil {
		return err
	}
	if ledger != nil {
		defer ledger.Close()
	}
	run := startRun(ledger, "generate", map[string]interface{}{
		"input":          cfg.Catalog.Input,
		"output":         cfg.Catalog.Output,
		"seed":           cfg.Generation.Seed,
		"missing_length": string(policy),
	})

	store := storage.NewFileStore("", cfg.Catalog.Indent)

	catalog, err := store.Load(cfg.Catalog.Input)
	if err != nil {
		run.Fail(err)
		return err
	}
	a.logger.Debug("catalog loaded", zap.String("path", cfg.Catalog.Input), zap.Int("fields", catalog.Len()))

	synth := fieldgen.NewSynthesizer(fieldgen.NewSource(cfg.Generation.Seed), &fieldgen.Options{
		LegacyIndicatorCases: cfg.Generation.LegacyIndicatorCases,
	})

	counts := map[fieldgen.Outcome]int{}
	extender := fieldgen.NewExtender(synth,
		fieldgen.WithPolicy(policy),
		fieldgen.WithObserver(func(e fieldgen.Event) {
			counts[e.Outcome]++
			if e.Outcome == fieldgen.OutcomeSkipped {
				a.logger.Warn("field skipped", zap.String("field", e.Key), zap.Error(e.Err))
				run.FieldSkipped(e.Key, e.Err)
				return
			}
			a.logger.Debug("field processed", zap.String("field", e.Key), zap.String("outcome", string(e.Outcome)))
		}),
	)

	extended, err := extender.Extend(catalog)
	if err != nil {
		a.logger.Error("generation failed", zap.Error(err))
		run.Fail(err)
		return err
	}

	checksum, err := store.Save(cfg.Catalog.Output, extended)
	if err != nil {
		run.Fail(err)
		return err
	}

	a.logger.Info("extended catalog written",
		zap.String("path", cfg.Catalog.Output),
		zap.Int("extended", counts[fieldgen.OutcomeExtended]),
		zap.Int("pass_through", counts[fieldgen.OutcomePassThrough]),
		zap.Int("skipped", counts[fieldgen.OutcomeSkipped]),
		zap.String("checksum", checksum),
	)
	run.Complete(checksum, map[string]interface{}{
		"fields":       extended.Len(),
		"extended":     counts[fieldgen.OutcomeExtended],
		"pass_through": counts[fieldgen.OutcomePassThrough],
		"skipped":      counts[fieldgen.OutcomeSkipped],
	})

	fmt.Fprintln(cmd.OutOrStdout(), SuccessMessage)
	return nil
}
