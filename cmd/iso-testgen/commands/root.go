package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/isotest/iso-testgen/internal/audit"
	"github.com/isotest/iso-testgen/internal/config"
	"github.com/isotest/iso-testgen/internal/logging"
	"github.com/isotest/iso-testgen/internal/validation"
)

var version = "dev"

// app carries state shared by all subcommands of one invocation
type app struct {
	configFile string
	verbose    bool

	cfg       *config.Config
	logger    *zap.Logger
	validator *validation.Validator
}

// newApp starts with a discarding logger until setup builds the configured one
func newApp() *app {
	return &app{
		logger:    logging.Nop(),
		validator: validation.NewValidator(),
	}
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := newApp()

	rootCmd := &cobra.Command{
		Use:   "iso-testgen",
		Short: "Generate test data for ISO 8583 message fields",
		Long: `iso-testgen reads a catalog of ISO 8583 field definitions and writes an
extended catalog where every field carries invalid test cases, validation
rules and a valid example value.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "debug logging")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newVerifyCmd(a),
		newClassifyCmd(a),
		newInitCmd(a),
		newHistoryCmd(a),
	)

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
}

// setup loads configuration and builds the logger before any subcommand runs
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.configFile != "" {
		if err := a.validator.ValidateFilePath(a.configFile); err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		// init creates the file it is pointed at
		if !(errors.Is(err, config.ErrConfigNotFound) && cmd.Name() == "init") {
			return err
		}
		cfg = config.DefaultConfig()
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logging.New(level)
	if err != nil {
		return err
	}
	return nil
}

// openLedger opens the run ledger when one is configured. The returned
// logger is nil otherwise.
func (a *app) openLedger() (*audit.Logger, error) {
	if a.cfg.Logging.AuditFile == "" {
		return nil, nil
	}
	if err := a.validator.ValidateFilePath(a.cfg.Logging.AuditFile); err != nil {
		return nil, fmt.Errorf("invalid audit file path: %w", err)
	}
	return audit.NewLogger(audit.Config{
		FilePath: a.cfg.Logging.AuditFile,
		MaxSize:  a.cfg.Logging.AuditMaxSize,
	})
}

func startRun(ledger *audit.Logger, command string, details map[string]interface{}) *audit.Run {
	if ledger == nil {
		return nil
	}
	return ledger.StartRun(command, details)
}
