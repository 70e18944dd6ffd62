package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/isotest/iso-testgen/internal/config"
	"github.com/isotest/iso-testgen/internal/ui"
)

// DefaultConfigFile is written by init when no path is given
const DefaultConfigFile = "iso-testgen.yaml"

const confirmTimeout = 30 * time.Second

func newInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with default values",
		Long: `Write a YAML configuration file holding the default settings, ready to edit.
The path comes from the argument, then --config, then iso-testgen.yaml.
An existing file is only replaced after confirmation or with --force.

Examples:
  iso-testgen init
  iso-testgen init ci/iso-testgen.yaml --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultConfigFile
			switch {
			case len(args) == 1:
				path = args[0]
			case a.configFile != "":
				path = a.configFile
			}

			if err := a.validator.ValidateFilePath(path); err != nil {
				return fmt.Errorf("invalid config path: %w", err)
			}
			if _, err := os.Stat(path); err == nil {
				// --force approves without prompting
				confirmer := ui.NewConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), ui.Options{
					AutoApprove: force,
					DefaultDeny: !force,
					Timeout:     confirmTimeout,
				})
				if result := confirmer.ConfirmOverwrite(cmd.Context(), path); !result.Approved {
					return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
				}
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
