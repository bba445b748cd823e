// Package cmd provides the CLI commands for ebill.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ebill/core/tariff"
	"ebill/core/ui"
	"ebill/internal/config"
	"ebill/internal/logging"
)

// version is set at build time with -ldflags "-X ebill/cmd/cli/cmd.version=..."
var version = "dev"

// rootOptions holds the persistent flags and the configuration they resolve to
type rootOptions struct {
	cfgFile string
	verbose bool
	noColor bool

	cfg *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "ebill",
		Short: "Compute and record tiered electricity bills",
		Long: `ebill computes a tiered electricity bill for one customer, prints the
invoice and stores the result in the configured record store.

The connection string is read from EBILL_STORAGE_URI or the config file.

Examples:
  ebill bill
  ebill bill --customer-id 42 --name "Ravi Kumar" --units 120
  ebill bill --format json --dry-run --units 260 --customer-id 1 --name Asha
  ebill quote 260
  ebill records --customer-id 42`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags parsed; from here on failures are not usage errors.
			cmd.SilenceUsage = true
			return opts.initConfig()
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", defaultConfigPath(), "config file (json, yaml or toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable coloured status lines")

	root.AddCommand(newBillCmd(opts))
	root.AddCommand(newQuoteCmd(opts))
	root.AddCommand(newTariffCmd(opts))
	root.AddCommand(newRecordsCmd(opts))
	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(opts))

	return root
}

// Execute runs the CLI
func Execute() error {
	defer logging.Close()
	return NewRootCmd().Execute()
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ebill", "config.json")
}

func (o *rootOptions) initConfig() error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Logging.Level = "debug"
	}
	if o.noColor {
		cfg.Output.NoColor = true
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	o.cfg = cfg

	logging.Debug("configuration loaded",
		zap.String("file", o.cfgFile),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("tariff", cfg.Tariff.File))
	return nil
}

// schedule returns the configured tariff, falling back to the built-in one
func (o *rootOptions) schedule() (*tariff.Schedule, error) {
	if o.cfg.Tariff.File == "" {
		return tariff.Default(), nil
	}
	return tariff.LoadFile(o.cfg.Tariff.File)
}

func (o *rootOptions) writer(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), o.cfg.Output.NoColor)
	if o.verbose {
		w.SetVerbosity(ui.Verbose)
	}
	return w
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ebill version %s\n", version)
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(opts.cfg.Redacted(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file to the --config path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfgFile == "" {
				return fmt.Errorf("no config path: pass --config")
			}
			if _, err := os.Stat(opts.cfgFile); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.cfgFile)
			}
			if err := config.Default().Save(opts.cfgFile); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			opts.writer(cmd).Success("Wrote %s", opts.cfgFile)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(initCmd)

	return configCmd
}
