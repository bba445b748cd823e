// Package cmd - bill command
package cmd

import (
	"github.com/spf13/cobra"

	"ebill/adapters/storage"
	"ebill/core/billing"
	"ebill/core/output"
	"ebill/core/ui"
)

type billOptions struct {
	customerID int
	name       string
	units      int
	format     string
	details    bool
	dryRun     bool
}

func newBillCmd(root *rootOptions) *cobra.Command {
	o := &billOptions{}

	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Compute, print and store one customer's bill",
		Long: `Read a customer ID, name and units consumed, print the invoice and
store the bill. Values given as flags are not prompted for.

A storage failure is reported after the invoice and does not change the
exit status.

Examples:
  ebill bill
  ebill bill --customer-id 42 --name "Ravi Kumar" --units 120
  ebill bill --format yaml --details --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBill(cmd, root, o)
		},
	}

	cmd.Flags().IntVar(&o.customerID, "customer-id", 0, "customer ID")
	cmd.Flags().StringVar(&o.name, "name", "", "customer name")
	cmd.Flags().IntVar(&o.units, "units", 0, "units consumed")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format (cli, json, yaml); default from config")
	cmd.Flags().BoolVarP(&o.details, "details", "d", false, "show the per-tier breakdown")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "print the invoice without storing it")

	return cmd
}

func runBill(cmd *cobra.Command, root *rootOptions, o *billOptions) error {
	cfg := root.cfg

	format := cfg.Output.Format
	if o.format != "" {
		format = o.format
	}
	formatter, err := output.New(output.Format(format))
	if err != nil {
		return err
	}

	schedule, err := root.schedule()
	if err != nil {
		return err
	}

	// Machine-readable invoices own stdout; prompts and status go to stderr.
	statusOut := cmd.OutOrStdout()
	if formatter.Format() != output.FormatCLI {
		statusOut = cmd.ErrOrStderr()
	}
	status := ui.NewWriter(statusOut, cfg.Output.NoColor)

	var preset billing.Preset
	if cmd.Flags().Changed("customer-id") {
		preset.CustomerID = &o.customerID
	}
	if cmd.Flags().Changed("name") {
		preset.CustomerName = &o.name
	}
	if cmd.Flags().Changed("units") {
		preset.UnitsConsumed = &o.units
	}

	in, err := billing.ReadInput(ui.NewPrompter(cmd.InOrStdin(), status), preset)
	if err != nil {
		return err
	}

	var sink billing.Sink
	if !o.dryRun {
		sink = storage.NewConfigSink(cfg.Storage)
	}

	runner := billing.NewRunner(billing.Config{
		Schedule:    schedule,
		Formatter:   formatter,
		Out:         cmd.OutOrStdout(),
		Status:      status,
		Sink:        sink,
		Currency:    cfg.Tariff.Currency,
		ShowDetails: cfg.Output.ShowDetails || o.details,
	})

	_, err = runner.Run(cmd.Context(), in)
	return err
}
