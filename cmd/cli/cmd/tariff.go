// Package cmd - tariff command
package cmd

import (
	"github.com/spf13/cobra"

	"ebill/core/output"
)

func newTariffCmd(root *rootOptions) *cobra.Command {
	tariffCmd := &cobra.Command{
		Use:   "tariff",
		Short: "Inspect the rate schedule",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	tariffCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the tiers, rates and surcharge in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := root.schedule()
			if err != nil {
				return err
			}

			w := root.writer(cmd)
			w.Header("Tariff: " + schedule.Name)
			table := w.NewTable("Tier", "Range", "Rate")
			for i, t := range schedule.Tiers {
				table.AddRow(t.Name, schedule.Range(i), output.Money(root.cfg.Tariff.Currency, t.Rate))
			}
			table.Render()
			w.Println("")
			w.Println("Surcharge: %s of amount", schedule.SurchargePercent())
			return nil
		},
	})

	return tariffCmd
}
