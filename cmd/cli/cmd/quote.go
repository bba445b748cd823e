// Package cmd - quote command
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ebill/core/output"
	"ebill/internal/errors"
)

func newQuoteCmd(root *rootOptions) *cobra.Command {
	var units int

	cmd := &cobra.Command{
		Use:   "quote [units]",
		Short: "Show what a number of units costs, tier by tier",
		Long: `Price a unit count without a customer and without storing anything.
The count is given as an argument or with --units.

Examples:
  ebill quote 120
  ebill quote --units 260`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 1 && cmd.Flags().Changed("units"):
				return errors.Input("give units as an argument or with --units, not both", nil)
			case len(args) == 1:
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return errors.Input(fmt.Sprintf("units must be an integer, got %q", args[0]), err)
				}
				units = n
			case !cmd.Flags().Changed("units"):
				return errors.Input("units required: ebill quote <units> or --units <n>", nil)
			}

			schedule, err := root.schedule()
			if err != nil {
				return err
			}

			w := root.writer(cmd)
			if units < 0 {
				w.Println("Units consumed cannot be negative.")
				return nil
			}

			currency := root.cfg.Tariff.Currency
			lines, amount := schedule.Quote(units)
			surcharge := schedule.Surcharge(amount)

			w.Header(fmt.Sprintf("Quote: %d units (%s, tier %d)", units, schedule.Name, schedule.Classify(units)+1))
			table := w.NewTable("Tier", "Range", "Units", "Rate", "Cost")
			for _, l := range lines {
				table.AddRow(l.Name, l.Range, strconv.Itoa(l.Units), l.Rate.StringFixed(2), output.Money(currency, l.Cost))
			}
			table.Render()

			w.Println("")
			w.Println("Amount: %s", output.Money(currency, amount))
			w.Println("Surcharge (%s): %s", schedule.SurchargePercent(), output.Money(currency, surcharge))
			w.Println("Total Amount: %s", output.Money(currency, schedule.Total(amount, surcharge)))
			return nil
		},
	}

	cmd.Flags().IntVar(&units, "units", 0, "units consumed")
	return cmd
}
