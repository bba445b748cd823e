// Package cmd - records command
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ebill/adapters/storage"
)

func newRecordsCmd(root *rootOptions) *cobra.Command {
	var (
		customerID int
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List stored bills",
		Long: `List bills from the configured record store in insertion order.

Examples:
  ebill records
  ebill records --customer-id 42 --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := &storage.ListFilter{Limit: limit}
			if cmd.Flags().Changed("customer-id") {
				filter.CustomerID = &customerID
			}

			sink := storage.NewConfigSink(root.cfg.Storage)
			records, err := sink.Read(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("read records from %s: %w", sink.Name(), err)
			}

			w := root.writer(cmd)
			w.Debug("read %d bills from %s", len(records), sink.Name())
			if len(records) == 0 {
				w.Info("No bills stored in %s", sink.Name())
				return nil
			}

			table := w.NewTable("ID", "Customer", "Name", "Units", "Amount", "Surcharge", "Total")
			for _, r := range records {
				table.AddRow(
					r.ID,
					strconv.Itoa(r.CustomerID),
					r.CustomerName,
					strconv.Itoa(r.UnitsConsumed),
					strconv.FormatFloat(r.Amount, 'f', 2, 64),
					strconv.FormatFloat(r.Surcharge, 'f', 2, 64),
					strconv.FormatFloat(r.TotalAmount, 'f', 2, 64),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&customerID, "customer-id", 0, "only bills for this customer")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of bills (0 = all)")

	return cmd
}
