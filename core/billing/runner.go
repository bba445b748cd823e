// Package billing runs one billing cycle: validate, price, print, store, report.
package billing

import (
	"context"
	"io"

	"go.uber.org/zap"

	"ebill/adapters/storage"
	"ebill/core/output"
	"ebill/core/tariff"
	"ebill/core/types"
	"ebill/core/ui"
	"ebill/internal/errors"
	"ebill/internal/logging"
)

// Input is what the operator supplies for one bill
type Input struct {
	CustomerID    int
	CustomerName  string
	UnitsConsumed int
}

// Sink persists a bill record
type Sink interface {
	// Name is shown in the success message
	Name() string

	// Write stores the record and returns its ID
	Write(ctx context.Context, record *storage.BillRecord) (string, error)
}

// Outcome reports what a run did. Validation and storage failures are
// values here, not returned errors: both end the run normally.
type Outcome struct {
	// Bill is nil when validation failed
	Bill *types.Bill

	// RecordID is the store-assigned ID when Stored is true
	RecordID string

	// Stored reports a successful write
	Stored bool

	// ValidationErr is set when the input was rejected before pricing
	ValidationErr error

	// StoreErr is set when connect or write failed
	StoreErr error
}

// Config wires a Runner
type Config struct {
	// Schedule prices the bill
	Schedule *tariff.Schedule

	// Formatter renders the invoice to Out
	Formatter output.Formatter

	// Out receives the invoice
	Out io.Writer

	// Status receives validation and storage messages
	Status *ui.Writer

	// Sink stores the bill; nil skips storage
	Sink Sink

	// Currency is printed before amounts
	Currency string

	// ShowDetails adds the per-tier breakdown
	ShowDetails bool
}

// Runner executes billing runs
type Runner struct {
	cfg Config
	log *zap.Logger
}

// NewRunner creates a runner
func NewRunner(cfg Config) *Runner {
	if cfg.Schedule == nil {
		cfg.Schedule = tariff.Default()
	}
	if cfg.Formatter == nil {
		cfg.Formatter = output.CLIFormatter{}
	}
	return &Runner{
		cfg: cfg,
		log: logging.Named("billing"),
	}
}

// Run prices in, prints the invoice and stores it. The invoice is fully
// written before storage is attempted. The returned error is non-nil only
// when the invoice itself could not be written.
func (r *Runner) Run(ctx context.Context, in Input) (*Outcome, error) {
	customer := types.NewCustomer(in.CustomerID, in.CustomerName)

	bill, err := r.cfg.Schedule.Price(customer, in.UnitsConsumed)
	if err != nil {
		if !errors.IsType(err, errors.TypeValidation) {
			return nil, err
		}
		r.log.Info("input rejected", zap.Int("units", in.UnitsConsumed), zap.Error(err))
		r.cfg.Status.Println("Units consumed cannot be negative.")
		return &Outcome{ValidationErr: err}, nil
	}

	r.log.Debug("bill priced",
		zap.Int("customer_id", customer.ID),
		zap.Int("units", bill.UnitsConsumed),
		zap.Int("tier", bill.Tier),
		zap.String("total", bill.Total.String()))

	invoice := &output.Invoice{
		Bill:           bill,
		Currency:       r.cfg.Currency,
		SurchargeLabel: r.cfg.Schedule.SurchargePercent(),
		ShowDetails:    r.cfg.ShowDetails,
	}
	if err := r.cfg.Formatter.Render(r.cfg.Out, invoice); err != nil {
		return nil, errors.Internal("render invoice", err)
	}

	outcome := &Outcome{Bill: bill}
	if r.cfg.Sink == nil {
		r.log.Debug("storage skipped")
		return outcome, nil
	}

	id, err := r.cfg.Sink.Write(ctx, storage.NewBillRecord(bill))
	if err != nil {
		r.log.Warn("bill not stored", zap.String("sink", r.cfg.Sink.Name()), zap.Error(err))
		r.cfg.Status.Error("Failed to connect or insert: %s", err.Error())
		outcome.StoreErr = err
		return outcome, nil
	}

	outcome.Stored = true
	outcome.RecordID = id
	r.cfg.Status.Println("")
	r.cfg.Status.Success("Bill inserted into %s successfully!", r.cfg.Sink.Name())
	return outcome, nil
}
