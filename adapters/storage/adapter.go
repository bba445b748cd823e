// Package storage provides the record sink for computed bills.
// Supports multiple backends: mongo, file (JSON lines), memory.
package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ebill/core/types"
	"ebill/internal/config"
	"ebill/internal/errors"
	"ebill/internal/logging"
)

// Backend is a storage backend type
type Backend string

const (
	BackendMongo  Backend = "mongo"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// closeTimeout bounds the release of a store once its operation is done,
// even when the operation consumed the whole caller deadline.
const closeTimeout = 5 * time.Second

// Store is the storage interface
type Store interface {
	// Save appends a bill record and returns the store-assigned ID
	Save(ctx context.Context, record *BillRecord) (string, error)

	// Get retrieves a bill record by ID
	Get(ctx context.Context, id string) (*BillRecord, error)

	// List lists bill records in insertion order
	List(ctx context.Context, filter *ListFilter) ([]*BillRecord, error)

	// Close releases the connection
	Close(ctx context.Context) error
}

// BillRecord is the persisted form of a bill. Field names match the
// documents already in the electricity_bills collection.
type BillRecord struct {
	// ID is assigned by the store on Save
	ID string `json:"id,omitempty"`

	CustomerID    int     `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	UnitsConsumed int     `json:"unitsConsumed"`
	Amount        float64 `json:"amount"`
	Surcharge     float64 `json:"surcharge"`
	TotalAmount   float64 `json:"totalAmount"`
}

// NewBillRecord converts a priced bill into its stored form
func NewBillRecord(bill *types.Bill) *BillRecord {
	return &BillRecord{
		CustomerID:    bill.Customer.ID,
		CustomerName:  bill.Customer.Name,
		UnitsConsumed: bill.UnitsConsumed,
		Amount:        bill.Amount.InexactFloat64(),
		Surcharge:     bill.Surcharge.InexactFloat64(),
		TotalAmount:   bill.Total.InexactFloat64(),
	}
}

// ListFilter filters record listing
type ListFilter struct {
	// CustomerID restricts results to one customer when set
	CustomerID *int

	// Limit caps the number of results (0 = no limit)
	Limit int
}

func (f *ListFilter) matches(r *BillRecord) bool {
	if f == nil || f.CustomerID == nil {
		return true
	}
	return r.CustomerID == *f.CustomerID
}

func (f *ListFilter) limit(records []*BillRecord) []*BillRecord {
	if f != nil && f.Limit > 0 && f.Limit < len(records) {
		return records[:f.Limit]
	}
	return records
}

// Open creates a store for the configured backend. The mongo backend
// connects and pings before returning.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch Backend(cfg.Backend) {
	case BackendMongo:
		store, err := NewMongoStore(ctx, cfg.URI, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendFile:
		store, err := NewFileStore(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Newf(errors.TypeConfig, "unsupported backend: %s", cfg.Backend)
	}
}

// Opener acquires a store
type Opener func(ctx context.Context) (Store, error)

// ConfigOpener returns an Opener for cfg
func ConfigOpener(cfg config.StorageConfig) Opener {
	return func(ctx context.Context) (Store, error) {
		return Open(ctx, cfg)
	}
}

// WithStore acquires a store, runs fn against it and releases the store
// whether fn succeeds or fails. A failed release after a successful fn is
// logged, not returned: the operation itself already took effect.
func WithStore(ctx context.Context, open Opener, fn func(Store) error) error {
	log := logging.Named("storage")

	store, err := open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if cerr := store.Close(closeCtx); cerr != nil {
			log.Warn("failed to release store", zap.Error(cerr))
		}
	}()

	return fn(store)
}

// Sink writes one record per call over a scoped store connection
type Sink struct {
	open    Opener
	name    string
	timeout time.Duration
}

// NewSink creates a sink. name is used in user-facing messages; timeout
// bounds acquire plus write (0 = caller deadline only).
func NewSink(open Opener, name string, timeout time.Duration) *Sink {
	return &Sink{open: open, name: name, timeout: timeout}
}

// NewConfigSink creates a sink for the configured backend
func NewConfigSink(cfg config.StorageConfig) *Sink {
	name := cfg.Backend
	if Backend(cfg.Backend) == BackendMongo {
		name = "MongoDB"
	}
	return NewSink(ConfigOpener(cfg), name, cfg.Timeout)
}

// Name returns the display name of the sink
func (s *Sink) Name() string {
	return s.name
}

// Write stores record and returns its ID
func (s *Sink) Write(ctx context.Context, record *BillRecord) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var id string
	err := WithStore(ctx, s.open, func(store Store) error {
		var err error
		id, err = store.Save(ctx, record)
		return err
	})
	if err != nil {
		return "", err
	}

	logging.Named("storage").Debug("bill stored",
		zap.String("sink", s.name),
		zap.String("id", id),
		zap.Int("customer_id", record.CustomerID))
	return id, nil
}

// Read lists stored records over a scoped store connection
func (s *Sink) Read(ctx context.Context, filter *ListFilter) ([]*BillRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var records []*BillRecord
	err := WithStore(ctx, s.open, func(store Store) error {
		var err error
		records, err = store.List(ctx, filter)
		return err
	})
	return records, err
}
