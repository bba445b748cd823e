package storage

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ebill/core/types"
	"ebill/internal/config"
	"ebill/internal/errors"
)

func sampleRecord(customerID int) *BillRecord {
	return &BillRecord{
		CustomerID:    customerID,
		CustomerName:  "Meera",
		UnitsConsumed: 151,
		Amount:        101.2,
		Surcharge:     20.24,
		TotalAmount:   121.44,
	}
}

func intPtr(i int) *int { return &i }

func TestNewBillRecord(t *testing.T) {
	bill := &types.Bill{
		Customer:      types.NewCustomer(7, "Meera"),
		UnitsConsumed: 151,
		Amount:        decimal.RequireFromString("101.20"),
		Surcharge:     decimal.RequireFromString("20.24"),
		Total:         decimal.RequireFromString("121.44"),
	}

	r := NewBillRecord(bill)
	assert.Empty(t, r.ID)
	assert.Equal(t, 7, r.CustomerID)
	assert.Equal(t, "Meera", r.CustomerName)
	assert.Equal(t, 151, r.UnitsConsumed)
	assert.InDelta(t, 101.2, r.Amount, 1e-9)
	assert.InDelta(t, 20.24, r.Surcharge, 1e-9)
	assert.InDelta(t, 121.44, r.TotalAmount, 1e-9)
}

// storeContract runs the behaviour every backend must share
func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	first := sampleRecord(1)
	id1, err := store.Save(ctx, first)
	require.NoError(t, err)
	require.NotEmpty(t, id1)
	assert.Empty(t, first.ID, "Save must not mutate the caller's record")

	id2, err := store.Save(ctx, sampleRecord(2))
	require.NoError(t, err)
	_, err = store.Save(ctx, sampleRecord(1))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	got, err := store.Get(ctx, id1)
	require.NoError(t, err)
	want := sampleRecord(1)
	want.ID = id1
	assert.Equal(t, want, got)

	_, err = store.Get(ctx, "does-not-exist")
	assert.True(t, errors.IsType(err, errors.TypeNotFound))

	all, err := store.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, id1, all[0].ID, "insertion order")

	mine, err := store.List(ctx, &ListFilter{CustomerID: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	limited, err := store.List(ctx, &ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	storeContract(t, store)
	require.NoError(t, store.Close(context.Background()))
	assert.Equal(t, 1, store.Closed())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bills.jsonl")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	storeContract(t, store)
	require.NoError(t, store.Close(context.Background()))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	all, err := reopened.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3, "records survive reopening")
}

func TestFileStoreMissingFileListsNothing(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "bills.jsonl"))
	require.NoError(t, err)

	all, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFileStoreCorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bills.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0644))

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.List(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeWrite))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "postgres"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestOpenMemoryAndFile(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, config.StorageConfig{Backend: "file", FilePath: filepath.Join(t.TempDir(), "b.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
}

// failingStore rejects every write
type failingStore struct {
	MemoryStore
}

func (f *failingStore) Save(ctx context.Context, record *BillRecord) (string, error) {
	return "", errors.Write("insert bill", stderrors.New("not primary"))
}

func TestSinkWriteReleasesStore(t *testing.T) {
	mem := NewMemoryStore()
	sink := NewSink(func(ctx context.Context) (Store, error) { return mem, nil }, "memory", time.Second)

	id, err := sink.Write(context.Background(), sampleRecord(9))
	require.NoError(t, err)

	got, err := mem.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 9, got.CustomerID)
	assert.Equal(t, 1, mem.Closed())

	records, err := sink.Read(context.Background(), &ListFilter{CustomerID: intPtr(9)})
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, mem.Closed())
}

func TestSinkWriteFailureStillReleases(t *testing.T) {
	bad := &failingStore{}
	sink := NewSink(func(ctx context.Context) (Store, error) { return bad, nil }, "memory", time.Second)

	_, err := sink.Write(context.Background(), sampleRecord(1))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeWrite))
	assert.Equal(t, 1, bad.Closed())
}

func TestSinkOpenFailure(t *testing.T) {
	sink := NewSink(func(ctx context.Context) (Store, error) {
		return nil, errors.Connection("dial", stderrors.New("connection refused"))
	}, "MongoDB", time.Second)

	_, err := sink.Write(context.Background(), sampleRecord(1))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConnection))
	assert.Equal(t, "MongoDB", sink.Name())
}

func TestNewConfigSinkName(t *testing.T) {
	assert.Equal(t, "MongoDB", NewConfigSink(config.StorageConfig{Backend: "mongo"}).Name())
	assert.Equal(t, "file", NewConfigSink(config.StorageConfig{Backend: "file"}).Name())
}

type slowStore struct {
	MemoryStore
	closeCtxErr error
}

func (s *slowStore) Save(ctx context.Context, record *BillRecord) (string, error) {
	<-ctx.Done()
	return "", errors.Write("insert bill", ctx.Err())
}

func (s *slowStore) Close(ctx context.Context) error {
	s.closeCtxErr = ctx.Err()
	return s.MemoryStore.Close(ctx)
}

func TestSinkWriteTimeoutStillReleases(t *testing.T) {
	slow := &slowStore{}
	sink := NewSink(func(ctx context.Context) (Store, error) { return slow, nil }, "MongoDB", 20*time.Millisecond)

	start := time.Now()
	_, err := sink.Write(context.Background(), sampleRecord(1))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeWrite))
	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Equal(t, 1, slow.Closed())
	assert.NoError(t, slow.closeCtxErr)
}
