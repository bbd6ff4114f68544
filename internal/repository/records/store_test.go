package records

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/repository/storage"
)

var testKeys = Keys{Sales: "sales", Purchases: "purchases"}

type flakyKV struct {
	storage.KV
	failGet bool
	failSet bool
}

func (f *flakyKV) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, storage.ErrUnavailable
	}
	return f.KV.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key, value string) error {
	if f.failSet {
		return storage.ErrUnavailable
	}
	return f.KV.Set(ctx, key, value)
}

func newTestStore(kv storage.KV) *Store {
	var n atomic.Int64
	return NewStore(kv, testKeys, nil,
		WithNow(func() time.Time { return time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC) }),
		WithIDGenerator(func() string { return fmt.Sprintf("id-%d", n.Add(1)) }),
	)
}

func TestInsertSaleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(storage.NewMemory())

	in := models.Sale{
		CustomerName: "A", ProductName: "Beef", Weight: 2,
		CostPrice: 100, SellingPrice: 150, Profit: 50, SaleDate: "2024-01-01",
	}
	saved, err := s.InsertSale(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "id-1", saved.ID)
	assert.Equal(t, time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC), saved.CreatedAt)

	all, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, saved, all[0])
}

func TestInsertPrependsNewest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(storage.NewMemory())

	_, err := s.InsertPurchase(ctx, models.Purchase{SupplierName: "Farm", ProductName: "Pork", ReceiveDate: "2024-01-01"})
	require.NoError(t, err)
	_, err = s.InsertPurchase(ctx, models.Purchase{SupplierName: "Farm", ProductName: "Chicken", ReceiveDate: "2024-01-01"})
	require.NoError(t, err)

	all, err := s.ListPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Chicken", all[0].ProductName)
	assert.Equal(t, "Pork", all[1].ProductName)
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(storage.NewMemory())

	_, err := s.InsertSale(ctx, models.Sale{ProductName: "Beef", SaleDate: "2024-01-01"})
	require.NoError(t, err)

	purchases, err := s.ListPurchases(ctx)
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(storage.NewMemory())

	a, err := s.InsertSale(ctx, models.Sale{ProductName: "Beef", SaleDate: "2024-01-01"})
	require.NoError(t, err)
	b, err := s.InsertSale(ctx, models.Sale{ProductName: "Pork", SaleDate: "2024-01-01"})
	require.NoError(t, err)

	removed, err := s.DeleteSale(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteSale(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	all, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestCorruptBlobReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, testKeys.Sales, "{not json"))
	require.NoError(t, kv.Set(ctx, testKeys.Purchases, "null"))
	s := newTestStore(kv)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.NotNil(t, sales)

	purchases, err := s.ListPurchases(ctx)
	require.NoError(t, err)
	assert.Empty(t, purchases)

	// the next write replaces the corrupt blob
	_, err = s.InsertSale(ctx, models.Sale{ProductName: "Beef", SaleDate: "2024-01-01"})
	require.NoError(t, err)
	sales, err = s.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestUnavailableStorage(t *testing.T) {
	ctx := context.Background()
	kv := &flakyKV{KV: storage.NewMemory(), failGet: true}
	s := newTestStore(kv)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)

	_, err = s.InsertSale(ctx, models.Sale{ProductName: "Beef"})
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	kv.failGet = false
	kv.failSet = true
	_, err = s.InsertSale(ctx, models.Sale{ProductName: "Beef"})
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	kv.failSet = false
	all, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "failed writes must not persist anything")
}

func TestListPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := newTestStore(storage.NewMemory())
	_, err := s.ListSales(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

type cancelledKV struct{ storage.KV }

func (cancelledKV) Get(context.Context, string) (string, bool, error) {
	return "", false, fmt.Errorf("%w: get sales: %w", storage.ErrUnavailable, context.Canceled)
}

func TestBackendCancellationIsNotServedAsEmpty(t *testing.T) {
	s := newTestStore(cancelledKV{KV: storage.NewMemory()})
	_, err := s.ListSales(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
}

func TestConcurrentInsertsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(storage.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.InsertSale(ctx, models.Sale{ProductName: "Beef", SaleDate: "2024-01-01"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newTestStore(kv)

	require.NoError(t, s.Seed(ctx, rand.New(rand.NewPCG(1, 2))))
	first, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	require.NoError(t, s.Seed(ctx, rand.New(rand.NewPCG(3, 4))))
	second, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSeedSkipsExistingCollection(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, testKeys.Sales, "[]"))
	s := newTestStore(kv)

	require.NoError(t, s.Seed(ctx, rand.New(rand.NewPCG(1, 2))))

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)

	purchases, err := s.ListPurchases(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, purchases)
}

func TestDemoDataShape(t *testing.T) {
	today := time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)
	var n int
	sales, purchases := DemoData(today, rand.New(rand.NewPCG(7, 7)), func() string { n++; return fmt.Sprint(n) })

	perDay := map[string]int{}
	for _, s := range sales {
		perDay[s.SaleDate]++
		assert.Equal(t, s.SellingPrice-s.CostPrice, s.Profit)
		assert.GreaterOrEqual(t, s.Weight, 1.0)
	}
	assert.Len(t, perDay, 10)
	for date, count := range perDay {
		assert.GreaterOrEqual(t, count, 3, date)
		assert.LessOrEqual(t, count, 8, date)
		assert.GreaterOrEqual(t, date, "2024-03-01")
		assert.LessOrEqual(t, date, "2024-03-10")
	}

	purchaseDays := map[string]int{}
	for _, p := range purchases {
		purchaseDays[p.ReceiveDate]++
	}
	assert.Len(t, purchaseDays, 10)
	for _, count := range purchaseDays {
		assert.GreaterOrEqual(t, count, 1)
		assert.LessOrEqual(t, count, 4)
	}
}
