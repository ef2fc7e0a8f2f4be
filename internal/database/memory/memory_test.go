package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cnapi/internal/core"
	"cnapi/internal/database/mongodb/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAPIKeyStoreUniqueDigest(t *testing.T) {
	store := NewAPIKeyStore()
	ctx := context.Background()

	_, err := store.Create(ctx, &model.APIKey{KeyDigest: "same", IsActive: true})
	require.NoError(t, err)
	_, err = store.Create(ctx, &model.APIKey{KeyDigest: "same", IsActive: true})
	assert.ErrorIs(t, err, core.ErrDuplicateRecord)
}

func TestAPIKeyStoreReturnsCopies(t *testing.T) {
	store := NewAPIKeyStore()
	ctx := context.Background()
	created, err := store.Create(ctx, &model.APIKey{KeyDigest: "d", IsActive: true})
	require.NoError(t, err)

	fetched, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	fetched.IsActive = false

	again, err := store.GetByDigest(ctx, "d")
	require.NoError(t, err)
	assert.True(t, again.IsActive)
}

func TestFaultInjection(t *testing.T) {
	store := NewUsageSummaryStore()
	boom := errors.New("down")
	store.FailWith(boom)

	_, err := store.Get(context.Background(), primitive.NewObjectID(), "2024-01")
	assert.ErrorIs(t, err, boom)

	store.FailWith(nil)
	_, err = store.Get(context.Background(), primitive.NewObjectID(), "2024-01")
	assert.ErrorIs(t, err, core.ErrRecordNotFound)
}

func TestUsageSummaryIncrementConcurrent(t *testing.T) {
	store := NewUsageSummaryStore()
	keyID := primitive.NewObjectID()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(context.Background(), keyID, "2024-05", now)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	summary, err := store.Get(context.Background(), keyID, "2024-05")
	require.NoError(t, err)
	assert.Equal(t, int64(50), summary.TotalCalls)
}

func TestUsageSummaryFallbackPrimitives(t *testing.T) {
	store := NewUsageSummaryStore()
	store.DisableAtomic()
	keyID := primitive.NewObjectID()
	ctx := context.Background()
	now := time.Now()

	_, err := store.Increment(ctx, keyID, "2024-05", now)
	assert.ErrorIs(t, err, core.ErrAtomicUnsupported)

	require.NoError(t, store.InsertFirst(ctx, keyID, "2024-05", now))
	assert.ErrorIs(t, store.InsertFirst(ctx, keyID, "2024-05", now), core.ErrDuplicateRecord)

	swapped, err := store.CompareAndSet(ctx, keyID, "2024-05", 0, 1, now)
	require.NoError(t, err)
	assert.False(t, swapped)

	swapped, err = store.CompareAndSet(ctx, keyID, "2024-05", 1, 2, now)
	require.NoError(t, err)
	assert.True(t, swapped)

	store.InjectConflicts(1)
	swapped, err = store.CompareAndSet(ctx, keyID, "2024-05", 2, 3, now)
	require.NoError(t, err)
	assert.False(t, swapped)
}

func TestUsageSummaryListRecent(t *testing.T) {
	store := NewUsageSummaryStore()
	keyID := primitive.NewObjectID()
	for _, month := range []string{"2023-12", "2024-02", "2024-01", "2024-03"} {
		store.Seed(keyID, month, 1)
	}
	store.Seed(primitive.NewObjectID(), "2024-04", 9)

	recent, err := store.ListRecent(context.Background(), keyID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "2024-03", recent[0].BillingMonth)
	assert.Equal(t, "2024-02", recent[1].BillingMonth)
	assert.Equal(t, "2024-01", recent[2].BillingMonth)
}

func TestProductStoreList(t *testing.T) {
	store := NewProductStore()
	store.Put(model.CNProduct{CNNumber: "1", ProductName: "Banana Bread", Category: "Bakery", Manufacturer: "Acme Foods"})
	store.Put(model.CNProduct{CNNumber: "2", ProductName: "Apple Slices", Category: "Fruit", Manufacturer: "Orchard Co"})
	store.Put(model.CNProduct{CNNumber: "3", ProductName: "Apple Pie", Category: "Bakery", Manufacturer: "ACME foods"})

	products, total, err := store.List(context.Background(), core.ProductQuery{Manufacturer: "acme", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, products, 1)
	assert.Equal(t, "Apple Pie", products[0].ProductName)

	products, total, err = store.List(context.Background(), core.ProductQuery{Query: "apple", Category: "Fruit"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "2", products[0].CNNumber)

	products, _, err = store.List(context.Background(), core.ProductQuery{Offset: 10, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, products)
}
