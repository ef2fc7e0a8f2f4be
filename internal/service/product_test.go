package service

import (
	"context"
	"errors"
	"testing"

	"cnapi/internal/core"
	"cnapi/internal/database/memory"
	"cnapi/internal/database/mongodb/model"
	"cnapi/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProductFixture(t *testing.T) (*ProductService, *memory.ProductStore) {
	t.Helper()
	trace, _, err := telemetry.NewTrace(nil)
	require.NoError(t, err)

	store := memory.NewProductStore()
	store.Put(model.CNProduct{CNNumber: "1001", ProductName: "Apple, raw", Category: "Fruits", Manufacturer: "Generic"},
		model.CNServing{CNNumber: "1001", SequenceNum: 2, Amount: 1, MeasureDescription: "cup", UnitAmount: 125},
		model.CNServing{CNNumber: "1001", SequenceNum: 1, Amount: 1, MeasureDescription: "medium", UnitAmount: 182},
	)
	store.Put(model.CNProduct{CNNumber: "1002", ProductName: "Oat bar", Category: "Snacks", Manufacturer: "Acme Foods"})
	return NewProductService(trace, store), store
}

func TestProductList(t *testing.T) {
	svc, _ := newProductFixture(t)

	products, total, err := svc.List(context.Background(), core.ProductQuery{Manufacturer: "acme", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.Equal(t, "1002", products[0].CNNumber)
}

func TestProductServings(t *testing.T) {
	svc, _ := newProductFixture(t)
	ctx := context.Background()

	product, servings, err := svc.Servings(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, "Apple, raw", product.ProductName)
	require.Len(t, servings, 2)
	assert.Equal(t, 1, servings[0].SequenceNum)

	_, _, err = svc.Servings(ctx, "9999")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductStorageFailure(t *testing.T) {
	svc, store := newProductFixture(t)
	store.FailWith(errors.New("mongo down"))

	_, err := svc.Get(context.Background(), "1001")
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
