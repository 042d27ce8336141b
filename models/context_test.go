package models

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veo1/go-product-catalog/sqlerr"
)

func TestContextSaveWithNothingPending(t *testing.T) {
	uow := NewContext(newTestDB(t))

	assert.Equal(t, 0, uow.Pending())
	assert.NoError(t, uow.Save(context.Background()))
}

func TestContextAddAssignsIdentities(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	uow := NewContext(db)

	first := &Category{Name: "First"}
	second := &Category{Name: "Second"}
	uow.Add(first)
	uow.Add(second)
	assert.Equal(t, 2, uow.Pending())

	// nothing reaches the store before Save
	var n int64
	require.NoError(t, uow.Categories(ctx).Count(&n).Error)
	assert.Zero(t, n)

	require.NoError(t, uow.Save(ctx))
	assert.Equal(t, 0, uow.Pending())
	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	var stored []Category
	require.NoError(t, uow.Categories(ctx).Where("name = ?", "Second").Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, second.ID, stored[0].ID)
}

func TestContextSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	uow := NewContext(newTestDB(t))

	existing := &Category{Name: "Existing"}
	uow.Add(existing)
	require.NoError(t, uow.Save(ctx))

	uow.Add(&Category{Name: "Rolled back"})
	uow.Add(&Category{ID: existing.ID, Name: "Duplicate identity"})

	err := uow.Save(ctx)
	require.Error(t, err)

	var storeErr *sqlerr.Error
	assert.True(t, errors.As(err, &storeErr), "expected a store failure, got %T", err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 0, uow.Pending(), "queue is emptied after a failed save")

	var n int64
	require.NoError(t, uow.Categories(ctx).Count(&n).Error)
	assert.Equal(t, int64(1), n, "insert queued before the failure must be rolled back")
}

func TestContextSetFieldAndRemove(t *testing.T) {
	ctx := context.Background()
	uow := NewContext(newTestDB(t))

	category := &Category{Name: "Home"}
	other := &Category{Name: "Away"}
	uow.Add(category)
	uow.Add(other)
	require.NoError(t, uow.Save(ctx))

	product := &Product{Name: "Lamp", Price: decimal.NewFromInt(30), CategoryID: category.ID}
	uow.Add(product)
	require.NoError(t, uow.Save(ctx))

	uow.SetField(&Product{ID: product.ID}, "category_id", other.ID)
	require.NoError(t, uow.Save(ctx))

	var moved Product
	require.NoError(t, uow.Products(ctx).Preload("Category").First(&moved, product.ID).Error)
	assert.Equal(t, other.ID, moved.CategoryID)
	assert.Equal(t, "Away", moved.Category.Name)

	uow.Remove(&[]Product{moved})
	uow.Remove(category)
	require.NoError(t, uow.Save(ctx))

	var products, categories int64
	require.NoError(t, uow.Products(ctx).Count(&products).Error)
	require.NoError(t, uow.Categories(ctx).Count(&categories).Error)
	assert.Zero(t, products)
	assert.Equal(t, int64(1), categories)
}

func TestContextRemoveEmptySliceQueuesNothing(t *testing.T) {
	uow := NewContext(newTestDB(t))

	uow.Remove(&[]Product{})
	assert.Equal(t, 0, uow.Pending())
}

func TestContextDoesNotTrackInMemoryChanges(t *testing.T) {
	ctx := context.Background()
	uow := NewContext(newTestDB(t))

	category := &Category{Name: "Original"}
	uow.Add(category)
	require.NoError(t, uow.Save(ctx))

	category.Name = "Changed only in memory"
	assert.Equal(t, 0, uow.Pending())
	require.NoError(t, uow.Save(ctx))

	var stored Category
	require.NoError(t, uow.Categories(ctx).First(&stored, category.ID).Error)
	assert.Equal(t, "Original", stored.Name)
}
