package repository

import (
	"context"
	"testing"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, gdb *gorm.DB, o model.Order) model.Order {
	t.Helper()
	if o.Reference == "" {
		o.Reference = "ref"
	}
	if o.Status == 0 {
		o.Status = model.OrderStatusPlaced
	}
	require.NoError(t, NewOrderGormRepository(gdb).CreateBulk(context.Background(), []model.Order{o}))
	var saved model.Order
	require.NoError(t, gdb.Order("id desc").First(&saved).Error)
	return saved
}

func TestOrder_CreateBulkAssignsIDs(t *testing.T) {
	gdb := newTestDB(t)
	orders := []model.Order{
		{Reference: "r1", UserID: 1, MenuItemID: 1, RestaurantID: 1, ItemName: "a", Quantity: 1, Price: 100, Status: model.OrderStatusPlaced},
		{Reference: "r1", UserID: 1, MenuItemID: 2, RestaurantID: 1, ItemName: "b", Quantity: 2, Price: 400, Status: model.OrderStatusPlaced},
	}
	require.NoError(t, NewOrderGormRepository(gdb).CreateBulk(context.Background(), orders))

	list, total, err := NewOrderGormRepository(gdb).ListByUserID(context.Background(), 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)
}

func TestOrder_MarkCanceledOnlyOnce(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	o := seedOrder(t, gdb, model.Order{UserID: 7, MenuItemID: 1, RestaurantID: 1, ItemName: "a", Quantity: 1, Price: 100})
	orders := NewOrderGormRepository(gdb)

	//他人はキャンセルできない
	ok, err := orders.MarkCanceled(ctx, o.ID, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = orders.MarkCanceled(ctx, o.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = orders.MarkCanceled(ctx, o.ID, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrder_MarkCanceledRespectsState(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	orders := NewOrderGormRepository(gdb)

	cases := []model.Order{
		{Status: model.OrderStatusDispatched},
		{Status: model.OrderStatusPreparing, PaidFor: true},
		{Status: model.OrderStatusPreparing, Delivered: true},
	}
	for _, c := range cases {
		c.UserID, c.MenuItemID, c.RestaurantID, c.ItemName, c.Quantity, c.Price = 7, 1, 1, "a", 1, 100
		o := seedOrder(t, gdb, c)
		ok, err := orders.MarkCanceled(ctx, o.ID, 7)
		require.NoError(t, err)
		assert.False(t, ok, "status=%d paid=%v delivered=%v", c.Status, c.PaidFor, c.Delivered)
	}
}

func TestOrder_RestaurantListExcludesCanceled(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	a := seedOrder(t, gdb, model.Order{UserID: 1, MenuItemID: 1, RestaurantID: 5, ItemName: "a", Quantity: 1, Price: 100})
	seedOrder(t, gdb, model.Order{UserID: 1, MenuItemID: 1, RestaurantID: 5, ItemName: "b", Quantity: 1, Price: 100, Cancel: true})

	list, total, err := NewOrderGormRepository(gdb).ListByRestaurantID(ctx, 5, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestOrder_UpdateFulfilmentSkipsCanceled(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	orders := NewOrderGormRepository(gdb)
	live := seedOrder(t, gdb, model.Order{UserID: 1, MenuItemID: 1, RestaurantID: 5, ItemName: "a", Quantity: 1, Price: 100})
	canceled := seedOrder(t, gdb, model.Order{UserID: 1, MenuItemID: 1, RestaurantID: 5, ItemName: "b", Quantity: 1, Price: 100, Cancel: true})

	f := repo.OrderFulfilment{Status: model.OrderStatusPreparing, PaidFor: true}
	require.NoError(t, orders.UpdateFulfilment(ctx, live.ID, f))
	assert.ErrorIs(t, orders.UpdateFulfilment(ctx, canceled.ID, f), repo.ErrNotFound)

	got, err := orders.FindByID(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPreparing, got.Status)
	assert.True(t, got.PaidFor)

	_, err = orders.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
