package repository

import (
	"context"
	"errors"
	"testing"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCart_AddSameItemTwiceKeepsOneLine(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "a@x.com")
	rs := seedRestaurant(t, gdb, u.ID, "r@x.com", true)
	item := seedItem(t, gdb, rs.ID, "Jollof", 1500)

	carts := NewCartGormRepository(gdb)
	require.NoError(t, carts.AddQuantity(ctx, u.ID, item.ID, 1))
	require.NoError(t, carts.AddQuantity(ctx, u.ID, item.ID, 1))

	lines, err := carts.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
}

func TestCart_AddRejectsNonPositive(t *testing.T) {
	gdb := newTestDB(t)
	err := NewCartGormRepository(gdb).AddQuantity(context.Background(), 1, 1, 0)
	require.Error(t, err)
}

func TestCart_UpdateDeleteClear(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "a@x.com")
	rs := seedRestaurant(t, gdb, u.ID, "r@x.com", true)
	a := seedItem(t, gdb, rs.ID, "Jollof", 1500)
	b := seedItem(t, gdb, rs.ID, "Moi moi", 500)

	carts := NewCartGormRepository(gdb)
	require.NoError(t, carts.AddQuantity(ctx, u.ID, a.ID, 1))
	require.NoError(t, carts.AddQuantity(ctx, u.ID, b.ID, 3))

	require.NoError(t, carts.UpdateQuantity(ctx, u.ID, a.ID, 5))
	line, err := carts.FindLine(ctx, u.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), line.Quantity)

	require.NoError(t, carts.DeleteLine(ctx, u.ID, b.ID))
	assert.ErrorIs(t, carts.DeleteLine(ctx, u.ID, b.ID), repo.ErrNotFound)
	assert.ErrorIs(t, carts.UpdateQuantity(ctx, u.ID, b.ID, 2), repo.ErrNotFound)

	n, err := carts.ClearByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = carts.FindLine(ctx, u.ID, a.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTxManager_RollsBackOrdersWhenCartClearFails(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "a@x.com")
	rs := seedRestaurant(t, gdb, u.ID, "r@x.com", true)
	item := seedItem(t, gdb, rs.ID, "Jollof", 1500)
	require.NoError(t, NewCartGormRepository(gdb).AddQuantity(ctx, u.ID, item.ID, 2))

	tm := NewTxManagerGorm(gdb)
	boom := errors.New("boom")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().CreateBulk(ctx, []model.Order{{
			Reference: "ref", UserID: u.ID, MenuItemID: item.ID, RestaurantID: rs.ID,
			ItemName: item.Name, Quantity: 2, Price: 3000, Status: model.OrderStatusPlaced,
		}}); err != nil {
			return err
		}
		if _, err := r.Carts().ClearByUserID(ctx, u.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var orders int64
	require.NoError(t, gdb.Model(&model.Order{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)

	lines, err := NewCartGormRepository(gdb).ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCart_DeleteLinesOnlyTouchesGivenIDs(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb, "a@x.com")
	other := seedUser(t, gdb, "b@x.com")
	rs := seedRestaurant(t, gdb, u.ID, "r@x.com", true)
	a := seedItem(t, gdb, rs.ID, "Jollof", 1500)
	b := seedItem(t, gdb, rs.ID, "Suya", 800)

	carts := NewCartGormRepository(gdb)
	require.NoError(t, carts.AddQuantity(ctx, u.ID, a.ID, 1))
	require.NoError(t, carts.AddQuantity(ctx, other.ID, a.ID, 1))

	snapshot, err := carts.LockByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	//スナップショット後に入った行
	require.NoError(t, carts.AddQuantity(ctx, u.ID, b.ID, 1))

	otherLines, err := carts.ListByUserID(ctx, other.ID)
	require.NoError(t, err)
	//他人の行IDを混ぜても消えない
	n, err := carts.DeleteLines(ctx, u.ID, []int64{snapshot[0].ID, otherLines[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := carts.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, b.ID, left[0].MenuItemID)

	otherLeft, err := carts.ListByUserID(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, otherLeft, 1)

	n, err = carts.DeleteLines(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCart_LockByUserIDSelectsForUpdateOnPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "cart_lines" WHERE user_id = \$1 ORDER BY id asc FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "menu_item_id", "quantity"}).AddRow(1, 7, 100, 2))

	lines, err := NewCartGormRepository(gdb).LockByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2), lines[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}
