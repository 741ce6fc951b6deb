package repository

import (
	"testing"

	"bellyfied/internal/domain/model"
	"bellyfied/internal/infra/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{FirstName: "Ada", LastName: "Obi", Email: email, IsVerified: true, IsActive: true}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedRestaurant(t *testing.T, gdb *gorm.DB, ownerID int64, email string, active bool) model.Restaurant {
	t.Helper()
	r := model.Restaurant{UserID: ownerID, Name: "Mama Put " + email, Email: email, IsActive: active}
	require.NoError(t, gdb.Omit("Location").Create(&r).Error)
	return r
}

func seedItem(t *testing.T, gdb *gorm.DB, restaurantID int64, name string, price int64) model.MenuItem {
	t.Helper()
	c := model.Category{Name: "Rice"}
	require.NoError(t, gdb.Where("name = ?", c.Name).FirstOrCreate(&c).Error)
	item := model.MenuItem{RestaurantID: restaurantID, CategoryID: c.ID, Name: name, Price: price}
	require.NoError(t, gdb.Create(&item).Error)
	return item
}

func ptr[T any](v T) *T { return &v }
