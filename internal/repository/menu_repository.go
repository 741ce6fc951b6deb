package repository

import (
	"bellyfied/internal/domain/model"
	"context"
)

// 一覧検索
type MenuListQuery struct {
	Page         int
	Limit        int
	Q            string
	RestaurantID *int64
	CategoryID   *int64
}

// メニューとカテゴリの永続化
type MenuRepository interface {
	//削除済みを含めて取得
	FindItemByID(ctx context.Context, id int64) (model.MenuItem, error)
	//公開中レストランの未削除アイテムだけ
	ListItems(ctx context.Context, q MenuListQuery) ([]model.MenuItem, int64, error)

	CreateItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	UpdateItem(ctx context.Context, item model.MenuItem) error
	SoftDeleteItem(ctx context.Context, id int64) error

	FindCategoryByID(ctx context.Context, id int64) (model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	//名前で無ければ作る（起動時のseed用）
	EnsureCategory(ctx context.Context, name string) (model.Category, error)
}
