package repository

import (
	"context"
	"strings"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"gorm.io/gorm"
)

type MenuGormRepository struct {
	db *gorm.DB
}

// DI
func NewMenuGormRepository(db *gorm.DB) *MenuGormRepository {
	return &MenuGormRepository{db: db}
}

// IDでアイテムを取得（削除済みも返す。判定はusecase）
func (r *MenuGormRepository) FindItemByID(ctx context.Context, id int64) (model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return model.MenuItem{}, mapError(err)
	}
	return item, nil
}

// 公開中レストランの未削除アイテムだけを、検索/絞り込み/ページング付きで返す。
func (r *MenuGormRepository) ListItems(ctx context.Context, q repo.MenuListQuery) ([]model.MenuItem, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)

	tx := r.db.WithContext(ctx).
		Model(&model.MenuItem{}).
		Joins("JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
		Where("menu_items.deleted = ?", false).
		Where("restaurants.is_active = ? AND restaurants.deleted = ? AND restaurants.block = ?", true, false, false)

	if q.RestaurantID != nil {
		tx = tx.Where("menu_items.restaurant_id = ?", *q.RestaurantID)
	}
	if q.CategoryID != nil {
		tx = tx.Where("menu_items.category_id = ?", *q.CategoryID)
	}

	// q nameとdescriptionを対象
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(menu_items.name) LIKE ? OR LOWER(menu_items.description) LIKE ?)", like, like)
	}

	//total（件数）
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.MenuItem{}, 0, err
	}

	var items []model.MenuItem
	if err := tx.Select("menu_items.*").
		Order("menu_items.id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error; err != nil {
		return []model.MenuItem{}, 0, err
	}
	return items, total, nil
}

// アイテムの作成
func (r *MenuGormRepository) CreateItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return model.MenuItem{}, mapError(err)
	}
	return item, nil
}

// アイテムの更新
func (r *MenuGormRepository) UpdateItem(ctx context.Context, item model.MenuItem) error {
	res := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("id = ? AND deleted = ?", item.ID, false).
		Updates(map[string]interface{}{
			"name":        item.Name,
			"description": item.Description,
			"price":       item.Price,
			"category_id": item.CategoryID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 論理削除。注文から参照されるので行は残す
func (r *MenuGormRepository) SoftDeleteItem(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MenuGormRepository) FindCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return model.Category{}, mapError(err)
	}
	return c, nil
}

func (r *MenuGormRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return []model.Category{}, err
	}
	return list, nil
}

func (r *MenuGormRepository) EnsureCategory(ctx context.Context, name string) (model.Category, error) {
	c := model.Category{Name: name}
	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&c).Error; err != nil {
		return model.Category{}, mapError(err)
	}
	return c, nil
}
