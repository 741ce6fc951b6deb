package repository

import (
	"context"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// まとめて作成（IDは引数のスライスに入る）
func (r *OrderGormRepository) CreateBulk(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return mapError(r.db.WithContext(ctx).Create(&orders).Error)
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error; err != nil {
		return model.Order{}, mapError(err)
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID), page, limit)
}

func (r *OrderGormRepository) ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ? AND cancel = ?", restaurantID, false)
	return r.list(ctx, q, page, limit)
}

func (r *OrderGormRepository) list(ctx context.Context, q *gorm.DB, page int, limit int) ([]model.Order, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Order{}, 0, err
	}

	var items []model.Order
	offset := (page - 1) * limit
	if err := q.Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Order{}, 0, err
	}
	return items, total, nil
}

// キャンセル済みは更新しない
func (r *OrderGormRepository) UpdateFulfilment(ctx context.Context, orderID int64, f repo.OrderFulfilment) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND cancel = ?", orderID, false).
		Updates(map[string]interface{}{
			"status":    f.Status,
			"delivered": f.Delivered,
			"paid_for":  f.PaidFor,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付きUPDATE。同時に2回キャンセルされても1回しか通らない
func (r *OrderGormRepository) MarkCanceled(ctx context.Context, orderID int64, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Where("cancel = ? AND paid_for = ? AND delivered = ? AND status < ?", false, false, false, model.OrderCancelThreshold).
		Update("cancel", true)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
