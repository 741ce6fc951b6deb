package repository

import (
	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// ユーザーのカート行を一覧取得
func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

// SELECT ... FOR UPDATE で読む。txの中で使う
func (r *CartGormRepository) LockByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

// 同一アイテムは数量加算。(user_id, menu_item_id)のunique制約で1行に保つ
func (r *CartGormRepository) AddQuantity(ctx context.Context, userID int64, menuItemID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	line := model.CartLine{
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   addQty,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "menu_item_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_lines.quantity + ?", addQty),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&line).Error
	return mapError(err)
}

// 1行取得
func (r *CartGormRepository) FindLine(ctx context.Context, userID int64, menuItemID int64) (model.CartLine, error) {
	var line model.CartLine
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		First(&line).Error; err != nil {
		return model.CartLine{}, mapError(err)
	}
	return line, nil
}

// 行の数量を上書き
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, userID int64, menuItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartLine{}).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 行を削除
func (r *CartGormRepository) DeleteLine(ctx context.Context, userID int64, menuItemID int64) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 読んだ行だけ消す。後から入った行は残る
func (r *CartGormRepository) DeleteLines(ctx context.Context, userID int64, lineIDs []int64) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, lineIDs).
		Delete(&model.CartLine{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ユーザーのカートを空にする
func (r *CartGormRepository) ClearByUserID(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
