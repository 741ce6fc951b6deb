package repository

import (
	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type addressGormRepository struct {
	db *gorm.DB
}

// DI
func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// ユーザーの住所を返す
func (r *addressGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Address, error) {
	var a model.Address
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&a).Error; err != nil {
		return model.Address{}, mapError(err)
	}
	return a, nil
}

// user_idが同じなら上書き
func (r *addressGormRepository) Upsert(ctx context.Context, address model.Address) (model.Address, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"street", "city", "state", "latitude", "longitude", "updated_at"}),
		}).
		Create(&address).Error
	if err != nil {
		return model.Address{}, mapError(err)
	}

	//ON CONFLICTのときIDが返らないドライバがあるので取り直す
	return r.FindByUserID(ctx, address.UserID)
}
