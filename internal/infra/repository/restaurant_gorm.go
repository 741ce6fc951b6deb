package repository

import (
	"context"
	"strings"
	"time"

	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type restaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) repo.RestaurantRepository {
	return &restaurantGormRepository{db: db}
}

func (r *restaurantGormRepository) Create(ctx context.Context, rs *model.Restaurant) error {
	return mapError(r.db.WithContext(ctx).Omit("Location").Create(rs).Error)
}

func (r *restaurantGormRepository) FindByID(ctx context.Context, id int64) (*model.Restaurant, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *restaurantGormRepository) FindByVerificationHash(ctx context.Context, hash string) (*model.Restaurant, error) {
	var list []model.Restaurant
	if err := r.db.WithContext(ctx).
		Preload("Location").
		Where("hashed_verification_code = ?", hash).
		Limit(2).
		Find(&list).Error; err != nil {
		return nil, mapError(err)
	}
	switch len(list) {
	case 0:
		return nil, repo.ErrNotFound
	case 1:
		return &list[0], nil
	default:
		return nil, repo.ErrMultipleMatches
	}
}

func (r *restaurantGormRepository) findOne(ctx context.Context, cond string, arg interface{}) (*model.Restaurant, error) {
	var rs model.Restaurant
	if err := r.db.WithContext(ctx).Preload("Location").Where(cond, arg).First(&rs).Error; err != nil {
		return nil, mapError(err)
	}
	return &rs, nil
}

func (r *restaurantGormRepository) SetVerificationHash(ctx context.Context, id int64, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", id).
		Update("hashed_verification_code", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 指定した列だけ更新。Locationは別で更新する
func (r *restaurantGormRepository) Update(ctx context.Context, rs *model.Restaurant, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	rs.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("id = ?", rs.ID).
		Omit("Location").
		Select(append(columns, "updated_at")).
		Updates(rs)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *restaurantGormRepository) UpsertLocation(ctx context.Context, loc model.Location) (model.Location, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "restaurant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"street", "city", "state", "latitude", "longitude"}),
		}).
		Create(&loc).Error
	if err != nil {
		return model.Location{}, mapError(err)
	}

	var saved model.Location
	if err := r.db.WithContext(ctx).Where("restaurant_id = ?", loc.RestaurantID).First(&saved).Error; err != nil {
		return model.Location{}, mapError(err)
	}
	return saved, nil
}

func (r *restaurantGormRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	return r.taken(ctx, "email = ?", email, exceptID)
}

func (r *restaurantGormRepository) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	return r.taken(ctx, "phone_number = ?", phone, exceptID)
}

func (r *restaurantGormRepository) taken(ctx context.Context, cond string, v string, exceptID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where(cond, v).
		Where("id <> ?", exceptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// 公開中のレストラン
func (r *restaurantGormRepository) available(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Restaurant{}).
		Where("restaurants.is_active = ? AND restaurants.deleted = ? AND restaurants.block = ?", true, false, false)
}

func (r *restaurantGormRepository) ListAvailable(ctx context.Context, q repo.RestaurantListQuery) ([]model.Restaurant, int64, error) {
	page, limit := normalizePage(q.Page, q.Limit)
	tx := r.available(ctx)

	// q 名前と説明を対象
	if s := strings.TrimSpace(q.Q); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		tx = tx.Where("(LOWER(restaurants.name) LIKE ? OR LOWER(restaurants.description) LIKE ?)", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}

	var list []model.Restaurant
	if err := tx.Preload("Location").
		Order("restaurants.id asc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&list).Error; err != nil {
		return []model.Restaurant{}, 0, err
	}
	return list, total, nil
}

func (r *restaurantGormRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Restaurant, error) {
	var list []model.Restaurant
	if err := r.db.WithContext(ctx).
		Preload("Location").
		Where("user_id = ? AND deleted = ?", ownerID, false).
		Order("id asc").
		Find(&list).Error; err != nil {
		return []model.Restaurant{}, err
	}
	return list, nil
}

// 平面上の距離の二乗で並べる（経路は考えない）
func (r *restaurantGormRepository) ListNearby(ctx context.Context, lat float64, lng float64, limit int) ([]model.Restaurant, error) {
	_, limit = normalizePage(1, limit)

	var list []model.Restaurant
	err := r.available(ctx).
		Joins("JOIN locations ON locations.restaurant_id = restaurants.id").
		Where("locations.latitude IS NOT NULL AND locations.longitude IS NOT NULL").
		Preload("Location").
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "((locations.latitude - ?) * (locations.latitude - ?) + (locations.longitude - ?) * (locations.longitude - ?)) ASC, restaurants.id ASC",
			Vars:               []interface{}{lat, lat, lng, lng},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return []model.Restaurant{}, err
	}
	return list, nil
}
