package repository

import (
	"bellyfied/internal/domain/model"
	domainrepo "bellyfied/internal/repository"
	"context"
	"time"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// ユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return mapError(r.db.WithContext(ctx).Create(user).Error)
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// 認証コードのhashで1件取得。4桁なので他のユーザーと重なることがある
func (r *userGormRepository) FindByVerificationHash(ctx context.Context, hash string) (*model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("hashed_verification_code = ?", hash).
		Limit(2).
		Find(&users).Error; err != nil {
		return nil, mapError(err)
	}
	switch len(users) {
	case 0:
		return nil, domainrepo.ErrNotFound
	case 1:
		return &users[0], nil
	default:
		return nil, domainrepo.ErrMultipleMatches
	}
}

func (r *userGormRepository) findOne(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// 指定した列だけ更新。読み込み後に他で変わった列は上書きしない
func (r *userGormRepository) Update(ctx context.Context, user *model.User, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	user.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Select(append(columns, "updated_at")).
		Updates(user)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

// 発行のたびに上書き
func (r *userGormRepository) SetVerificationHash(ctx context.Context, userID int64, hash string) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("hashed_verification_code", hash)

	if res.Error != nil {
		return res.Error
	}
	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

func (r *userGormRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	return r.taken(ctx, "email = ?", email, exceptID)
}

func (r *userGormRepository) PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error) {
	return r.taken(ctx, "phone_number = ?", phone, exceptID)
}

func (r *userGormRepository) taken(ctx context.Context, cond string, v string, exceptID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where(cond, v).
		Where("id <> ?", exceptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
