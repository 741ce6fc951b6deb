package repository

import (
	"bellyfied/internal/domain/model"
	"context"
)

type RestaurantListQuery struct {
	Page  int
	Limit int
	Q     string
}

type RestaurantRepository interface {
	Create(ctx context.Context, r *model.Restaurant) error
	//Location付きで取得。無ければErrNotFound
	FindByID(ctx context.Context, id int64) (*model.Restaurant, error)
	//複数ヒットはErrMultipleMatches
	FindByVerificationHash(ctx context.Context, hash string) (*model.Restaurant, error)
	SetVerificationHash(ctx context.Context, id int64, hash string) error
	//columnsの列だけ更新
	Update(ctx context.Context, r *model.Restaurant, columns ...string) error
	UpsertLocation(ctx context.Context, loc model.Location) (model.Location, error)

	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	PhoneTaken(ctx context.Context, phone string, exceptID int64) (bool, error)

	//公開中（有効・未削除・未ブロック）の一覧
	ListAvailable(ctx context.Context, q RestaurantListQuery) ([]model.Restaurant, int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Restaurant, error)
	//位置が登録された公開中レストランを距離順に
	ListNearby(ctx context.Context, lat float64, lng float64, limit int) ([]model.Restaurant, error)
}
