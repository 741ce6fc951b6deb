package gate

import (
	"context"
	"errors"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/repository"
)

// レストランを取るだけの窓口（txの中でも使えるように）
type RestaurantFinder interface {
	FindByID(ctx context.Context, id int64) (*model.Restaurant, error)
}

// 「呼び出し元がレストランXの持ち主である」を確かめる。
// restaurant, menu, orderのusecaseで共有する
type Restaurants struct {
	finder RestaurantFinder
}

func NewRestaurants(finder RestaurantFinder) *Restaurants {
	return &Restaurants{finder: finder}
}

// 無い・削除済みは404。持ち主でなければ403
func (g *Restaurants) RequireOwner(ctx context.Context, user *model.User, restaurantID int64) (*model.Restaurant, error) {
	return RequireOwnerWith(ctx, g.finder, user, restaurantID)
}

func RequireOwnerWith(ctx context.Context, finder RestaurantFinder, user *model.User, restaurantID int64) (*model.Restaurant, error) {
	//ユーザー側のチェックを先にする
	if err := VendorOnly.Evaluate(Request{User: user}); err != nil {
		return nil, err
	}

	r, err := finder.FindByID(ctx, restaurantID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("restaurant not found")
	}
	if err != nil {
		return nil, err
	}
	if r.Deleted {
		return nil, apperr.NotFound("restaurant not found")
	}

	if err := RestaurantOwner.Evaluate(Request{User: user, Restaurant: r}); err != nil {
		return nil, err
	}
	return r, nil
}

// 更新系はさらに有効化済みであること
func (g *Restaurants) RequireActiveOwner(ctx context.Context, user *model.User, restaurantID int64) (*model.Restaurant, error) {
	r, err := g.RequireOwner(ctx, user, restaurantID)
	if err != nil {
		return nil, err
	}
	if !r.IsActive {
		return nil, apperr.Forbidden("restaurant is not active")
	}
	if r.Block {
		return nil, apperr.Forbidden("restaurant is blocked")
	}
	return r, nil
}
