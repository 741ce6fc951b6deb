package repository

import (
	"context"

	"bellyfied/internal/domain/model"
)

// レストラン側の更新内容
type OrderFulfilment struct {
	Status    model.OrderStatus
	Delivered bool
	PaidFor   bool
}

type OrderRepository interface {
	CreateBulk(ctx context.Context, orders []model.Order) error
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	//キャンセル済みは含めない
	ListByRestaurantID(ctx context.Context, restaurantID int64, page int, limit int) ([]model.Order, int64, error)
	//キャンセルされていない注文だけ更新
	UpdateFulfilment(ctx context.Context, orderID int64, f OrderFulfilment) error
	//キャンセル可能な状態のときだけcancel=true。更新できたか返す
	MarkCanceled(ctx context.Context, orderID int64, userID int64) (bool, error)
}
