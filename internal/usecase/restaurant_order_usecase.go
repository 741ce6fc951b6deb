package usecase

import (
	"context"
	"time"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/gate"
	repo "bellyfied/internal/repository"
)

var (
	ErrOrderDelivered      = apperr.Conflict("order has already been delivered")
	ErrOrderStatusBackward = apperr.Conflict("order status cannot go backwards")
	ErrInvalidOrderStatus  = apperr.InvalidField("status", "must be between 1 and 4")
)

// レストラン側の注文操作
type RestaurantOrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	owners *gate.Restaurants
}

func NewRestaurantOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, owners *gate.Restaurants) *RestaurantOrderUsecase {
	return &RestaurantOrderUsecase{tx: tx, orders: orders, owners: owners}
}

// 部分更新。nilは変更しない
type UpdateOrderInput struct {
	Status    *int
	Delivered *bool
	PaidFor   *bool
}

// キャンセルされていない注文一覧
func (u *RestaurantOrderUsecase) List(ctx context.Context, owner *model.User, restaurantID int64, page, limit int) (OrderPage, error) {
	r, err := u.owners.RequireOwner(ctx, owner, restaurantID)
	if err != nil {
		return OrderPage{}, err
	}

	page, limit = pageOf(page, limit)
	orders, total, err := u.orders.ListByRestaurantID(ctx, r.ID, page, limit)
	if err != nil {
		return OrderPage{}, err
	}
	return OrderPage{Orders: orders, PageInfo: PageInfo{Page: page, Limit: limit, Total: total}}, nil
}

// status/delivered/paid_forの更新。配達済みは終端
func (u *RestaurantOrderUsecase) Update(ctx context.Context, owner *model.User, orderID int64, in UpdateOrderInput) (model.Order, error) {
	if err := gate.VendorOnly.Evaluate(gate.Request{User: owner}); err != nil {
		return model.Order{}, err
	}

	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return notFound(err, "order not found")
		}
		if o.Cancel {
			return ErrOrderNotFound
		}

		//自分のレストランの注文でなければ404
		rest, err := r.Restaurants().FindByID(ctx, o.RestaurantID)
		if err != nil {
			return notFound(err, "order not found")
		}
		if err := gate.RestaurantOwner.Evaluate(gate.Request{User: owner, Restaurant: rest}); err != nil {
			return ErrOrderNotFound
		}

		if o.Delivered {
			return ErrOrderDelivered
		}

		next := repo.OrderFulfilment{Status: o.Status, Delivered: o.Delivered, PaidFor: o.PaidFor}
		if in.Status != nil {
			s := model.OrderStatus(*in.Status)
			if !s.Valid() {
				return ErrInvalidOrderStatus
			}
			if s < o.Status {
				return ErrOrderStatusBackward
			}
			next.Status = s
		}
		if in.Delivered != nil {
			next.Delivered = *in.Delivered
		}
		if in.PaidFor != nil {
			next.PaidFor = *in.PaidFor
		}

		if err := r.Orders().UpdateFulfilment(ctx, orderID, next); err != nil {
			return notFound(err, "order not found")
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  owner.ID,
			Action:       model.AuditActionUpdateOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   model.AuditSnapshot(fulfilmentOf(o.Status, o.Delivered, o.PaidFor)),
			AfterJSON:    model.AuditSnapshot(fulfilmentOf(next.Status, next.Delivered, next.PaidFor)),
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		o.Status = next.Status
		o.Delivered = next.Delivered
		o.PaidFor = next.PaidFor
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return out, nil
}

func fulfilmentOf(status model.OrderStatus, delivered, paid bool) map[string]interface{} {
	return map[string]interface{}{
		"status":    int(status),
		"delivered": delivered,
		"paid_for":  paid,
	}
}
