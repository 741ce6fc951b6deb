package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/gate"
	"bellyfied/internal/metrics"
	repo "bellyfied/internal/repository"
)

var (
	ErrOrderNotFound      = apperr.NotFound("order not found")
	ErrOrderNotCancelable = apperr.Forbidden("order can no longer be canceled")
	ErrCartChanged        = apperr.Conflict("cart changed while placing the order, please try again")
)

type OrderUsecase struct {
	tx          repo.TransactionManager
	orders      repo.OrderRepository
	restaurants repo.RestaurantRepository
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, restaurants repo.RestaurantRepository) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, restaurants: restaurants}
}

// 1回の注文操作で作られた注文（カート1行につき1件）
type PlacedOrders struct {
	Reference string        `json:"reference"`
	Orders    []model.Order `json:"orders"`
	Total     int64         `json:"total"`
}

type OrderPage struct {
	Orders []model.Order `json:"orders"`
	PageInfo
}

// カートを注文にする。作成とカートの削除は同じトランザクション
func (u *OrderUsecase) Place(ctx context.Context, user *model.User) (PlacedOrders, error) {
	var out PlacedOrders

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Carts().LockByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperr.EmptyCart()
		}

		ref := uuid.NewString()
		orders := make([]model.Order, 0, len(lines))
		var total int64

		for _, l := range lines {
			item, err := r.Menu().FindItemByID(ctx, l.MenuItemID)
			if err != nil {
				return notFound(err, fmt.Sprintf("menu item %d not found", l.MenuItemID))
			}
			if item.Deleted {
				return apperr.NotFound(fmt.Sprintf("menu item %d is no longer available", l.MenuItemID))
			}

			//価格はここで確定し、以後変えない
			price := item.Price * l.Quantity
			orders = append(orders, model.Order{
				Reference:    ref,
				UserID:       user.ID,
				MenuItemID:   item.ID,
				RestaurantID: item.RestaurantID,
				ItemName:     item.Name,
				Quantity:     l.Quantity,
				Price:        price,
				Status:       model.OrderStatusPlaced,
			})
			total += price
		}

		if err := r.Orders().CreateBulk(ctx, orders); err != nil {
			return err
		}
		//スナップショットの行だけ消す。数が合わなければ途中で変わった
		lineIDs := make([]int64, 0, len(lines))
		for _, l := range lines {
			lineIDs = append(lineIDs, l.ID)
		}
		n, err := r.Carts().DeleteLines(ctx, user.ID, lineIDs)
		if err != nil {
			return err
		}
		if n != int64(len(lines)) {
			return ErrCartChanged
		}

		out = PlacedOrders{Reference: ref, Orders: orders, Total: total}
		return nil
	})
	if err != nil {
		return PlacedOrders{}, err
	}

	metrics.OrdersPlaced(len(out.Orders))
	return out, nil
}

func (u *OrderUsecase) ListMine(ctx context.Context, user *model.User, page, limit int) (OrderPage, error) {
	page, limit = pageOf(page, limit)
	orders, total, err := u.orders.ListByUserID(ctx, user.ID, page, limit)
	if err != nil {
		return OrderPage{}, err
	}
	return OrderPage{Orders: orders, PageInfo: PageInfo{Page: page, Limit: limit, Total: total}}, nil
}

// 注文したユーザーか、そのレストランのベンダーだけ見られる
func (u *OrderUsecase) Detail(ctx context.Context, user *model.User, orderID int64) (model.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		return model.Order{}, notFound(err, "order not found")
	}
	if o.UserID == user.ID {
		return o, nil
	}

	if !user.IsVendor {
		return model.Order{}, ErrOrderNotFound
	}
	r, err := u.restaurants.FindByID(ctx, o.RestaurantID)
	if err != nil {
		return model.Order{}, notFound(err, "order not found")
	}
	if err := gate.RestaurantOwner.Evaluate(gate.Request{User: user, Restaurant: r}); err != nil {
		return model.Order{}, ErrOrderNotFound
	}
	return o, nil
}

// ユーザーによるキャンセル。2回目は403
func (u *OrderUsecase) Cancel(ctx context.Context, user *model.User, orderID int64) (model.Order, error) {
	var out model.Order

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return notFound(err, "order not found")
		}
		//他人の注文は存在しない扱い
		if o.UserID != user.ID {
			return ErrOrderNotFound
		}

		ok, err := r.Orders().MarkCanceled(ctx, orderID, user.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrOrderNotCancelable
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  user.ID,
			Action:       model.AuditActionCancelOrder,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   model.AuditSnapshot(map[string]interface{}{"cancel": false}),
			AfterJSON:    model.AuditSnapshot(map[string]interface{}{"cancel": true}),
			CreatedAt:    time.Now(),
		}); err != nil {
			return err
		}

		o.Cancel = true
		out = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	metrics.OrderCanceled()
	return out, nil
}
