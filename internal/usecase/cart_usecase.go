package usecase

import (
	"context"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	repo "bellyfied/internal/repository"
)

// CartUsecase は /cart の業務ロジック。
// カートはユーザーごとの(menu item, 数量)の行の集まり
type CartUsecase struct {
	carts       repo.CartRepository
	menu        repo.MenuRepository
	restaurants repo.RestaurantRepository
}

func NewCartUsecase(
	carts repo.CartRepository,
	menu repo.MenuRepository,
	restaurants repo.RestaurantRepository,
) *CartUsecase {
	return &CartUsecase{
		carts:       carts,
		menu:        menu,
		restaurants: restaurants,
	}
}

// 表示用の1行。priceは現在の価格
type CartLineView struct {
	MenuItemID   int64  `json:"menu_item_id"`
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	Quantity     int64  `json:"quantity"`
	LineTotal    int64  `json:"line_total"`
	//削除されたアイテムはfalse（注文できない）
	Available bool `json:"available"`
}

type CartView struct {
	Items []CartLineView `json:"items"`
	Total int64          `json:"total"`
}

var ErrInvalidQuantity = apperr.InvalidField("quantity", "must be at least 1")

func (u *CartUsecase) Get(ctx context.Context, user *model.User) (CartView, error) {
	lines, err := u.carts.ListByUserID(ctx, user.ID)
	if err != nil {
		return CartView{}, err
	}

	out := CartView{Items: make([]CartLineView, 0, len(lines))}
	for _, l := range lines {
		item, err := u.menu.FindItemByID(ctx, l.MenuItemID)
		if err != nil {
			return CartView{}, err
		}
		v := CartLineView{
			MenuItemID:   item.ID,
			RestaurantID: item.RestaurantID,
			Name:         item.Name,
			Price:        item.Price,
			Quantity:     l.Quantity,
			LineTotal:    item.Price * l.Quantity,
			Available:    !item.Deleted,
		}
		if v.Available {
			out.Total += v.LineTotal
		}
		out.Items = append(out.Items, v)
	}
	return out, nil
}

// 追加。同じアイテムは数量を足す
func (u *CartUsecase) Add(ctx context.Context, user *model.User, itemID int64, qty int64) (CartView, error) {
	if qty < 1 {
		return CartView{}, ErrInvalidQuantity
	}
	if err := u.orderable(ctx, itemID); err != nil {
		return CartView{}, err
	}

	if err := u.carts.AddQuantity(ctx, user.ID, itemID, qty); err != nil {
		return CartView{}, err
	}
	return u.Get(ctx, user)
}

// 数量の上書き
func (u *CartUsecase) SetQuantity(ctx context.Context, user *model.User, itemID int64, qty int64) (CartView, error) {
	if qty < 1 {
		return CartView{}, ErrInvalidQuantity
	}
	if err := u.carts.UpdateQuantity(ctx, user.ID, itemID, qty); err != nil {
		return CartView{}, notFound(err, "cart item not found")
	}
	return u.Get(ctx, user)
}

func (u *CartUsecase) Remove(ctx context.Context, user *model.User, itemID int64) (CartView, error) {
	if err := u.carts.DeleteLine(ctx, user.ID, itemID); err != nil {
		return CartView{}, notFound(err, "cart item not found")
	}
	return u.Get(ctx, user)
}

func (u *CartUsecase) Clear(ctx context.Context, user *model.User) error {
	_, err := u.carts.ClearByUserID(ctx, user.ID)
	return err
}

// 未削除で、公開中のレストランのアイテムだけ入れられる
func (u *CartUsecase) orderable(ctx context.Context, itemID int64) error {
	item, err := u.menu.FindItemByID(ctx, itemID)
	if err != nil {
		return notFound(err, "menu item not found")
	}
	if item.Deleted {
		return ErrMenuItemNotFound
	}
	r, err := u.restaurants.FindByID(ctx, item.RestaurantID)
	if err != nil {
		return notFound(err, "menu item not found")
	}
	if !r.Available() {
		return ErrMenuItemNotFound
	}
	return nil
}
