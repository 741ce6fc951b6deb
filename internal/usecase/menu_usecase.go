package usecase

import (
	"context"
	"strings"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/gate"
	repo "bellyfied/internal/repository"
)

var (
	ErrMenuItemNotFound = apperr.NotFound("menu item not found")
	ErrCategoryNotFound = apperr.NotFound("category not found")
)

// 検索語の上限
const maxQueryLen = 100

type MenuUsecase struct {
	menu        repo.MenuRepository
	restaurants repo.RestaurantRepository
	owners      *gate.Restaurants
}

func NewMenuUsecase(menu repo.MenuRepository, restaurants repo.RestaurantRepository, owners *gate.Restaurants) *MenuUsecase {
	return &MenuUsecase{menu: menu, restaurants: restaurants, owners: owners}
}

type MenuItemInput struct {
	CategoryID  int64
	Name        string
	Description string
	Price       int64
}

// 部分更新
type UpdateMenuItemInput struct {
	CategoryID  *int64
	Name        *string
	Description *string
	Price       *int64
}

type ListMenuInput struct {
	Page  int
	Limit int
	Q     string
}

type MenuItemPage struct {
	Items []model.MenuItem `json:"items"`
	PageInfo
}

func (u *MenuUsecase) AddItem(ctx context.Context, owner *model.User, restaurantID int64, in MenuItemInput) (model.MenuItem, error) {
	r, err := u.owners.RequireActiveOwner(ctx, owner, restaurantID)
	if err != nil {
		return model.MenuItem{}, err
	}
	if in.Price < 0 {
		return model.MenuItem{}, apperr.InvalidField("price", "must be at least 0")
	}
	if _, err := u.menu.FindCategoryByID(ctx, in.CategoryID); err != nil {
		return model.MenuItem{}, notFound(err, "category not found")
	}

	return u.menu.CreateItem(ctx, model.MenuItem{
		RestaurantID: r.ID,
		CategoryID:   in.CategoryID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
	})
}

func (u *MenuUsecase) UpdateItem(ctx context.Context, owner *model.User, restaurantID, itemID int64, in UpdateMenuItemInput) (model.MenuItem, error) {
	r, err := u.owners.RequireActiveOwner(ctx, owner, restaurantID)
	if err != nil {
		return model.MenuItem{}, err
	}
	item, err := u.ownedItem(ctx, r.ID, itemID)
	if err != nil {
		return model.MenuItem{}, err
	}

	if in.CategoryID != nil {
		if _, err := u.menu.FindCategoryByID(ctx, *in.CategoryID); err != nil {
			return model.MenuItem{}, notFound(err, "category not found")
		}
		item.CategoryID = *in.CategoryID
	}
	setIfPresent(&item.Name, in.Name)
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return model.MenuItem{}, apperr.InvalidField("price", "must be at least 0")
		}
		item.Price = *in.Price
	}

	if err := u.menu.UpdateItem(ctx, item); err != nil {
		return model.MenuItem{}, notFound(err, "menu item not found")
	}
	return item, nil
}

// 論理削除。既存の注文は残る
func (u *MenuUsecase) DeleteItem(ctx context.Context, owner *model.User, restaurantID, itemID int64) error {
	r, err := u.owners.RequireOwner(ctx, owner, restaurantID)
	if err != nil {
		return err
	}
	if _, err := u.ownedItem(ctx, r.ID, itemID); err != nil {
		return err
	}
	return notFound(u.menu.SoftDeleteItem(ctx, itemID), "menu item not found")
}

// 他のレストランのアイテム・削除済みは404
func (u *MenuUsecase) ownedItem(ctx context.Context, restaurantID, itemID int64) (model.MenuItem, error) {
	item, err := u.menu.FindItemByID(ctx, itemID)
	if err != nil {
		return model.MenuItem{}, notFound(err, "menu item not found")
	}
	if item.Deleted || item.RestaurantID != restaurantID {
		return model.MenuItem{}, ErrMenuItemNotFound
	}
	return item, nil
}

// 公開中アイテム一覧。qで名前・説明を検索
func (u *MenuUsecase) ListItems(ctx context.Context, in ListMenuInput) (MenuItemPage, error) {
	return u.list(ctx, in, nil, nil)
}

// 公開中のレストランのメニュー
func (u *MenuUsecase) RestaurantMenu(ctx context.Context, restaurantID int64, in ListMenuInput) (MenuItemPage, error) {
	r, err := u.restaurants.FindByID(ctx, restaurantID)
	if err != nil {
		return MenuItemPage{}, notFound(err, "restaurant not found")
	}
	if !r.Available() {
		return MenuItemPage{}, ErrRestaurantNotFound
	}
	return u.list(ctx, in, &r.ID, nil)
}

func (u *MenuUsecase) ItemsByCategory(ctx context.Context, categoryID int64, in ListMenuInput) (MenuItemPage, error) {
	c, err := u.menu.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return MenuItemPage{}, notFound(err, "category not found")
	}
	return u.list(ctx, in, nil, &c.ID)
}

func (u *MenuUsecase) list(ctx context.Context, in ListMenuInput, restaurantID, categoryID *int64) (MenuItemPage, error) {
	q := strings.TrimSpace(in.Q)
	if len(q) > maxQueryLen {
		return MenuItemPage{}, apperr.InvalidField("q", "q too long")
	}
	page, limit := pageOf(in.Page, in.Limit)

	items, total, err := u.menu.ListItems(ctx, repo.MenuListQuery{
		Page:         page,
		Limit:        limit,
		Q:            q,
		RestaurantID: restaurantID,
		CategoryID:   categoryID,
	})
	if err != nil {
		return MenuItemPage{}, err
	}
	return MenuItemPage{Items: items, PageInfo: PageInfo{Page: page, Limit: limit, Total: total}}, nil
}

// 削除済み・非公開レストランのアイテムは404
func (u *MenuUsecase) Item(ctx context.Context, itemID int64) (model.MenuItem, error) {
	item, err := u.menu.FindItemByID(ctx, itemID)
	if err != nil {
		return model.MenuItem{}, notFound(err, "menu item not found")
	}
	if item.Deleted {
		return model.MenuItem{}, ErrMenuItemNotFound
	}
	r, err := u.restaurants.FindByID(ctx, item.RestaurantID)
	if err != nil {
		return model.MenuItem{}, notFound(err, "menu item not found")
	}
	if !r.Available() {
		return model.MenuItem{}, ErrMenuItemNotFound
	}
	return item, nil
}

func (u *MenuUsecase) Categories(ctx context.Context) ([]model.Category, error) {
	return u.menu.ListCategories(ctx)
}
