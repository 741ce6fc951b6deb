package handler

import (
	"net/http"

	"bellyfied/internal/gate"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"

	"github.com/labstack/echo/v4"
)

// メニューの公開APIとレストランのメニュー管理
type MenuHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

type menuItemRequest struct {
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"gte=0"`
}

type updateMenuItemRequest struct {
	CategoryID  *int64  `json:"category_id" validate:"omitempty,gt=0"`
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	vendor := []echo.MiddlewareFunc{middleware.AuthJWT(authn), middleware.AccountGate(gate.VendorOnly)}

	e.POST("/restaurants/:id/menu", h.addItem, vendor...)
	e.PUT("/restaurants/:id/menu/:item_id", h.updateItem, vendor...)
	e.DELETE("/restaurants/:id/menu/:item_id", h.deleteItem, vendor...)

	e.GET("/restaurants/:id/menu", h.restaurantMenu)
	e.GET("/menu/items", h.listItems)
	e.GET("/menu/items/:id", h.item)
	e.GET("/menu/categories", h.categories)
	e.GET("/menu/categories/:id/items", h.categoryItems)
	e.GET("/search/items", h.listItems)
}

func listInput(c echo.Context) usecase.ListMenuInput {
	return usecase.ListMenuInput{
		Page:  queryInt(c, "page"),
		Limit: queryInt(c, "limit"),
		Q:     c.QueryParam("q"),
	}
}

func (h *MenuHandler) addItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	item, err := h.uc.AddItem(c.Request().Context(), user, restaurantID, usecase.MenuItemInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, M{"message": "menu item added", "item": item})
}

func (h *MenuHandler) updateItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateMenuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), user, restaurantID, itemID, usecase.UpdateMenuItemInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "menu item updated", "item", item)
}

func (h *MenuHandler) deleteItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteItem(c.Request().Context(), user, restaurantID, itemID); err != nil {
		return writeError(c, err)
	}
	return respond(c, "menu item deleted", "", nil)
}

func (h *MenuHandler) restaurantMenu(c echo.Context) error {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.RestaurantMenu(c.Request().Context(), restaurantID, listInput(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// /menu/items と /search/items（?q=）
func (h *MenuHandler) listItems(c echo.Context) error {
	out, err := h.uc.ListItems(c.Request().Context(), listInput(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MenuHandler) item(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	item, err := h.uc.Item(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"item": item})
}

func (h *MenuHandler) categories(c echo.Context) error {
	list, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"categories": list})
}

func (h *MenuHandler) categoryItems(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ItemsByCategory(c.Request().Context(), id, listInput(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
