package handler

import (
	"net/http"

	"bellyfied/internal/gate"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// 省略時は1個
type addCartRequest struct {
	Quantity *int64 `json:"quantity" validate:"omitempty,gte=1"`
}

type setQuantityRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gte=1"`
}

// /cart, /cart/items/{item_id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(authn))
	g.Use(middleware.AccountGate(gate.Member))

	g.GET("", h.getCart)
	g.DELETE("", h.clear)
	g.POST("/items/:item_id", h.addItem)
	g.PATCH("/items/:item_id", h.setQuantity)
	g.DELETE("/items/:item_id", h.removeItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Get(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"cart": out})
}

func (h *CartHandler) addItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}
	var req addCartRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return writeError(c, err)
		}
	}
	qty := int64(1)
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	out, err := h.uc.Add(c.Request().Context(), user, itemID, qty)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "item added to cart", "cart", out)
}

func (h *CartHandler) setQuantity(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}
	var req setQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.SetQuantity(c.Request().Context(), user, itemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "cart updated", "cart", out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Remove(c.Request().Context(), user, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "item removed from cart", "cart", out)
}

func (h *CartHandler) clear(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Clear(c.Request().Context(), user); err != nil {
		return writeError(c, err)
	}
	return respond(c, "cart cleared", "", nil)
}
