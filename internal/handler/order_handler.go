package handler

import (
	"net/http"

	"bellyfied/internal/gate"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders（注文したユーザー側）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// PATCH /orders/:id はRestaurantOrderHandler
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(authn))
	g.Use(middleware.AccountGate(gate.Member))

	g.POST("", h.place)
	g.GET("", h.listMine)
	g.GET("/:id", h.detail)
	g.POST("/:id/cancel", h.cancel)
}

// カートの中身をすべて注文にする
func (h *OrderHandler) place(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Place(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, M{
		"message":   "order placed",
		"reference": out.Reference,
		"orders":    out.Orders,
		"total":     out.Total,
	})
}

func (h *OrderHandler) listMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.ListMine(c.Request().Context(), user, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	o, err := h.uc.Detail(c.Request().Context(), user, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"order": o})
}

func (h *OrderHandler) cancel(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	o, err := h.uc.Cancel(c.Request().Context(), user, id)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "order canceled", "order", o)
}
