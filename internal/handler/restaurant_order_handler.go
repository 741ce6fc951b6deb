package handler

import (
	"net/http"

	"bellyfied/internal/gate"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"

	"github.com/labstack/echo/v4"
)

// レストラン側の注文操作
type RestaurantOrderHandler struct {
	uc *usecase.RestaurantOrderUsecase
}

func NewRestaurantOrderHandler(uc *usecase.RestaurantOrderUsecase) *RestaurantOrderHandler {
	return &RestaurantOrderHandler{uc: uc}
}

type updateOrderRequest struct {
	Status    *int  `json:"status" validate:"omitempty,min=1,max=4"`
	Delivered *bool `json:"delivered"`
	PaidFor   *bool `json:"paid_for"`
}

func (h *RestaurantOrderHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	vendor := []echo.MiddlewareFunc{middleware.AuthJWT(authn), middleware.AccountGate(gate.VendorOnly)}

	e.GET("/restaurants/:id/orders", h.list, vendor...)
	e.PATCH("/orders/:id", h.update, vendor...)
}

// キャンセルされていない注文
func (h *RestaurantOrderHandler) list(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.List(c.Request().Context(), user, restaurantID, queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantOrderHandler) update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	o, err := h.uc.Update(c.Request().Context(), user, id, usecase.UpdateOrderInput{
		Status:    req.Status,
		Delivered: req.Delivered,
		PaidFor:   req.PaidFor,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "order updated", "order", o)
}
