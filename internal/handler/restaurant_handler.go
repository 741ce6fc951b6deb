package handler

import (
	"net/http"
	"strconv"

	"bellyfied/internal/apperr"
	"bellyfied/internal/gate"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /restaurants と /search/restaurants のHTTP
type RestaurantHandler struct {
	uc *usecase.RestaurantUsecase
}

func NewRestaurantHandler(uc *usecase.RestaurantUsecase) *RestaurantHandler {
	return &RestaurantHandler{uc: uc}
}

type createRestaurantRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Description     string `json:"description"`
	Email           string `json:"email" validate:"required,email,max=255"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,phone"`
	OpeningHours    string `json:"opening_hours" validate:"omitempty,hhmm"`
	ClosingHours    string `json:"closing_hours" validate:"omitempty,hhmm"`
	DaysOfOperation string `json:"days_of_operation" validate:"max=100"`
}

type activateRestaurantRequest struct {
	ActivationCode string `json:"activation_code" validate:"required"`
}

type updateRestaurantRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=255"`
	Description     *string `json:"description"`
	OpeningHours    *string `json:"opening_hours" validate:"omitempty,hhmm"`
	ClosingHours    *string `json:"closing_hours" validate:"omitempty,hhmm"`
	DaysOfOperation *string `json:"days_of_operation" validate:"omitempty,max=100"`
}

type locationRequest struct {
	Street    *string  `json:"street" validate:"omitempty,max=255"`
	City      *string  `json:"city" validate:"omitempty,max=100"`
	State     *string  `json:"state" validate:"omitempty,max=50"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

// 持ち主のチェックはusecase側（gate.Restaurants）
func (h *RestaurantHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	vendor := []echo.MiddlewareFunc{middleware.AuthJWT(authn), middleware.AccountGate(gate.VendorOnly)}

	e.POST("/restaurants", h.create, vendor...)
	e.POST("/restaurants/activate", h.activate, vendor...)
	e.GET("/restaurants/mine", h.mine, vendor...)
	e.PUT("/restaurants/:id", h.update, vendor...)
	e.PUT("/restaurants/:id/location", h.upsertLocation, vendor...)
	e.DELETE("/restaurants/:id", h.delete, vendor...)

	e.GET("/restaurants", h.list)
	e.GET("/restaurants/:id", h.detail)
	e.GET("/search/restaurants", h.list)
	e.GET("/search/restaurants/nearby", h.nearby)
}

func (h *RestaurantHandler) create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req createRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	r, err := h.uc.Create(c.Request().Context(), user, usecase.CreateRestaurantInput{
		Name:            req.Name,
		Description:     req.Description,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		OpeningHours:    req.OpeningHours,
		ClosingHours:    req.ClosingHours,
		DaysOfOperation: req.DaysOfOperation,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, M{
		"message":    "restaurant created, activation code sent to the restaurant email",
		"restaurant": r,
	})
}

func (h *RestaurantHandler) activate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req activateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	r, err := h.uc.Activate(c.Request().Context(), user, req.ActivationCode)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "restaurant activated", "restaurant", r)
}

func (h *RestaurantHandler) mine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	list, err := h.uc.Mine(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"restaurants": list})
}

func (h *RestaurantHandler) update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req updateRestaurantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	r, err := h.uc.Update(c.Request().Context(), user, id, usecase.UpdateRestaurantInput{
		Name:            req.Name,
		Description:     req.Description,
		OpeningHours:    req.OpeningHours,
		ClosingHours:    req.ClosingHours,
		DaysOfOperation: req.DaysOfOperation,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "restaurant updated", "restaurant", r)
}

func (h *RestaurantHandler) upsertLocation(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req locationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	loc, err := h.uc.UpsertLocation(c.Request().Context(), user, id, usecase.LocationInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "location saved", "location", loc)
}

func (h *RestaurantHandler) delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), user, id); err != nil {
		return writeError(c, err)
	}
	return respond(c, "restaurant deleted", "", nil)
}

// ?q= があれば検索
func (h *RestaurantHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RestaurantHandler) detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	r, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"restaurant": r})
}

func (h *RestaurantHandler) nearby(c echo.Context) error {
	lat, err1 := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, err2 := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err1 != nil || err2 != nil {
		return writeError(c, apperr.BadRequest("lat and lng are required"))
	}

	list, err := h.uc.Nearby(c.Request().Context(), lat, lng)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, M{"restaurants": list})
}
