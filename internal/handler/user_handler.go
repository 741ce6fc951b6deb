package handler

import (
	"net/http"

	"bellyfied/internal/gate"
	"bellyfied/internal/middleware"
	"bellyfied/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /users/me のHTTP
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type updateEmailRequest struct {
	Email string `json:"email" validate:"required,email,max=225"`
}

type updatePhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
}

type updateDetailsRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
}

type addressRequest struct {
	Street    *string  `json:"street" validate:"omitempty,max=255"`
	City      *string  `json:"city" validate:"omitempty,max=100"`
	State     *string  `json:"state" validate:"omitempty,max=50"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	g := e.Group("/users/me")
	g.Use(middleware.AuthJWT(authn))
	g.Use(middleware.AccountGate(gate.Member))

	g.GET("", h.me)
	g.PUT("/email", h.updateEmail)
	g.PUT("/phone", h.updatePhone)
	g.PUT("/details", h.updateDetails)
	g.PUT("/address", h.upsertAddress)
	g.DELETE("", h.delete)
}

func (h *UserHandler) me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Me(c.Request().Context(), user)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 新しいアドレスにコードが届く。認証するまで他の操作はできない
func (h *UserHandler) updateEmail(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateEmail(c.Request().Context(), user, req.Email)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "email updated, verification code sent to the new address", "user", out)
}

func (h *UserHandler) updatePhone(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updatePhoneRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdatePhone(c.Request().Context(), user, req.PhoneNumber)
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "phone number updated", "user", out)
}

func (h *UserHandler) updateDetails(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req updateDetailsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpdateDetails(c.Request().Context(), user, usecase.UpdateDetailsInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "details updated", "user", out)
}

func (h *UserHandler) upsertAddress(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.UpsertAddress(c.Request().Context(), user, usecase.AddressInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return writeError(c, err)
	}
	return respond(c, "address saved", "address", out)
}

func (h *UserHandler) delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), user); err != nil {
		return writeError(c, err)
	}
	return respond(c, "account deleted", "", nil)
}
