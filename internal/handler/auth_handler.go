package handler

import (
	"net/http"

	"bellyfied/internal/middleware"
	auth "bellyfied/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

// /auth のHTTP
type AuthHandler struct {
	uc      *auth.AuthUsecase
	limiter *middleware.RateLimiter
}

// DI
func NewAuthHandler(uc *auth.AuthUsecase, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{uc: uc, limiter: limiter}
}

// /auth/register, /auth/register-vendor のリクエストボディ。
type registerRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=255"`
	LastName    string `json:"last_name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email,max=225"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// コードを送るエンドポイントだけレート制限する
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, authn middleware.Authenticator) {
	g := e.Group("/auth")
	limited := h.limiter.Middleware()

	g.POST("/register", h.register, limited)
	g.POST("/register-vendor", h.registerVendor, limited)
	g.POST("/login", h.login, limited)
	g.PUT("/resend-code", h.resendCode, limited)
	g.POST("/verify", h.verify)
	g.POST("/refresh", h.refresh)
	g.POST("/logout", h.logout, middleware.AuthJWT(authn))
}

func (h *AuthHandler) register(c echo.Context) error {
	return h.doRegister(c, false)
}

func (h *AuthHandler) registerVendor(c echo.Context) error {
	return h.doRegister(c, true)
}

func (h *AuthHandler) doRegister(c echo.Context, vendor bool) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.uc.Register(c.Request().Context(), auth.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}, vendor)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, M{
		"message": "verification code sent to your email",
		"user":    user,
	})
}

// 認証済みユーザーにログインコードを送る
func (h *AuthHandler) login(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if _, err := h.uc.RequestLoginCode(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return respond(c, "login code sent to your email", "", nil)
}

func (h *AuthHandler) resendCode(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if _, err := h.uc.ResendCode(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return respond(c, "verification code sent to your email", "", nil)
}

func (h *AuthHandler) verify(c echo.Context) error {
	var req verifyRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Verify(c.Request().Context(), req.VerificationCode, c.Request().UserAgent())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, M{
		"message":       "verification successful",
		"user":          out.User,
		"access_token":  out.Session.AccessToken,
		"refresh_token": out.Session.RefreshToken,
		"token_type":    out.Session.TokenType,
		"expires_in":    out.Session.ExpiresIn,
	})
}

func (h *AuthHandler) refresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) logout(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
