package middleware

import (
	"context"
	"net/http"
	"strings"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// AuthJWTが入れるログイン中ユーザー（*model.User）
const CtxUserKey = "user"

// accessトークンからユーザーを引く（auth.AuthUsecaseが実装）
type Authenticator interface {
	Authenticate(ctx context.Context, rawAccess string) (*model.User, error)
}

// bearerAuth用のJWT検証ミドルウェア。
// 検証してDBのユーザーをcontextに入れる。状態のチェックはAccountGateでやる
func AuthJWT(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Authorizationヘッダを取得
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			if authz == "" {
				return unauthorized(c)
			}

			//Bearer形式か確認してtokenを抜く
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return unauthorized(c)
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return unauthorized(c)
			}

			user, err := a.Authenticate(c.Request().Context(), rawToken)
			if err != nil {
				if he, ok := apperr.AsHTTPError(err); ok {
					return c.JSON(he.Status, he.Body())
				}
				return c.JSON(http.StatusInternalServerError, apperr.Body{Error: apperr.CodeInternal, Message: "internal error"})
			}

			c.Set(CtxUserKey, user)
			return next(c)
		}
	}
}

// contextのユーザー
func UserFrom(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(CtxUserKey).(*model.User)
	return u, ok && u != nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apperr.Body{
		Error:   apperr.CodeUnauthorized,
		Message: "authentication required",
	})
}
