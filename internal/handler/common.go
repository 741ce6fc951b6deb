package handler

import (
	"net/http"
	"strconv"

	"bellyfied/internal/apperr"
	"bellyfied/internal/domain/model"
	"bellyfied/internal/middleware"

	"github.com/labstack/echo/v4"
)

var (
	errInvalidBody = apperr.BadRequest("invalid body")
	errInvalidID   = apperr.BadRequest("invalid id")
)

// 成功時の形 {"message": ..., "<resource>": ...}
type M map[string]interface{}

// HTTPErrorはそのままJSONに。それ以外はechoのエラーハンドラへ渡す（500でログに出る）
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := apperr.AsHTTPError(err); ok {
		return c.JSON(he.Status, he.Body())
	}
	return err
}

// Bind + validatorタグの検証
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errInvalidBody
	}
	return c.Validate(req)
}

// AuthJWTが入れたユーザー
func currentUser(c echo.Context) (*model.User, error) {
	u, ok := middleware.UserFrom(c)
	if !ok {
		return nil, apperr.AuthenticationFailed("authentication required")
	}
	return u, nil
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// 無い・不正は0（usecase側でデフォルトになる）
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func respond(c echo.Context, message string, key string, v interface{}) error {
	body := M{"message": message}
	if key != "" {
		body[key] = v
	}
	return c.JSON(http.StatusOK, body)
}
