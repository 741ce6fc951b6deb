package middleware

import (
	"bellyfied/internal/apperr"
	"bellyfied/internal/gate"

	"github.com/labstack/echo/v4"
)

// AuthJWTの後ろに置く。contextのユーザーをpipelineに通す
func AccountGate(p gate.Pipeline) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, _ := UserFrom(c)

			//ユーザーが無ければNotSuspendedが401にする
			if err := p.Evaluate(gate.Request{User: user}); err != nil {
				he, _ := apperr.AsHTTPError(err)
				return c.JSON(he.Status, he.Body())
			}

			return next(c)
		}
	}
}
