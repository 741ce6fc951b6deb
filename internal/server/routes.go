package server

import (
	"bellyfied/internal/handler"
	"bellyfied/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 各handlerのルート
type Handlers struct {
	Auth            *handler.AuthHandler
	User            *handler.UserHandler
	Restaurant      *handler.RestaurantHandler
	Menu            *handler.MenuHandler
	Cart            *handler.CartHandler
	Order           *handler.OrderHandler
	RestaurantOrder *handler.RestaurantOrderHandler
	System          *handler.SystemHandler
}

func RegisterRoutes(e *echo.Echo, authn middleware.Authenticator, h Handlers) {
	h.System.RegisterRoutes(e)
	h.Auth.RegisterRoutes(e, authn)
	h.User.RegisterRoutes(e, authn)
	h.Restaurant.RegisterRoutes(e, authn)
	h.Menu.RegisterRoutes(e, authn)
	h.Cart.RegisterRoutes(e, authn)
	h.Order.RegisterRoutes(e, authn)
	h.RestaurantOrder.RegisterRoutes(e, authn)
}
