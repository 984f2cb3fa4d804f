package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/techadict/shop/pkg/middleware/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	RequireAuth echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	carts := e.Group("/carts/:userId", d.RequireAuth, authmw.RequireSelfOrAdmin("userId"))
	carts.GET("", d.CartHandler.Get)
	carts.POST("/add", d.CartHandler.Add)
	carts.PUT("/update", d.CartHandler.Update)
	carts.DELETE("/remove", d.CartHandler.Remove)
	carts.DELETE("/clear", d.CartHandler.Clear)
}
