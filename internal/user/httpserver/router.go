package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/techadict/shop/pkg/middleware/auth"
)

type Deps struct {
	UserHandler    *UserHTTP
	AddressHandler *AddressHTTP
	RequireAuth    echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	admin := authmw.RequireScope(authmw.ScopeAdmin)

	users := e.Group("/users", d.RequireAuth)
	users.POST("", d.UserHandler.Create, admin)
	users.GET("", d.UserHandler.GetAll, admin)
	users.GET("/me", d.UserHandler.Me)
	users.GET("/:id", d.UserHandler.Get, authmw.RequireSelfOrAdmin("id"))
	users.PUT("/:id", d.UserHandler.Update, authmw.RequireSelfOrAdmin("id"))
	users.DELETE("/:id", d.UserHandler.Delete, admin)

	addresses := e.Group("/addresses", d.RequireAuth)
	addresses.POST("", d.AddressHandler.Create)
	addresses.GET("/user/:userId", d.AddressHandler.GetByUser, authmw.RequireSelfOrAdmin("userId"))
	addresses.GET("/:id", d.AddressHandler.Get)
	addresses.PUT("/:id", d.AddressHandler.Update)
	addresses.DELETE("/:id", d.AddressHandler.Delete)
}
