package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/techadict/shop/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler *OrderHTTP
	RequireAuth  echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	admin := authmw.RequireScope(authmw.ScopeAdmin)

	orders := e.Group("/orders", d.RequireAuth)
	orders.POST("", d.OrderHandler.Create)
	orders.GET("", d.OrderHandler.GetAll, admin)
	orders.GET("/user/:userId", d.OrderHandler.GetByUser, authmw.RequireSelfOrAdmin("userId"))
	orders.GET("/:id", d.OrderHandler.Get)
	orders.PUT("/:id/status", d.OrderHandler.UpdateStatus, admin)
	orders.PUT("/:id/payment", d.OrderHandler.UpdatePayment, admin)
	orders.PUT("/:id/cancel", d.OrderHandler.Cancel)
}
