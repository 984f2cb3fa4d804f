package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/techadict/shop/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler       *AuthHTTP
	RoleHandler       *RoleHTTP
	PermissionHandler *PermissionHTTP
	// RequireAuth validates the bearer token.
	RequireAuth echo.MiddlewareFunc
	// OptionalAuth identifies callers of public routes that behave
	// differently for admins; optional.
	OptionalAuth echo.MiddlewareFunc
	// LoginLimit throttles token requests; optional.
	LoginLimit echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	auth := e.Group("/auth")
	if d.LoginLimit != nil {
		auth.POST("/token", d.AuthHandler.Token, d.LoginLimit)
	} else {
		auth.POST("/token", d.AuthHandler.Token)
	}
	auth.POST("/introspect", d.AuthHandler.Introspect)
	auth.POST("/logout", d.AuthHandler.Logout)
	if d.OptionalAuth != nil {
		auth.POST("/register", d.AuthHandler.Register, d.OptionalAuth)
	} else {
		auth.POST("/register", d.AuthHandler.Register)
	}

	admin := []echo.MiddlewareFunc{d.RequireAuth, authmw.RequireScope(authmw.ScopeAdmin)}

	roles := e.Group("/roles", admin...)
	roles.POST("", d.RoleHandler.Create)
	roles.GET("", d.RoleHandler.GetAll)
	roles.GET("/:name", d.RoleHandler.Get)
	roles.PUT("/:name", d.RoleHandler.Update)
	roles.DELETE("/:name", d.RoleHandler.Delete)

	perms := e.Group("/permissions", admin...)
	perms.POST("", d.PermissionHandler.Create)
	perms.GET("", d.PermissionHandler.GetAll)
	perms.GET("/:name", d.PermissionHandler.Get)
	perms.PUT("/:name", d.PermissionHandler.Update)
	perms.DELETE("/:name", d.PermissionHandler.Delete)
}
