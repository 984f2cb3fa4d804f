// Package httpserver mounts every service router on one echo instance.
package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authhttp "github.com/techadict/shop/internal/auth/httpserver"
	carthttp "github.com/techadict/shop/internal/cart/httpserver"
	cataloghttp "github.com/techadict/shop/internal/catalog/httpserver"
	orderhttp "github.com/techadict/shop/internal/order/httpserver"
	userhttp "github.com/techadict/shop/internal/user/httpserver"
	"github.com/techadict/shop/pkg/db"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/metrics"
	metricsmw "github.com/techadict/shop/pkg/middleware/metrics"
	"github.com/techadict/shop/pkg/response"
)

type Deps struct {
	DB      *gorm.DB
	Metrics *metrics.Metrics

	Auth    *authhttp.Deps
	Users   *userhttp.Deps
	Catalog *cataloghttp.Deps
	Carts   *carthttp.Deps
	Orders  *orderhttp.Deps
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return response.OK(c, "ok", nil)
	})
	e.GET("/health/ready", func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx, d.DB); err != nil {
			logging.FromContext(ctx).Warn("readiness_failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return response.OK(c, "ready", nil)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metricsmw.Handler(d.Metrics)))
	}

	authhttp.Register(e, d.Auth)
	userhttp.Register(e, d.Users)
	cataloghttp.Register(e, d.Catalog)
	carthttp.Register(e, d.Carts)
	orderhttp.Register(e, d.Orders)
}
