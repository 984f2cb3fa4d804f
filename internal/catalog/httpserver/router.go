package httpserver

import (
	"github.com/labstack/echo/v4"

	authmw "github.com/techadict/shop/pkg/middleware/auth"
)

type Deps struct {
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	BrandHandler    *BrandHTTP
	RequireAuth     echo.MiddlewareFunc
}

// Register mounts the catalog. Reads are public, writes need an admin token.
func Register(e *echo.Echo, d *Deps) {
	admin := []echo.MiddlewareFunc{d.RequireAuth, authmw.RequireScope(authmw.ScopeAdmin)}

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetAll)
	products.GET("/search", d.ProductHandler.Search)
	products.GET("/:id", d.ProductHandler.Get)
	products.POST("", d.ProductHandler.Create, admin...)
	products.PUT("/:id", d.ProductHandler.Update, admin...)
	products.DELETE("/:id", d.ProductHandler.Delete, admin...)

	categories := e.Group("/categories")
	categories.GET("", d.CategoryHandler.GetAll)
	categories.GET("/:id", d.CategoryHandler.Get)
	categories.POST("", d.CategoryHandler.Create, admin...)
	categories.PUT("/:id", d.CategoryHandler.Update, admin...)
	categories.DELETE("/:id", d.CategoryHandler.Delete, admin...)

	brands := e.Group("/brands")
	brands.GET("", d.BrandHandler.GetAll)
	brands.GET("/:id", d.BrandHandler.Get)
	brands.POST("", d.BrandHandler.Create, admin...)
	brands.PUT("/:id", d.BrandHandler.Update, admin...)
	brands.DELETE("/:id", d.BrandHandler.Delete, admin...)
}
