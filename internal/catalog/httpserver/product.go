package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/catalog/service"
	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/pagination"
	"github.com/techadict/shop/pkg/response"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func pageParams(c echo.Context) (int, int) {
	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)
	return page, size
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_product_error", err)
	}
	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_product_error", err)
	}
	l.Info("create_product_success", "product_id", res.ID)
	return response.Created(c, "", res)
}

func (h *ProductHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_all")

	filter := transport.ProductFilter{
		CategoryID: c.QueryParam("category_id"),
		BrandID:    c.QueryParam("brand_id"),
	}
	if v := c.QueryParam("featured"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Featured = &b
		}
	}
	page, size := pageParams(c)

	res, err := h.Svc.GetAll(ctx, filter, page, size)
	if err != nil {
		return response.Fail(l, "get_products_error", err)
	}
	return response.OK(c, "", res)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, size := pageParams(c)
	res, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return response.Fail(l, "search_products_error", err)
	}
	return response.OK(c, "", res)
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	res, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return response.Fail(l, "get_product_error", err)
	}
	return response.OK(c, "", res)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req transport.ProductUpdateRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_product_error", err)
	}
	res, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return response.Fail(l, "update_product_error", err)
	}
	l.Info("update_product_success", "product_id", res.ID)
	return response.OK(c, "", res)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id := c.Param("id")
	if err := h.Svc.Delete(ctx, id); err != nil {
		return response.Fail(l, "delete_product_error", err)
	}
	l.Info("delete_product_success", "product_id", id)
	return response.OK(c, "product deleted", nil)
}
