package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/catalog/service"
	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/response"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_category_error", err)
	}
	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_category_error", err)
	}
	return response.Created(c, "", res)
}

func (h *CategoryHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_all")

	res, err := h.Svc.GetAll(ctx)
	if err != nil {
		return response.Fail(l, "get_categories_error", err)
	}
	return response.OK(c, "", res)
}

func (h *CategoryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	res, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return response.Fail(l, "get_category_error", err)
	}
	return response.OK(c, "", res)
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	var req transport.CategoryRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_category_error", err)
	}
	res, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return response.Fail(l, "update_category_error", err)
	}
	return response.OK(c, "", res)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return response.Fail(l, "delete_category_error", err)
	}
	return response.OK(c, "category deleted", nil)
}

type BrandHTTP struct {
	Svc *service.BrandService
}

func (h *BrandHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.create")

	var req transport.BrandRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_brand_error", err)
	}
	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_brand_error", err)
	}
	return response.Created(c, "", res)
}

func (h *BrandHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.get_all")

	res, err := h.Svc.GetAll(ctx)
	if err != nil {
		return response.Fail(l, "get_brands_error", err)
	}
	return response.OK(c, "", res)
}

func (h *BrandHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.get")

	res, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return response.Fail(l, "get_brand_error", err)
	}
	return response.OK(c, "", res)
}

func (h *BrandHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.update")

	var req transport.BrandRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_brand_error", err)
	}
	res, err := h.Svc.Update(ctx, c.Param("id"), req)
	if err != nil {
		return response.Fail(l, "update_brand_error", err)
	}
	return response.OK(c, "", res)
}

func (h *BrandHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "brand.delete")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return response.Fail(l, "delete_brand_error", err)
	}
	return response.OK(c, "brand deleted", nil)
}
