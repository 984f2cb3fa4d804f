package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/auth/service"
	"github.com/techadict/shop/internal/auth/transport"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/response"
)

type PermissionHTTP struct {
	Svc *service.PermissionService
}

func (h *PermissionHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "permission.create")

	var req transport.PermissionRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_permission_error", err)
	}
	res, err := h.Svc.Create(ctx, req)
	if err != nil {
		return response.Fail(l, "create_permission_error", err)
	}
	l.Info("create_permission_success", "permission", res.Name)
	return response.Created(c, "", res)
}

func (h *PermissionHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "permission.get_all")

	res, err := h.Svc.GetAll(ctx)
	if err != nil {
		return response.Fail(l, "get_permissions_error", err)
	}
	return response.OK(c, "", res)
}

func (h *PermissionHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "permission.get")

	res, err := h.Svc.GetByName(ctx, c.Param("name"))
	if err != nil {
		return response.Fail(l, "get_permission_error", err)
	}
	return response.OK(c, "", res)
}

func (h *PermissionHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "permission.update")

	var req transport.PermissionUpdateRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "update_permission_error", err)
	}
	res, err := h.Svc.Update(ctx, c.Param("name"), req)
	if err != nil {
		return response.Fail(l, "update_permission_error", err)
	}
	return response.OK(c, "", res)
}

func (h *PermissionHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "permission.delete")

	name := c.Param("name")
	if err := h.Svc.Delete(ctx, name); err != nil {
		return response.Fail(l, "delete_permission_error", err)
	}
	l.Info("delete_permission_success", "permission", name)
	return response.OK(c, "permission deleted", nil)
}
