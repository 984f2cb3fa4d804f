package httpserver

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/techadict/shop/internal/order/service"
	"github.com/techadict/shop/internal/order/transport"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/logging"
	authmw "github.com/techadict/shop/pkg/middleware/auth"
	"github.com/techadict/shop/pkg/response"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// Create places the order for the token owner. Admins may name another
// user in the body.
func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.OrderRequest
	if err := response.Bind(c, &req); err != nil {
		return response.Fail(l, "create_order_error", err)
	}

	userID := authmw.UserID(c)
	if req.UserID != "" && req.UserID != userID {
		if !authmw.IsAdmin(c) {
			return response.Fail(l, "create_order_error", fmt.Errorf("%w: cannot place an order for another user", apperr.ErrForbidden))
		}
		userID = req.UserID
	}

	res, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return response.Fail(l, "create_order_error", err)
	}
	l.Info("create_order_success", "order_id", res.ID, "total", res.TotalAmount)
	return response.Created(c, "", res)
}

func (h *OrderHTTP) GetAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_all")

	res, err := h.Svc.GetAll(ctx)
	if err != nil {
		return response.Fail(l, "get_orders_error", err)
	}
	return response.OK(c, "", res)
}

func (h *OrderHTTP) GetByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_by_user")

	res, err := h.Svc.GetByUser(ctx, c.Param("userId"))
	if err != nil {
		return response.Fail(l, "get_user_orders_error", err)
	}
	return response.OK(c, "", res)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	res, err := h.Svc.GetByID(ctx, c.Param("id"))
	if err != nil {
		return response.Fail(l, "get_order_error", err)
	}
	if !authmw.CanAccess(c, res.UserID) {
		return response.Fail(l, "get_order_error", fmt.Errorf("%w: you don't have enough rights", apperr.ErrForbidden))
	}
	return response.OK(c, "", res)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	res, err := h.Svc.UpdateStatus(ctx, c.Param("id"), c.QueryParam("status"))
	if err != nil {
		return response.Fail(l, "update_order_status_error", err)
	}
	l.Info("update_order_status_success", "order_id", res.ID, "status", res.Status)
	return response.OK(c, "", res)
}

func (h *OrderHTTP) UpdatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_payment")

	res, err := h.Svc.UpdatePayment(ctx, c.Param("id"), c.QueryParam("status"), c.QueryParam("transaction_id"))
	if err != nil {
		return response.Fail(l, "update_payment_error", err)
	}
	return response.OK(c, "", res)
}

func (h *OrderHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	res, err := h.Svc.Cancel(ctx, c.Param("id"), authmw.UserID(c))
	if err != nil {
		return response.Fail(l, "cancel_order_error", err)
	}
	l.Info("cancel_order_success", "order_id", res.ID)
	return response.OK(c, "order canceled", res)
}
