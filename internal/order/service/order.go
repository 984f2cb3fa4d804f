package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/internal/order/repo"
	"github.com/techadict/shop/internal/order/transport"
	"github.com/techadict/shop/pkg/apperr"
	"github.com/techadict/shop/pkg/cache"
	"github.com/techadict/shop/pkg/events"
	"github.com/techadict/shop/pkg/idgen"
	"github.com/techadict/shop/pkg/logging"
	"github.com/techadict/shop/pkg/metrics"
)

type OrderService struct {
	Repo *repo.GormRepo
	// Cache holds catalog responses that show stock; optional.
	Cache   *cache.Cache
	Events  events.Publisher
	Topic   string
	Metrics *metrics.Metrics
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func orderNotFound(err error, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order not found: %s", apperr.ErrNotFound, id)
	}
	return err
}

func validateItems(items []transport.OrderItemRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one item is required", apperr.ErrValidation)
	}
	for _, it := range items {
		if strings.TrimSpace(it.VariantID) == "" {
			return fmt.Errorf("%w: variant_id is required", apperr.ErrValidation)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be greater than 0", apperr.ErrValidation)
		}
	}
	return nil
}

// Create places an order for userID. Address resolution, stock decrements and
// the order rows are written in one transaction.
func (s *OrderService) Create(ctx context.Context, userID string, req transport.OrderRequest) (*transport.OrderResponse, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}
	method := models.PaymentCOD
	if req.PaymentMethod != "" {
		m, err := models.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid payment method: %s", apperr.ErrValidation, req.PaymentMethod)
		}
		method = m
	}

	var (
		order   *models.Order
		touched []string
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: user not found: %s", apperr.ErrNotFound, userID)
		}

		addressID, err := s.resolveAddress(ctx, tx, userID, req)
		if err != nil {
			return err
		}

		orderID := idgen.Generate(idgen.Order)
		o := &models.Order{
			ID:        orderID,
			UserID:    userID,
			AddressID: addressID,
			Status:    models.OrderPending,
		}
		variantIDs := make([]string, 0, len(req.Items))
		for _, it := range req.Items {
			v, err := tx.FindVariant(ctx, it.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: variant not found: %s", apperr.ErrNotFound, it.VariantID)
				}
				return err
			}
			taken, err := tx.DecrementStock(ctx, v.ID, it.Quantity)
			if err != nil {
				return err
			}
			if !taken {
				return fmt.Errorf("%w: not enough stock for product: %s", apperr.ErrStock, v.Name)
			}

			subtotal := v.Price * int64(it.Quantity)
			o.TotalAmount += subtotal
			o.Items = append(o.Items, models.OrderItem{
				ID:          idgen.Generate(idgen.OrderItem),
				OrderID:     orderID,
				VariantID:   v.ID,
				VariantName: v.Name,
				Quantity:    it.Quantity,
				Price:       v.Price,
				Subtotal:    subtotal,
			})
			variantIDs = append(variantIDs, v.ID)
		}

		touched, err = s.recompute(ctx, tx, variantIDs)
		if err != nil {
			return err
		}

		o.Payment = &models.Payment{
			ID:          idgen.Generate(idgen.Payment),
			OrderID:     orderID,
			Amount:      o.TotalAmount,
			Method:      method,
			Status:      models.PaymentPending,
			PaymentDate: s.now(),
		}
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrStock) {
			s.Metrics.StockRejection()
		}
		return nil, err
	}
	s.Cache.InvalidateProducts(ctx, touched...)

	stored, err := s.Repo.FindOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	s.Metrics.OrderCreated()
	logging.FromContext(ctx).Info("order_created", "order_id", stored.ID, "user_id", userID, "total", stored.TotalAmount)
	events.Emit(ctx, s.Events, s.Topic, stored.ID, map[string]any{
		"type":    "order_created",
		"orderID": stored.ID,
		"userID":  userID,
		"total":   stored.TotalAmount,
		"items":   len(stored.Items),
	})

	resp := transport.ToOrderResponse(stored)
	return &resp, nil
}

func (s *OrderService) resolveAddress(ctx context.Context, tx *repo.GormRepo, userID string, req transport.OrderRequest) (string, error) {
	if id := strings.TrimSpace(req.AddressID); id != "" {
		a, err := tx.FindAddress(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", fmt.Errorf("%w: address not found: %s", apperr.ErrNotFound, id)
			}
			return "", err
		}
		if a.UserID != userID {
			return "", fmt.Errorf("%w: address belongs to another user", apperr.ErrForbidden)
		}
		return a.ID, nil
	}

	info := req.ShippingInfo
	if info == nil {
		return "", fmt.Errorf("%w: address information required", apperr.ErrValidation)
	}
	a := &models.Address{
		ID:        idgen.Generate(idgen.Address),
		UserID:    userID,
		FullName:  info.FullName,
		Phone:     info.Phone,
		Detail:    info.Detail,
		Ward:      info.Ward,
		District:  info.District,
		City:      info.City,
		IsDefault: false,
	}
	if err := tx.CreateAddress(ctx, a); err != nil {
		return "", err
	}
	return a.ID, nil
}

// recompute refreshes the aggregate quantity of the products owning
// variantIDs and returns their ids.
func (s *OrderService) recompute(ctx context.Context, tx *repo.GormRepo, variantIDs []string) ([]string, error) {
	productIDs, err := tx.ProductIDsOfVariants(ctx, variantIDs)
	if err != nil {
		return nil, err
	}
	return productIDs, tx.RecomputeQuantity(ctx, productIDs...)
}

func (s *OrderService) GetByID(ctx context.Context, id string) (*transport.OrderResponse, error) {
	o, err := s.Repo.FindOrder(ctx, id)
	if err != nil {
		return nil, orderNotFound(err, id)
	}
	resp := transport.ToOrderResponse(o)
	return &resp, nil
}

func toResponses(orders []models.Order) []transport.OrderResponse {
	out := make([]transport.OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, transport.ToOrderResponse(&orders[i]))
	}
	return out
}

func (s *OrderService) GetAll(ctx context.Context) ([]transport.OrderResponse, error) {
	orders, err := s.Repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(orders), nil
}

func (s *OrderService) GetByUser(ctx context.Context, userID string) ([]transport.OrderResponse, error) {
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(orders), nil
}

// UpdateStatus sets any known status; transitions are not restricted.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*transport.OrderResponse, error) {
	o, err := s.Repo.FindOrder(ctx, id)
	if err != nil {
		return nil, orderNotFound(err, id)
	}
	st, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid order status: %s", apperr.ErrValidation, status)
	}
	if err := s.Repo.UpdateOrderStatus(ctx, id, st); err != nil {
		return nil, err
	}
	o.Status = st

	events.Emit(ctx, s.Events, s.Topic, id, map[string]any{
		"type":    "order_status_changed",
		"orderID": id,
		"status":  string(st),
	})
	resp := transport.ToOrderResponse(o)
	return &resp, nil
}

// UpdatePayment records a payment outcome. Orders without a payment are left
// as they are.
func (s *OrderService) UpdatePayment(ctx context.Context, id, status, transactionID string) (*transport.OrderResponse, error) {
	o, err := s.Repo.FindOrder(ctx, id)
	if err != nil {
		return nil, orderNotFound(err, id)
	}
	if o.Payment == nil {
		resp := transport.ToOrderResponse(o)
		return &resp, nil
	}

	st, err := models.ParsePaymentStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid payment status: %s", apperr.ErrValidation, status)
	}
	fields := map[string]any{"status": st}
	if transactionID != "" {
		fields["transaction_id"] = transactionID
		o.Payment.TransactionID = transactionID
	}
	if err := s.Repo.UpdatePayment(ctx, o.Payment.ID, fields); err != nil {
		return nil, err
	}
	o.Payment.Status = st

	events.Emit(ctx, s.Events, s.Topic, id, map[string]any{
		"type":          "order_payment_updated",
		"orderID":       id,
		"paymentStatus": string(st),
	})
	resp := transport.ToOrderResponse(o)
	return &resp, nil
}

// Cancel lets the owner withdraw a pending order. Stock goes back to the
// variants and the payment is marked failed, all in one transaction.
func (s *OrderService) Cancel(ctx context.Context, id, requesterID string) (*transport.OrderResponse, error) {
	if strings.TrimSpace(requesterID) == "" {
		return nil, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	var touched []string
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.LockOrder(ctx, id)
		if err != nil {
			return orderNotFound(err, id)
		}
		if o.UserID != requesterID {
			return fmt.Errorf("%w: not allowed to cancel this order", apperr.ErrForbidden)
		}
		if o.Status != models.OrderPending {
			return fmt.Errorf("%w: cannot cancel order in status %s", apperr.ErrState, o.Status)
		}
		if p := o.Payment; p != nil && p.Method == models.PaymentBank && p.Status == models.PaymentSuccess {
			return fmt.Errorf("%w: order already paid by bank transfer", apperr.ErrState)
		}

		variantIDs := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			if err := tx.IncrementStock(ctx, it.VariantID, it.Quantity); err != nil {
				return err
			}
			variantIDs = append(variantIDs, it.VariantID)
		}
		touched, err = s.recompute(ctx, tx, variantIDs)
		if err != nil {
			return err
		}

		if err := tx.UpdateOrderStatus(ctx, id, models.OrderCanceled); err != nil {
			return err
		}
		if o.Payment != nil {
			return tx.UpdatePayment(ctx, o.Payment.ID, map[string]any{"status": models.PaymentFailed})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Cache.InvalidateProducts(ctx, touched...)

	s.Metrics.OrderCanceled()
	events.Emit(ctx, s.Events, s.Topic, id, map[string]any{
		"type":    "order_canceled",
		"orderID": id,
		"userID":  requesterID,
	})
	return s.GetByID(ctx, id)
}
