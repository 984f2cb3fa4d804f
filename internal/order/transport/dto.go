package transport

import (
	"time"

	"github.com/techadict/shop/internal/models"
)

type ShippingInfo struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Detail   string `json:"detail"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

type OrderItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// OrderRequest places an order. AddressID wins over ShippingInfo; one of
// them is required.
type OrderRequest struct {
	UserID        string             `json:"user_id"`
	AddressID     string             `json:"address_id"`
	ShippingInfo  *ShippingInfo      `json:"shipping_info"`
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
}

type OrderItemResponse struct {
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Subtotal    int64  `json:"subtotal"`
}

type PaymentResponse struct {
	ID            string               `json:"id"`
	Amount        int64                `json:"amount"`
	Method        models.PaymentMethod `json:"method"`
	Status        models.PaymentStatus `json:"status"`
	TransactionID string               `json:"transaction_id"`
	PaymentDate   time.Time            `json:"payment_date"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	TotalAmount int64               `json:"total_amount"`
	Status      models.OrderStatus  `json:"status"`
	UserID      string              `json:"user_id"`
	AddressID   string              `json:"address_id"`
	Items       []OrderItemResponse `json:"items"`
	Payment     *PaymentResponse    `json:"payment"`
	CreatedAt   time.Time           `json:"created_at"`
}

func ToOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			VariantID:   it.VariantID,
			VariantName: it.VariantName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Subtotal,
		})
	}
	resp := OrderResponse{
		ID:          o.ID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		UserID:      o.UserID,
		AddressID:   o.AddressID,
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
	if p := o.Payment; p != nil {
		resp.Payment = &PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount,
			Method:        p.Method,
			Status:        p.Status,
			TransactionID: p.TransactionID,
			PaymentDate:   p.PaymentDate,
		}
	}
	return resp
}
