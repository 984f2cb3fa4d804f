package models

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderPaid       OrderStatus = "PAID"
	OrderPreparing  OrderStatus = "PREPARING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivering OrderStatus = "DELIVERING"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCanceled   OrderStatus = "CANCELED"
)

var orderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPaid, OrderPreparing,
	OrderShipped, OrderDelivering, OrderDelivered, OrderCanceled,
}

// ParseOrderStatus accepts any letter case.
func ParseOrderStatus(s string) (OrderStatus, error) {
	up := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range orderStatuses {
		if st == up {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

type PaymentMethod string

const (
	PaymentCOD   PaymentMethod = "COD"
	PaymentBank  PaymentMethod = "BANK"
	PaymentMomo  PaymentMethod = "MOMO"
	PaymentVNPay PaymentMethod = "VNPAY"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentCOD, PaymentBank, PaymentMomo, PaymentVNPay:
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PaymentPending, PaymentSuccess, PaymentFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown payment status %q", s)
}
