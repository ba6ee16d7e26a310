package orders

import (
	"context"
	"fmt"
	"time"

	"brewhouse/apperr"
	"brewhouse/models"
)

// MarkPaid confirms payment on an order. paidAt is stamped at most once;
// repeat calls leave the original timestamp untouched.
func (s *Service) MarkPaid(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	old := o.PaymentStatus
	o.PaymentStatus = models.PaymentPaid
	if o.PaidAt == nil {
		now := time.Now()
		o.PaidAt = &now
	}
	if err := s.store.Update(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Order update failed", err)
	}

	s.audit.Log(models.ActivityOrderUpdate,
		fmt.Sprintf("Order %s paymentStatus %s -> %s", o.OrderID, old, o.PaymentStatus),
		map[string]any{"orderId": o.OrderID, "oldStatus": string(old), "newStatus": string(o.PaymentStatus)})
	return o, nil
}

// MarkDelivered stamps deliveredAt, once.
func (s *Service) MarkDelivered(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.DeliveredAt == nil {
		now := time.Now()
		o.DeliveredAt = &now
	}
	if err := s.store.Update(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Order update failed", err)
	}

	s.audit.Log(models.ActivityOrderUpdate,
		fmt.Sprintf("Order %s delivered", o.OrderID),
		map[string]any{"orderId": o.OrderID})
	return o, nil
}

// SetOrderStatus writes any valid status from any prior value. Membership
// is validated; there is no transition graph.
func (s *Service) SetOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.New(apperr.Validation, "Invalid order status")
	}

	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	old := o.OrderStatus
	o.OrderStatus = status
	if err := s.store.Update(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Order update failed", err)
	}

	s.audit.Log(models.ActivityOrderStatusChange,
		fmt.Sprintf("Order %s status %s -> %s", o.OrderID, old, status),
		map[string]any{"orderId": o.OrderID, "oldStatus": string(old), "newStatus": string(status)})
	return o, nil
}

// SetPaymentStatus writes any valid payment status. Transitioning to paid
// stamps paidAt if it is not set yet.
func (s *Service) SetPaymentStatus(ctx context.Context, orderID string, status models.PaymentStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, apperr.New(apperr.Validation, "Invalid payment status")
	}

	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	old := o.PaymentStatus
	o.PaymentStatus = status
	if status == models.PaymentPaid && o.PaidAt == nil {
		now := time.Now()
		o.PaidAt = &now
	}
	if err := s.store.Update(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Order update failed", err)
	}

	s.audit.Log(models.ActivityOrderStatusChange,
		fmt.Sprintf("Order %s paymentStatus %s -> %s", o.OrderID, old, status),
		map[string]any{"orderId": o.OrderID, "oldStatus": string(old), "newStatus": string(status)})
	return o, nil
}

// Delete removes an order outright. Admin only; the sole physical delete.
func (s *Service) Delete(ctx context.Context, orderID string) error {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, orderID); err != nil {
		return apperr.Wrap(apperr.Persistence, "Order deletion failed", err)
	}

	s.audit.Log(models.ActivityOrderUpdate,
		fmt.Sprintf("Order %s deleted", o.OrderID),
		map[string]any{"orderId": o.OrderID})
	return nil
}
