package orders

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"brewhouse/apperr"
	"brewhouse/cart"
	"brewhouse/models"
	"brewhouse/payments"
	"brewhouse/utils"
)

// Store owns the order documents.
type Store interface {
	Insert(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, orderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
	Delete(ctx context.Context, orderID string) error
}

// Auditor is the best-effort activity sink; satisfied by activity.Logger.
type Auditor interface {
	Log(activityType, message string, data map[string]any)
}

// QRRenderer turns an order amount into a displayable scan-to-pay image.
type QRRenderer func(amount float64) (string, error)

// Service converts carts into orders, routes payment dispatch and drives
// the two status lifecycles.
type Service struct {
	store    Store
	carts    cart.Store
	gateway  payments.Gateway
	renderQR QRRenderer
	currency string
	audit    Auditor
}

func NewService(store Store, carts cart.Store, gateway payments.Gateway, renderQR QRRenderer, currency string, audit Auditor) *Service {
	return &Service{
		store:    store,
		carts:    carts,
		gateway:  gateway,
		renderQR: renderQR,
		currency: currency,
		audit:    audit,
	}
}

// CheckoutResult is the method-specific checkout response: clientSecret is
// present only for card, qrCode only for qr_transfer.
type CheckoutResult struct {
	Order        *models.Order `json:"order"`
	ClientSecret string        `json:"clientSecret,omitempty"`
	QRCode       string        `json:"qrCode,omitempty"`
}

// CreateOrder snapshots the user's cart into an immutable order, persists
// it, dispatches payment per method and consumes the cart on success.
// If dispatch fails the order already exists; it is marked paymentStatus
// failed and the cart is left intact for a retry.
func (s *Service) CreateOrder(ctx context.Context, userID string, method models.PaymentMethod, addr models.ShippingAddress) (*CheckoutResult, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load cart", err)
	}
	if c == nil || len(c.Items) == 0 {
		return nil, apperr.New(apperr.Validation, "Cart is empty")
	}

	items := make([]models.OrderItem, 0, len(c.Items))
	total := 0.0
	for _, it := range c.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		total += float64(it.Quantity) * it.UnitPrice
	}

	order := &models.Order{
		OrderID:         utils.NewOrderID(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderPending,
		ShippingAddress: addr,
		CreatedAt:       time.Now(),
	}
	if err := s.store.Insert(ctx, order); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Order creation failed", err)
	}

	result := &CheckoutResult{Order: order}

	switch method {
	case models.PaymentCard:
		intent, err := s.gateway.CreateIntent(ctx,
			int64(math.Round(order.TotalAmount*100)),
			s.currency,
			map[string]string{"order_id": order.OrderID})
		if err != nil {
			s.markDispatchFailed(ctx, order)
			return nil, apperr.Wrap(apperr.Gateway, "Payment processing error", err)
		}
		order.TransactionID = intent.ID
		if err := s.store.Update(ctx, order); err != nil {
			return nil, apperr.Wrap(apperr.Persistence, "Order update failed", err)
		}
		result.ClientSecret = intent.ClientSecret

	case models.PaymentQRTransfer:
		qr, err := s.renderQR(order.TotalAmount)
		if err != nil {
			s.markDispatchFailed(ctx, order)
			return nil, apperr.Wrap(apperr.Gateway, "QR Code generation failed", err)
		}
		result.QRCode = qr

	case models.PaymentCash:
		// nothing to dispatch; confirmed later, e.g. at delivery
	}

	// The cart is consumed only after dispatch succeeded. A failed delete
	// leaves the order standing; it is logged, not surfaced.
	if err := s.carts.Delete(ctx, userID); err != nil {
		log.Println("CreateOrder cart cleanup error:", err)
	}

	s.audit.Log(models.ActivityNewOrder,
		fmt.Sprintf("New order %s via %s", order.OrderID, method),
		map[string]any{"orderId": order.OrderID, "totalAmount": order.TotalAmount})

	return result, nil
}

// markDispatchFailed is the compensating action for a failed payment
// dispatch: the dangling pending order gets flagged instead of lingering
// silently. The cart is deliberately not touched.
func (s *Service) markDispatchFailed(ctx context.Context, order *models.Order) {
	order.PaymentStatus = models.PaymentFailed
	if err := s.store.Update(ctx, order); err != nil {
		log.Println("markDispatchFailed update error:", err)
	}
}

func (s *Service) Get(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load order", err)
	}
	if o == nil {
		return nil, apperr.New(apperr.NotFound, "Order not found")
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]models.Order, error) {
	list, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load orders", err)
	}
	sortNewestFirst(list)
	return list, nil
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	list, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load orders", err)
	}
	sortNewestFirst(list)
	return list, nil
}

func sortNewestFirst(list []models.Order) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
