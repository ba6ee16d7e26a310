package orders

import (
	"context"
	"errors"
	"testing"

	"brewhouse/apperr"
	"brewhouse/models"
	"brewhouse/payments"
)

type fakeOrderStore struct {
	orders map[string]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (f *fakeOrderStore) Insert(_ context.Context, o *models.Order) error {
	cp := *o
	f.orders[o.OrderID] = &cp
	return nil
}

func (f *fakeOrderStore) Get(_ context.Context, id string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var list []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			list = append(list, *o)
		}
	}
	return list, nil
}

func (f *fakeOrderStore) ListAll(_ context.Context) ([]models.Order, error) {
	var list []models.Order
	for _, o := range f.orders {
		list = append(list, *o)
	}
	return list, nil
}

func (f *fakeOrderStore) Update(_ context.Context, o *models.Order) error {
	cp := *o
	f.orders[o.OrderID] = &cp
	return nil
}

func (f *fakeOrderStore) Delete(_ context.Context, id string) error {
	delete(f.orders, id)
	return nil
}

type fakeCartStore struct {
	carts map[string]*models.Cart
}

func (f *fakeCartStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (f *fakeCartStore) Upsert(_ context.Context, c *models.Cart) error {
	f.carts[c.UserID] = c
	return nil
}

func (f *fakeCartStore) Delete(_ context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

type fakeGateway struct {
	intent *payments.Intent
	err    error
	calls  int
}

func (f *fakeGateway) CreateIntent(_ context.Context, amountMinor int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

type recordingAuditor struct {
	entries []string
}

func (r *recordingAuditor) Log(activityType, _ string, _ map[string]any) {
	r.entries = append(r.entries, activityType)
}

func okRenderQR(float64) (string, error) { return "data:image/png;base64,Zm9v", nil }

func testCart(userID string) *models.Cart {
	c := &models.Cart{
		UserID: userID,
		Items: []models.CartItem{
			{ProductID: "a", Quantity: 2, UnitPrice: 100},
			{ProductID: "b", Quantity: 1, UnitPrice: 50},
		},
	}
	c.Recalculate()
	return c
}

func newTestService(gw *fakeGateway, carts *fakeCartStore) (*Service, *fakeOrderStore, *recordingAuditor) {
	store := newFakeOrderStore()
	audit := &recordingAuditor{}
	svc := NewService(store, carts, gw, okRenderQR, "thb", audit)
	return svc, store, audit
}

func TestCheckoutEmptyCart(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{}}
	svc, store, _ := newTestService(&fakeGateway{}, carts)

	_, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Message != "Cart is empty" {
		t.Fatalf("expected 'Cart is empty', got %v", err)
	}
	if len(store.orders) != 0 {
		t.Fatal("no order row may be created for an empty cart")
	}
}

func TestCheckoutCash(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, store, audit := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{City: "Bangkok"})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	o := res.Order
	if o.PaymentStatus != models.PaymentPending || o.OrderStatus != models.OrderPending {
		t.Fatalf("expected pending/pending, got %s/%s", o.PaymentStatus, o.OrderStatus)
	}
	if o.TotalAmount != 250 {
		t.Fatalf("totalAmount %v, want 250", o.TotalAmount)
	}
	if res.ClientSecret != "" || res.QRCode != "" {
		t.Fatal("cash checkout must not carry clientSecret or qrCode")
	}
	if _, ok := carts.carts["u1"]; ok {
		t.Fatal("cart must be consumed after successful checkout")
	}
	if len(store.orders) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(store.orders))
	}
	if len(audit.entries) == 0 || audit.entries[0] != models.ActivityNewOrder {
		t.Fatalf("expected NEW_ORDER activity, got %v", audit.entries)
	}
}

func TestCheckoutCard(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	gw := &fakeGateway{intent: &payments.Intent{ID: "pi_123", ClientSecret: "pi_123_secret"}}
	svc, store, _ := newTestService(gw, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCard, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if res.ClientSecret != "pi_123_secret" {
		t.Fatalf("clientSecret %q", res.ClientSecret)
	}
	stored := store.orders[res.Order.OrderID]
	if stored.TransactionID != "pi_123" {
		t.Fatalf("transactionId %q, want pi_123", stored.TransactionID)
	}
	if stored.PaymentStatus != models.PaymentPending {
		t.Fatalf("card order stays pending until confirmed, got %s", stored.PaymentStatus)
	}
	if _, ok := carts.carts["u1"]; ok {
		t.Fatal("cart must be consumed after successful dispatch")
	}
}

func TestCheckoutCardGatewayFailure(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	gw := &fakeGateway{err: errors.New("connection refused")}
	svc, store, _ := newTestService(gw, carts)

	_, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCard, models.ShippingAddress{})
	if !apperr.IsKind(err, apperr.Gateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	// order exists but is flagged; the cart survives for a retry
	if len(store.orders) != 1 {
		t.Fatalf("expected the dangling order to be persisted, got %d", len(store.orders))
	}
	for _, o := range store.orders {
		if o.PaymentStatus != models.PaymentFailed {
			t.Fatalf("dangling order should be marked failed, got %s", o.PaymentStatus)
		}
	}
	if _, ok := carts.carts["u1"]; !ok {
		t.Fatal("cart must be kept when dispatch fails")
	}
}

func TestCheckoutQRTransfer(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, _, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentQRTransfer, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if res.QRCode == "" {
		t.Fatal("qr_transfer checkout must return a QR code")
	}
	if res.Order.PaymentStatus != models.PaymentPending {
		t.Fatalf("qr order stays pending, got %s", res.Order.PaymentStatus)
	}
}

func TestCheckoutQRRenderFailure(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	store := newFakeOrderStore()
	svc := NewService(store, carts, &fakeGateway{}, func(float64) (string, error) {
		return "", errors.New("render blew up")
	}, "thb", &recordingAuditor{})

	_, err := svc.CreateOrder(context.Background(), "u1", models.PaymentQRTransfer, models.ShippingAddress{})
	if !apperr.IsKind(err, apperr.Gateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if _, ok := carts.carts["u1"]; !ok {
		t.Fatal("cart must be kept when QR render fails")
	}
}

func TestTotalAmountFrozenAtCreation(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, store, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// the order snapshots cart prices; nothing re-reads the catalog
	got, err := svc.Get(context.Background(), res.Order.OrderID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TotalAmount != 250 {
		t.Fatalf("totalAmount %v, want 250", got.TotalAmount)
	}
	if len(store.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(store.orders))
	}
}

func TestMarkPaidStampsOnce(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, _, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	first, err := svc.MarkPaid(context.Background(), res.Order.OrderID)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if first.PaymentStatus != models.PaymentPaid || first.PaidAt == nil {
		t.Fatalf("expected paid with paidAt, got %s %v", first.PaymentStatus, first.PaidAt)
	}

	second, err := svc.MarkPaid(context.Background(), res.Order.OrderID)
	if err != nil {
		t.Fatalf("MarkPaid again: %v", err)
	}
	if !second.PaidAt.Equal(*first.PaidAt) {
		t.Fatalf("paidAt must not move on repeat calls: %v vs %v", first.PaidAt, second.PaidAt)
	}
}

func TestMarkPaidUnknownOrder(t *testing.T) {
	svc, _, _ := newTestService(&fakeGateway{}, &fakeCartStore{carts: map[string]*models.Cart{}})
	if _, err := svc.MarkPaid(context.Background(), "missing"); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestStatusTransitionsAreUnguarded(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, _, audit := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	id := res.Order.OrderID

	if _, err := svc.SetOrderStatus(context.Background(), id, models.OrderCompleted); err != nil {
		t.Fatalf("pending -> completed should succeed: %v", err)
	}
	o, err := svc.SetOrderStatus(context.Background(), id, models.OrderCancelled)
	if err != nil {
		t.Fatalf("completed -> cancelled should succeed: %v", err)
	}
	if o.OrderStatus != models.OrderCancelled {
		t.Fatalf("orderStatus %s, want cancelled", o.OrderStatus)
	}

	statusChanges := 0
	for _, e := range audit.entries {
		if e == models.ActivityOrderStatusChange {
			statusChanges++
		}
	}
	if statusChanges != 2 {
		t.Fatalf("expected 2 status-change activities, got %d", statusChanges)
	}
}

func TestSetOrderStatusRejectsUnknownValue(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, _, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if _, err := svc.SetOrderStatus(context.Background(), res.Order.OrderID, "shipped-to-mars"); !apperr.IsKind(err, apperr.Validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetPaymentStatusPaidStampsPaidAt(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, _, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	o, err := svc.SetPaymentStatus(context.Background(), res.Order.OrderID, models.PaymentPaid)
	if err != nil {
		t.Fatalf("SetPaymentStatus: %v", err)
	}
	if o.PaidAt == nil {
		t.Fatal("paidAt should be stamped when payment becomes paid")
	}
}

func TestMarkDeliveredStampsOnce(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, _, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	first, err := svc.MarkDelivered(context.Background(), res.Order.OrderID)
	if err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	second, err := svc.MarkDelivered(context.Background(), res.Order.OrderID)
	if err != nil {
		t.Fatalf("MarkDelivered again: %v", err)
	}
	if !second.DeliveredAt.Equal(*first.DeliveredAt) {
		t.Fatal("deliveredAt must not move on repeat calls")
	}
}

func TestDeleteOrder(t *testing.T) {
	carts := &fakeCartStore{carts: map[string]*models.Cart{"u1": testCart("u1")}}
	svc, store, _ := newTestService(&fakeGateway{}, carts)

	res, err := svc.CreateOrder(context.Background(), "u1", models.PaymentCash, models.ShippingAddress{})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if err := svc.Delete(context.Background(), res.Order.OrderID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.orders) != 0 {
		t.Fatal("order should be gone after delete")
	}
	if err := svc.Delete(context.Background(), res.Order.OrderID); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not_found on second delete, got %v", err)
	}
}
