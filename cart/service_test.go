package cart

import (
	"context"
	"testing"

	"brewhouse/apperr"
	"brewhouse/models"
)

type fakeStore struct {
	carts map[string]*models.Cart
}

func newFakeStore() *fakeStore {
	return &fakeStore{carts: make(map[string]*models.Cart)}
}

func (f *fakeStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}

func (f *fakeStore) Upsert(_ context.Context, c *models.Cart) error {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	f.carts[c.UserID] = &cp
	return nil
}

func (f *fakeStore) Delete(_ context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

type fakeCatalog struct {
	prices map[string]float64
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	price, ok := f.prices[id]
	if !ok {
		return nil, nil
	}
	return &models.Product{ProductID: id, Name: "product " + id, Price: price}, nil
}

func newService(prices map[string]float64) (*Service, *fakeStore, *fakeCatalog) {
	store := newFakeStore()
	cat := &fakeCatalog{prices: prices}
	return NewService(store, cat), store, cat
}

func checkInvariant(t *testing.T, c *models.Cart) {
	t.Helper()
	want := 0.0
	for _, it := range c.Items {
		want += float64(it.Quantity) * it.UnitPrice
	}
	if c.TotalPrice != want {
		t.Fatalf("totalPrice %v, want %v", c.TotalPrice, want)
	}
}

func TestAddItemComputesTotal(t *testing.T) {
	svc, _, _ := newService(map[string]float64{"a": 100, "b": 50})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "a", 2); err != nil {
		t.Fatalf("AddItem a: %v", err)
	}
	c, err := svc.AddItem(ctx, "u1", "b", 1)
	if err != nil {
		t.Fatalf("AddItem b: %v", err)
	}

	if c.TotalPrice != 250 {
		t.Fatalf("totalPrice %v, want 250", c.TotalPrice)
	}
	checkInvariant(t, c)
}

func TestAddItemMergesExistingLine(t *testing.T) {
	svc, _, cat := newService(map[string]float64{"a": 100})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "a", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// a later catalog price change must not touch the captured unit price
	cat.prices["a"] = 175
	c, err := svc.AddItem(ctx, "u1", "a", 2)
	if err != nil {
		t.Fatalf("AddItem again: %v", err)
	}

	if len(c.Items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Fatalf("quantity %d, want 3", c.Items[0].Quantity)
	}
	if c.Items[0].UnitPrice != 100 {
		t.Fatalf("unitPrice %v, want captured 100", c.Items[0].UnitPrice)
	}
	checkInvariant(t, c)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, store, _ := newService(map[string]float64{})
	_, err := svc.AddItem(context.Background(), "u1", "ghost", 1)
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if len(store.carts) != 0 {
		t.Fatal("no cart should be created for a failed add")
	}
}

func TestGetCartMissingIsEmptyNotError(t *testing.T) {
	svc, _, _ := newService(nil)
	c, err := svc.GetCart(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if c.Items == nil || len(c.Items) != 0 {
		t.Fatalf("expected empty items slice, got %#v", c.Items)
	}
}

func TestUpdateQuantityRecomputes(t *testing.T) {
	svc, _, _ := newService(map[string]float64{"a": 100})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "a", 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	c, err := svc.UpdateQuantity(ctx, "u1", "a", 5)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if c.TotalPrice != 500 {
		t.Fatalf("totalPrice %v, want 500", c.TotalPrice)
	}
	checkInvariant(t, c)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	svc, _, _ := newService(map[string]float64{"a": 100})
	ctx := context.Background()

	if _, err := svc.UpdateQuantity(ctx, "u1", "a", 2); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not_found for missing cart, got %v", err)
	}

	if _, err := svc.AddItem(ctx, "u1", "a", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "u1", "b", 2); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected not_found for missing line, got %v", err)
	}
}

func TestRemoveItemRecomputes(t *testing.T) {
	svc, _, _ := newService(map[string]float64{"a": 100, "b": 50})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "a", 2); err != nil {
		t.Fatalf("AddItem a: %v", err)
	}
	if _, err := svc.AddItem(ctx, "u1", "b", 1); err != nil {
		t.Fatalf("AddItem b: %v", err)
	}

	c, err := svc.RemoveItem(ctx, "u1", "a")
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].ProductID != "b" {
		t.Fatalf("unexpected items %#v", c.Items)
	}
	if c.TotalPrice != 50 {
		t.Fatalf("totalPrice %v, want 50", c.TotalPrice)
	}
	checkInvariant(t, c)
}

func TestClearDeletesCart(t *testing.T) {
	svc, store, _ := newService(map[string]float64{"a": 100})
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "u1", "a", 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok := store.carts["u1"]; ok {
		t.Fatal("cart document should be gone after clear")
	}
}
