package cart

import (
	"context"
	"time"

	"brewhouse/apperr"
	"brewhouse/catalog"
	"brewhouse/models"
)

// Store owns the one-cart-per-user documents. Get returns (nil, nil) when
// the user has no cart; an absent cart is a state, not an error.
type Store interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Upsert(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

// Service implements the cart operations against a Store and the catalog.
type Service struct {
	store   Store
	catalog catalog.Reader
}

func NewService(store Store, reader catalog.Reader) *Service {
	return &Service{store: store, catalog: reader}
}

// AddItem looks the product up, finds or creates the user's cart, merges
// the line and recomputes the total. The catalog price is captured as the
// line's unit price only when the line is first added.
func (s *Service) AddItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, apperr.New(apperr.Validation, "Quantity must be at least 1")
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}

	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load cart", err)
	}
	if c == nil {
		c = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	found := false
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		c.Items = append(c.Items, models.CartItem{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: product.Price,
		})
	}

	c.Recalculate()
	c.UpdatedAt = time.Now()
	if err := s.store.Upsert(ctx, c); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to save cart", err)
	}
	return c, nil
}

// GetCart never 404s: a missing cart comes back as an empty one.
func (s *Service) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load cart", err)
	}
	if c == nil {
		return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, apperr.New(apperr.Validation, "Quantity must be at least 1")
	}

	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load cart", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			c.Recalculate()
			c.UpdatedAt = time.Now()
			if err := s.store.Upsert(ctx, c); err != nil {
				return nil, apperr.Wrap(apperr.Persistence, "Failed to save cart", err)
			}
			return c, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "Product not in cart")
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	c, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load cart", err)
	}
	if c == nil {
		return nil, apperr.New(apperr.NotFound, "Cart not found")
	}

	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept

	c.Recalculate()
	c.UpdatedAt = time.Now()
	if err := s.store.Upsert(ctx, c); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to save cart", err)
	}
	return c, nil
}

// Clear drops the whole cart document.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID); err != nil {
		return apperr.Wrap(apperr.Persistence, "Failed to clear cart", err)
	}
	return nil
}
