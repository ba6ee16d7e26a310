package reports

import (
	"context"
	"sort"
	"time"

	"brewhouse/apperr"
	"brewhouse/catalog"
	"brewhouse/models"
)

// OrderSource yields confirmed revenue orders: paymentStatus paid and
// orderStatus not cancelled, optionally created at or after since.
type OrderSource interface {
	FindConfirmed(ctx context.Context, since *time.Time) ([]models.Order, error)
}

// Service computes rollups on read. Nothing is cached or pre-materialized;
// every call re-scans the matching order set.
type Service struct {
	orders   OrderSource
	products catalog.Reader
}

func NewService(orders OrderSource, products catalog.Reader) *Service {
	return &Service{orders: orders, products: products}
}

type Window struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type SalesReport struct {
	Today       float64 `json:"today"`
	ThisWeek    float64 `json:"thisWeek"`
	ThisMonth   float64 `json:"thisMonth"`
	TodayOrders int     `json:"todayOrders"`
	WeekOrders  int     `json:"weekOrders"`
	MonthOrders int     `json:"monthOrders"`
}

type TopProduct struct {
	ProductID     string  `json:"productId"`
	Name          string  `json:"name"`
	Image         string  `json:"image,omitempty"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// windowStarts computes the local wall-clock boundaries at query time:
// midnight, start of week (Sunday) and first of month.
func windowStarts(now time.Time) (today, week, month time.Time) {
	today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week = today.AddDate(0, 0, -int(today.Weekday()))
	month = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return
}

func (s *Service) window(ctx context.Context, since time.Time) (Window, error) {
	orders, err := s.orders.FindConfirmed(ctx, &since)
	if err != nil {
		return Window{}, apperr.Wrap(apperr.Persistence, "Failed to load orders", err)
	}
	var w Window
	for _, o := range orders {
		w.Total += o.TotalAmount
		w.Count++
	}
	return w, nil
}

// Sales rolls revenue up for today / this week / this month.
func (s *Service) Sales(ctx context.Context, now time.Time) (*SalesReport, error) {
	todayStart, weekStart, monthStart := windowStarts(now)

	today, err := s.window(ctx, todayStart)
	if err != nil {
		return nil, err
	}
	week, err := s.window(ctx, weekStart)
	if err != nil {
		return nil, err
	}
	month, err := s.window(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		Today:       today.Total,
		ThisWeek:    week.Total,
		ThisMonth:   month.Total,
		TodayOrders: today.Count,
		WeekOrders:  week.Count,
		MonthOrders: month.Count,
	}, nil
}

// TopProducts flattens all confirmed order lines, groups per product,
// ranks by quantity and joins the catalog for display fields. Products
// that no longer exist in the catalog are dropped from the ranking.
func (s *Service) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	orders, err := s.orders.FindConfirmed(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "Failed to load orders", err)
	}

	type agg struct {
		quantity int
		amount   float64
	}
	byProduct := make(map[string]*agg)
	for _, o := range orders {
		for _, it := range o.Items {
			a := byProduct[it.ProductID]
			if a == nil {
				a = &agg{}
				byProduct[it.ProductID] = a
			}
			a.quantity += it.Quantity
			a.amount += float64(it.Quantity) * it.UnitPrice
		}
	}

	ranked := make([]TopProduct, 0, len(byProduct))
	for id, a := range byProduct {
		ranked = append(ranked, TopProduct{
			ProductID:     id,
			TotalQuantity: a.quantity,
			TotalAmount:   a.amount,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalQuantity != ranked[j].TotalQuantity {
			return ranked[i].TotalQuantity > ranked[j].TotalQuantity
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	joined := ranked[:0]
	for _, tp := range ranked {
		p, err := s.products.GetProduct(ctx, tp.ProductID)
		if err != nil {
			return nil, apperr.Wrap(apperr.Persistence, "Failed to load product", err)
		}
		if p == nil {
			continue
		}
		tp.Name = p.Name
		if len(p.Images) > 0 {
			tp.Image = p.Images[0]
		}
		joined = append(joined, tp)
	}
	return joined, nil
}
