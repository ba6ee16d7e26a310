package reports

import (
	"context"
	"log"
	"net/http"
	"time"

	"brewhouse/apperr"
	"brewhouse/db"
	"brewhouse/models"
	"brewhouse/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const lowStockThreshold = 10

type Handler struct {
	svc    *Service
	orders OrderSource
}

func NewHandler(svc *Service, orders OrderSource) *Handler {
	return &Handler{svc: svc, orders: orders}
}

// SalesReport serves the admin reports screen: windowed revenue plus the
// top five products.
func (h *Handler) SalesReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	sales, err := h.svc.Sales(ctx, time.Now())
	if err != nil {
		apperr.Write(w, err)
		return
	}
	top, err := h.svc.TopProducts(ctx, 5)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if top == nil {
		top = []TopProduct{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"sales":       sales,
		"topProducts": top,
	})
}

// Dashboard serves the admin landing counters. All counts are computed on
// read against the live collections.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var countErr error
	count := func(coll *mongo.Collection, filter bson.M) int64 {
		if countErr != nil {
			return 0
		}
		n, err := coll.CountDocuments(ctx, filter)
		if err != nil {
			countErr = err
		}
		return n
	}

	totalUsers := count(db.UsersCollection, bson.M{})
	verifiedUsers := count(db.UsersCollection, bson.M{"isVerified": true})
	adminUsers := count(db.UsersCollection, bson.M{"role": "admin"})

	totalOrders := count(db.OrdersCollection, bson.M{"orderStatus": bson.M{"$ne": models.OrderCancelled}})
	pendingOrders := count(db.OrdersCollection, bson.M{"orderStatus": models.OrderPending})
	processingOrders := count(db.OrdersCollection, bson.M{"orderStatus": models.OrderProcessing})
	completedOrders := count(db.OrdersCollection, bson.M{"orderStatus": models.OrderCompleted})

	totalProducts := count(db.ProductsCollection, bson.M{})
	lowStockProducts := count(db.ProductsCollection, bson.M{"stock": bson.M{"$lte": lowStockThreshold}})

	if countErr != nil {
		log.Println("Dashboard count error:", countErr)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	confirmed, err := h.orders.FindConfirmed(ctx, nil)
	if err != nil {
		log.Println("Dashboard orders error:", err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	totalSales := 0.0
	salesByMethod := map[models.PaymentMethod]float64{
		models.PaymentCard:       0,
		models.PaymentQRTransfer: 0,
		models.PaymentCash:       0,
	}
	for _, o := range confirmed {
		totalSales += o.TotalAmount
		salesByMethod[o.PaymentMethod] += o.TotalAmount
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"totalUsers":       totalUsers,
		"verifiedUsers":    verifiedUsers,
		"adminUsers":       adminUsers,
		"totalOrders":      totalOrders,
		"pendingOrders":    pendingOrders,
		"processingOrders": processingOrders,
		"completedOrders":  completedOrders,
		"totalProducts":    totalProducts,
		"lowStockProducts": lowStockProducts,
		"totalSales":       totalSales,
		"salesByMethod":    salesByMethod,
	})
}
