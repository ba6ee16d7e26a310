package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"brewhouse/apperr"
	"brewhouse/models"
	"brewhouse/rdx"
	"brewhouse/utils"

	"github.com/julienschmidt/httprouter"
)

// confirmLockTTL guards payment confirmation against double-taps.
const confirmLockTTL = 5 * time.Second

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func requestCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 30*time.Second)
}

// Checkout creates an order from the caller's cart. The response shape
// depends on the payment method: card adds clientSecret, qr_transfer adds
// qrCode, cash is the bare order.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	var body struct {
		PaymentMethod   string                 `json:"paymentMethod"`
		ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("Checkout decode error:", err)
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid JSON payload"))
		return
	}

	method, ok := models.ParsePaymentMethod(body.PaymentMethod)
	if !ok {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid payment method"))
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	result, err := h.svc.CreateOrder(ctx, userID, method, body.ShippingAddress)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *Handler) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	list, err := h.svc.ListMine(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) AllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	list, err := h.svc.ListAll(ctx)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if list == nil {
		list = []models.Order{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	o, err := h.svc.Get(ctx, ps.ByName("orderid"))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	if o.UserID != utils.GetUserIDFromRequest(r) && utils.GetRoleFromRequest(r) != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "Not your order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

// MarkPaid is the manual, client-triggered payment confirmation. A short
// redis lock absorbs double-taps; the stamp itself is idempotent anyway.
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	orderID := ps.ByName("orderid")
	if acquired, err := rdx.RdxSetNX("order_confirm:"+orderID, "1", confirmLockTTL); err == nil && !acquired {
		utils.RespondWithError(w, http.StatusTooManyRequests, "Confirmation already in progress")
		return
	}
	defer rdx.RdxDel("order_confirm:" + orderID)

	o, err := h.svc.MarkPaid(ctx, orderID)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

func (h *Handler) MarkDelivered(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	o, err := h.svc.MarkDelivered(ctx, ps.ByName("orderid"))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid JSON payload"))
		return
	}

	o, err := h.svc.SetOrderStatus(ctx, ps.ByName("orderid"), models.OrderStatus(body.Status))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

func (h *Handler) SetPaymentStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid JSON payload"))
		return
	}

	o, err := h.svc.SetPaymentStatus(ctx, ps.ByName("orderid"), models.PaymentStatus(body.Status))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, o)
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	if err := h.svc.Delete(ctx, ps.ByName("orderid")); err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}
