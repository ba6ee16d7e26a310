package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"brewhouse/apperr"
	"brewhouse/utils"

	"github.com/julienschmidt/httprouter"
)

// Handler exposes the cart service over HTTP, scoped to the token's user.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func requestCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("AddItem decode error:", err)
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid JSON payload"))
		return
	}
	if body.ProductID == "" {
		apperr.Write(w, apperr.New(apperr.Validation, "productId is required"))
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	c, err := h.svc.AddItem(ctx, userID, body.ProductID, body.Quantity)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	c, err := h.svc.GetCart(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		apperr.Write(w, apperr.New(apperr.Validation, "Invalid JSON payload"))
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	c, err := h.svc.UpdateQuantity(ctx, userID, ps.ByName("productid"), body.Quantity)
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	c, err := h.svc.RemoveItem(ctx, userID, ps.ByName("productid"))
	if err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, c)
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := requestCtx(r)
	defer cancel()

	if err := h.svc.Clear(ctx, utils.GetUserIDFromRequest(r)); err != nil {
		apperr.Write(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
