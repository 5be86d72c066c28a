package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/auroragems/go-jewel-orders/internal/checkout"
	"github.com/auroragems/go-jewel-orders/internal/orders"
)

type OrdersHandler struct {
	Workflow *checkout.Service
	Orders   *orders.Repo
	Log      *zap.Logger
}

type createOrderReq struct {
	BillingAddressID  string `json:"billing_address_id"`
	ShippingAddressID string `json:"shipping_address_id"`
	Notes             string `json:"notes,omitempty"`
}

type createOrderResp struct {
	Order       orders.Order `json:"order"`
	CheckoutURL string       `json:"checkout_url"`
}

type updateStatusReq struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Patch("/orders/{id}/status", h.updateStatus)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.BillingAddressID == "" || req.ShippingAddressID == "" {
		writeErr(w, http.StatusBadRequest, "billing_address_id and shipping_address_id are required")
		return
	}

	// timeout agak longgar: ada call keluar ke gateway di dalamnya
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res, err := h.Workflow.CreateOrder(ctx, uid, req.BillingAddressID, req.ShippingAddressID, req.Notes)
	if err != nil {
		h.Log.Warn("create order failed", zap.String("user_id", uid), zap.Error(err))
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, createOrderResp{Order: res.Order, CheckoutURL: res.CheckoutURL})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Orders.ListByUser(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Orders.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if o.UserID != uid {
		// jangan bocorin keberadaan order orang lain
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	writeData(w, http.StatusOK, o)
}

// updateStatus dipakai fulfillment/admin; role check ada di gateway depan.
func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Workflow.UpdateOrderStatus(ctx, chi.URLParam(r, "id"), orders.Status(req.Status), req.TrackingNumber)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, o)
}
