package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/auroragems/go-jewel-orders/internal/address"
	"github.com/auroragems/go-jewel-orders/internal/cart"
	"github.com/auroragems/go-jewel-orders/internal/catalog"
	"github.com/auroragems/go-jewel-orders/internal/checkout"
	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/payment"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeData(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: msg})
}

// writeDomainErr memetakan taksonomi error domain ke status HTTP. Error tak
// dikenal jadi 500 generik tanpa bocorin detail internal.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeErr(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, checkout.ErrForbidden):
		writeErr(w, http.StatusForbidden, "address does not belong to you")
	case errors.Is(err, orders.ErrInvalidTransition):
		writeErr(w, http.StatusBadRequest, "invalid status transition")
	case errors.Is(err, orders.ErrConflict):
		writeErr(w, http.StatusConflict, "order changed, reload and retry")
	case errors.Is(err, payment.ErrInvalidSignature):
		writeErr(w, http.StatusBadRequest, "invalid signature")
	case errors.Is(err, payment.ErrGatewayUnavailable):
		writeErr(w, http.StatusBadGateway, "payment provider unavailable, retry later")
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, address.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

// userID dari header; verifikasi token dikerjakan layer auth di depan.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}
