package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auroragems/go-jewel-orders/internal/address"
)

type AddressHandler struct {
	Addresses *address.Repo
}

func (h *AddressHandler) Register(r *chi.Mux) {
	r.Get("/addresses", h.list)
	r.Post("/addresses", h.create)
}

func (h *AddressHandler) list(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Addresses.ListByUser(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, out)
}

func (h *AddressHandler) create(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	var a address.Address
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if a.Recipient == "" || a.Line1 == "" || a.City == "" || a.Country == "" {
		writeErr(w, http.StatusBadRequest, "recipient, line1, city and country are required")
		return
	}
	a.UserID = uid // selalu dari header, jangan percaya body

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	created, err := h.Addresses.Create(ctx, a)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}
