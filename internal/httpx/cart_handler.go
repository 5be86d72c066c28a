package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auroragems/go-jewel-orders/internal/cart"
	"github.com/auroragems/go-jewel-orders/internal/catalog"
)

type CartHandler struct {
	Carts    *cart.Repo
	Products *catalog.Repo
}

type addItemReq struct {
	ProductID      string            `json:"product_id"`
	Qty            int               `json:"qty"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

type updateItemReq struct {
	Qty            int               `json:"qty"`
	Customizations map[string]string `json:"customizations,omitempty"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Patch("/cart/items/{id}", h.updateItem)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Delete("/cart", h.clearCart)
}

func (h *CartHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Products.List(ctx)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, ps)
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Carts.GetOrCreate(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	var req addItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" || req.Qty <= 0 {
		writeErr(w, http.StatusBadRequest, "product_id and positive qty are required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.GetOrCreate(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	it, err := h.Carts.AddItem(ctx, c.ID, req.ProductID, req.Qty, req.Customizations)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, it)
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	var req updateItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.GetOrCreate(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	it, err := h.Carts.UpdateItem(ctx, c.ID, chi.URLParam(r, "id"), req.Qty, req.Customizations)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, it)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.GetOrCreate(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if err := h.Carts.RemoveItem(ctx, c.ID, chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"removed": chi.URLParam(r, "id")})
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeErr(w, http.StatusUnauthorized, "missing user")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Carts.GetOrCreate(ctx, uid)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if err := h.Carts.Clear(ctx, c.ID); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"cleared": true})
}
