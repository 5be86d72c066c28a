package httpx

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/auroragems/go-jewel-orders/internal/checkout"
)

// maxWebhookBody membatasi payload webhook; event gateway kecil.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	Workflow *checkout.Service
	Log      *zap.Logger
}

func (h *WebhookHandler) Register(r *chi.Mux) {
	r.Post("/webhooks/payment", h.paymentWebhook)
}

func (h *WebhookHandler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "cannot read body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Workflow.HandleWebhook(ctx, body, r.Header.Get("X-Gateway-Signature")); err != nil {
		// signature jelek -> 400 flat; selain itu 5xx biar gateway retry
		h.Log.Warn("webhook rejected", zap.Error(err))
		writeDomainErr(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"received": true})
}
