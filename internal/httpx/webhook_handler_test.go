package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/auroragems/go-jewel-orders/internal/checkout"
	"github.com/auroragems/go-jewel-orders/internal/payment"
)

type headerGateway struct{}

func (headerGateway) CreateCheckoutSession(context.Context, string, int, string) (payment.Session, error) {
	return payment.Session{}, payment.ErrGatewayUnavailable
}

func (headerGateway) VerifySignature(_ []byte, sigHeader string) error {
	if sigHeader == "valid" {
		return nil
	}
	return payment.ErrInvalidSignature
}

func newWebhookRouter() http.Handler {
	wf := &checkout.Service{Gateway: headerGateway{}, Log: zap.NewNop()}
	r := NewRouter()
	(&WebhookHandler{Workflow: wf, Log: zap.NewNop()}).Register(r)
	return r
}

func TestPaymentWebhook_BadSignatureIs400(t *testing.T) {
	srv := newWebhookRouter()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("X-Gateway-Signature", "t=1,v1=forged")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
}

func TestPaymentWebhook_IgnorableEventIs200(t *testing.T) {
	srv := newWebhookRouter()

	// event type yang tidak kita proses: cukup ack supaya gateway stop retry
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment",
		strings.NewReader(`{"id":"evt_2","type":"charge.updated","data":{}}`))
	req.Header.Set("X-Gateway-Signature", "valid")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)
}
