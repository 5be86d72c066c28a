package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// sessionTimeout membatasi panggilan create-session; timeout meninggalkan
// order pending tanpa session dan aman di-retry.
const sessionTimeout = 10 * time.Second

type HostedGateway struct {
	BaseURL       string
	APIKey        string
	SigningSecret []byte
	SuccessURL    string
	CancelURL     string
	HTTPClient    *http.Client
}

func NewHostedGateway(baseURL, apiKey, signingSecret, successURL, cancelURL string) *HostedGateway {
	return &HostedGateway{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		SigningSecret: []byte(signingSecret),
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		HTTPClient:    &http.Client{Timeout: sessionTimeout},
	}
}

type createSessionReq struct {
	AmountCents int               `json:"amount_cents"`
	Currency    string            `json:"currency"`
	SuccessURL  string            `json:"success_url"`
	CancelURL   string            `json:"cancel_url"`
	Metadata    map[string]string `json:"metadata"`
}

func (g *HostedGateway) CreateCheckoutSession(ctx context.Context, orderID string, amountCents int, idempotencyKey string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()

	body := createSessionReq{
		AmountCents: amountCents,
		Currency:    "usd",
		SuccessURL:  g.SuccessURL,
		CancelURL:   g.CancelURL,
		Metadata:    map[string]string{"order_id": orderID},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return Session{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/v1/checkout/sessions", bytes.NewReader(b))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		// network error / timeout -> retryable
		return Session{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return Session{}, fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Session{}, fmt.Errorf("create checkout session: gateway returned %d", resp.StatusCode)
	}

	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return Session{}, fmt.Errorf("decode session response: %w", err)
	}
	return s, nil
}

func (g *HostedGateway) VerifySignature(payload []byte, sigHeader string) error {
	return verifySignature(g.SigningSecret, payload, sigHeader, time.Now())
}
