package payment

import (
	"context"
	"errors"
)

var (
	// ErrGatewayUnavailable: gateway tidak bisa dihubungi / balas 5xx.
	// Aman di-retry dengan idempotency key yang sama.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrInvalidSignature: payload webhook tidak lolos verifikasi. Jangan
	// pernah dipakai untuk mutasi state.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"` // hosted checkout page, client redirect ke sini
}

// Gateway adalah boundary ke payment processor. Order workflow cuma kenal
// interface ini, jadi bisa dites tanpa kredensial beneran.
type Gateway interface {
	// CreateCheckoutSession bikin satu sesi pembayaran untuk order. Request
	// dengan idempotencyKey sama tidak bikin sesi kedua di gateway.
	CreateCheckoutSession(ctx context.Context, orderID string, amountCents int, idempotencyKey string) (Session, error)

	// VerifySignature memverifikasi header signature terhadap raw payload.
	// Non-nil error = tolak payload, fail closed.
	VerifySignature(payload []byte, sigHeader string) error
}
