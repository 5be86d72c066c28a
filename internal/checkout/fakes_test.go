package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/auroragems/go-jewel-orders/internal/address"
	"github.com/auroragems/go-jewel-orders/internal/cart"
	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/payment"
)

// Fake in-memory untuk semua port workflow. Semantik CAS/unique di sini
// mengikuti kontrak repo pgx.

type fakeCarts struct {
	mu         sync.Mutex
	carts      map[string]*cart.Cart // per user
	clearCalls int
}

func newFakeCarts() *fakeCarts {
	return &fakeCarts{carts: map[string]*cart.Cart{}}
}

func (f *fakeCarts) GetOrCreate(_ context.Context, userID string) (cart.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		c = &cart.Cart{ID: uuid.NewString(), UserID: userID}
		f.carts[userID] = c
	}
	return *c, nil
}

func (f *fakeCarts) Clear(_ context.Context, cartID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearCalls++
	for _, c := range f.carts {
		if c.ID == cartID {
			c.Items = nil
		}
	}
	return nil
}

func (f *fakeCarts) addItem(userID, productID, name string, qty, priceCents int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		c = &cart.Cart{ID: uuid.NewString(), UserID: userID}
		f.carts[userID] = c
	}
	c.Items = append(c.Items, cart.Item{
		ID:          uuid.NewString(),
		CartID:      c.ID,
		ProductID:   productID,
		ProductName: name,
		Qty:         qty,
		PriceCents:  priceCents,
	})
}

type fakeAddresses struct {
	owners map[string]string // addressID -> userID
}

func (f *fakeAddresses) BelongsTo(_ context.Context, addressID, userID string) (bool, error) {
	owner, ok := f.owners[addressID]
	if !ok {
		return false, address.ErrNotFound
	}
	return owner == userID, nil
}

type fakeOrders struct {
	mu     sync.Mutex
	byID   map[string]*orders.Order
	status map[string][]orders.Status // audit transisi per order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[string]*orders.Order{}, status: map[string][]orders.Status{}}
}

func (f *fakeOrders) CreateTx(_ context.Context, o orders.Order, items []orders.OrderItem) (orders.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// partial unique index semantics: satu order pending per user
	for _, ex := range f.byID {
		if ex.UserID == o.UserID && ex.Status == orders.StatusPending {
			return *ex, true, nil
		}
	}
	o.ID = uuid.NewString()
	o.Number = orders.NewNumber(time.Now())
	o.Status = orders.StatusPending
	o.PaymentStatus = orders.PayPending
	o.Items = items
	o.CreatedAt = time.Now()
	f.byID[o.ID] = &o
	return o, false, nil
}

func (f *fakeOrders) GetByID(_ context.Context, orderID string) (orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return *o, nil
}

func (f *fakeOrders) GetBySessionID(_ context.Context, sessionID string) (orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.byID {
		if o.SessionID == sessionID && sessionID != "" {
			return *o, nil
		}
	}
	return orders.Order{}, orders.ErrNotFound
}

func (f *fakeOrders) SetSession(_ context.Context, orderID, sessionID, sessionURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok || o.Status != orders.StatusPending || o.PaymentStatus != orders.PayPending {
		return orders.ErrConflict
	}
	o.SessionID, o.SessionURL = sessionID, sessionURL
	return nil
}

func (f *fakeOrders) ResetForRetry(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok || o.Status != orders.StatusPending || o.PaymentStatus != orders.PayFailed {
		return orders.ErrConflict
	}
	o.PaymentStatus = orders.PayPending
	o.SessionID, o.SessionURL = "", ""
	return nil
}

func (f *fakeOrders) MarkPaid(_ context.Context, orderID string) (orders.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return orders.Order{}, false, orders.ErrNotFound
	}
	if o.PaymentStatus != orders.PayPending || o.Status != orders.StatusPending {
		return *o, false, nil
	}
	o.PaymentStatus = orders.PayPaid
	o.Status = orders.StatusProcessing
	f.status[orderID] = append(f.status[orderID], orders.StatusProcessing)
	return *o, true, nil
}

func (f *fakeOrders) MarkFailed(_ context.Context, orderID string) (orders.Order, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return orders.Order{}, false, orders.ErrNotFound
	}
	if o.PaymentStatus != orders.PayPending || o.Status != orders.StatusPending {
		return *o, false, nil
	}
	o.PaymentStatus = orders.PayFailed
	return *o, true, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, orderID string, from, to orders.Status, trackingNumber string) (orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.byID[orderID]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	if o.Status != from {
		return orders.Order{}, orders.ErrConflict
	}
	o.Status = to
	now := time.Now()
	switch to {
	case orders.StatusShipped:
		o.TrackingNumber = trackingNumber
		o.ShippedAt = &now
	case orders.StatusDelivered:
		o.DeliveredAt = &now
	}
	f.status[orderID] = append(f.status[orderID], to)
	return *o, nil
}

type fakeGateway struct {
	mu             sync.Mutex
	fail           bool
	sessionsMade   int
	idempotencyKey []string
}

func (f *fakeGateway) CreateCheckoutSession(_ context.Context, orderID string, amountCents int, idempotencyKey string) (payment.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return payment.Session{}, fmt.Errorf("%w: connection refused", payment.ErrGatewayUnavailable)
	}
	f.sessionsMade++
	f.idempotencyKey = append(f.idempotencyKey, idempotencyKey)
	return payment.Session{
		ID:  "sess_" + orderID,
		URL: "https://pay.example.com/c/sess_" + orderID,
	}, nil
}

// Signature fake: header "valid" lolos, sisanya ditolak.
func (f *fakeGateway) VerifySignature(_ []byte, sigHeader string) error {
	if sigHeader == "valid" {
		return nil
	}
	return payment.ErrInvalidSignature
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMsg
}

type publishedMsg struct {
	topic string
	key   string
	value []byte
}

func (f *fakePublisher) Publish(topic string, key, value []byte, _ ...kafkago.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, publishedMsg{topic: topic, key: string(key), value: value})
}

func (f *fakePublisher) onTopic(topic string) []publishedMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []publishedMsg
	for _, m := range f.messages {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}
