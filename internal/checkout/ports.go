package checkout

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/auroragems/go-jewel-orders/internal/cart"
	"github.com/auroragems/go-jewel-orders/internal/orders"
)

// Workflow cuma kenal interface; implementasi pgx ada di package cart,
// address, orders. Test pakai fake in-memory.

type CartStore interface {
	GetOrCreate(ctx context.Context, userID string) (cart.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type AddressStore interface {
	BelongsTo(ctx context.Context, addressID, userID string) (bool, error)
}

type OrderStore interface {
	CreateTx(ctx context.Context, o orders.Order, items []orders.OrderItem) (orders.Order, bool, error)
	GetByID(ctx context.Context, orderID string) (orders.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (orders.Order, error)
	SetSession(ctx context.Context, orderID, sessionID, sessionURL string) error
	ResetForRetry(ctx context.Context, orderID string) error
	MarkPaid(ctx context.Context, orderID string) (orders.Order, bool, error)
	MarkFailed(ctx context.Context, orderID string) (orders.Order, bool, error)
	UpdateStatus(ctx context.Context, orderID string, from, to orders.Status, trackingNumber string) (orders.Order, error)
}

type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Discounter dihitung kolaborator pricing; default NoDiscount.
type Discounter interface {
	DiscountCents(ctx context.Context, userID string, c cart.Cart) int
}

type NoDiscount struct{}

func (NoDiscount) DiscountCents(context.Context, string, cart.Cart) int { return 0 }
