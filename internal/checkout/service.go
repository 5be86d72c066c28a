package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/auroragems/go-jewel-orders/internal/kafka"
	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/payment"
	"github.com/auroragems/go-jewel-orders/internal/redisx"
)

type Service struct {
	Carts     CartStore
	Addresses AddressStore
	Orders    OrderStore
	Gateway   payment.Gateway
	Producer  Publisher
	Discounts Discounter
	Redis     *redis.Client // optional fast path; nil di unit test
	Log       *zap.Logger

	ServiceName    string
	TaxBasisPoints int
	ShippingCents  int
}

// CheckoutResult dikembalikan ke handler: order + url hosted checkout buat
// redirect client.
type CheckoutResult struct {
	Order       orders.Order
	CheckoutURL string
}

// CreateOrder: cart -> order (pending,pending) -> checkout session.
// Dua fase yang masing-masing idempotent: "ensure order" (partial unique
// index di repo) dan "ensure session" (idempotency key = order id). Gateway
// gagal? Order tetap pending tanpa session, request berikutnya coba lagi
// tanpa bikin order baru. Cart TIDAK di-clear di sini; baru setelah webhook
// konfirmasi pembayaran.
func (s *Service) CreateOrder(ctx context.Context, userID, billingAddressID, shippingAddressID, notes string) (CheckoutResult, error) {
	c, err := s.Carts.GetOrCreate(ctx, userID)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("load cart: %w", err)
	}
	if len(c.Items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	for _, addrID := range []string{billingAddressID, shippingAddressID} {
		ok, err := s.Addresses.BelongsTo(ctx, addrID, userID)
		if err != nil {
			return CheckoutResult{}, err
		}
		if !ok {
			return CheckoutResult{}, ErrForbidden
		}
	}

	// Subtotal dari harga snapshot di cart item, bukan baca ulang katalog.
	subtotal := c.SubtotalCents()
	discount := s.discounter().DiscountCents(ctx, userID, c)
	tax := subtotal * s.TaxBasisPoints / 10_000
	shipping := s.ShippingCents
	total := subtotal + tax + shipping - discount

	items := make([]orders.OrderItem, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, orders.OrderItem{
			ProductID:      it.ProductID,
			Name:           it.ProductName,
			Qty:            it.Qty,
			PriceCents:     it.PriceCents,
			Customizations: it.Customizations,
		})
	}

	o, existed, err := s.Orders.CreateTx(ctx, orders.Order{
		UserID:            userID,
		SubtotalCents:     subtotal,
		TaxCents:          tax,
		ShippingCents:     shipping,
		DiscountCents:     discount,
		TotalCents:        total,
		BillingAddressID:  billingAddressID,
		ShippingAddressID: shippingAddressID,
		Notes:             notes,
	}, items)
	if err != nil {
		return CheckoutResult{}, fmt.Errorf("create order: %w", err)
	}
	if existed {
		s.Log.Info("reusing open pending order",
			zap.String("order_id", o.ID), zap.String("user_id", userID))
	} else {
		s.cacheStatus(ctx, o)
	}

	o, err = s.ensureSession(ctx, o)
	if err != nil {
		return CheckoutResult{}, err
	}
	return CheckoutResult{Order: o, CheckoutURL: o.SessionURL}, nil
}

func (s *Service) ensureSession(ctx context.Context, o orders.Order) (orders.Order, error) {
	if o.PaymentStatus == orders.PayFailed {
		// checkout ulang setelah gagal bayar: buang session lama dulu
		if err := s.Orders.ResetForRetry(ctx, o.ID); err != nil {
			return orders.Order{}, err
		}
		o.PaymentStatus = orders.PayPending
		o.SessionID, o.SessionURL = "", ""
	}
	if o.SessionID != "" {
		return o, nil // session sudah ada, url lama masih berlaku
	}

	// Idempotency key diturunkan dari order id: retry request yang sama tidak
	// bikin dua session di gateway.
	sess, err := s.Gateway.CreateCheckoutSession(ctx, o.ID, o.TotalCents, "order:"+o.ID)
	if err != nil {
		s.Log.Warn("create checkout session failed",
			zap.String("order_id", o.ID), zap.Error(err))
		return orders.Order{}, err
	}
	if err := s.Orders.SetSession(ctx, o.ID, sess.ID, sess.URL); err != nil {
		return orders.Order{}, fmt.Errorf("store session: %w", err)
	}
	o.SessionID, o.SessionURL = sess.ID, sess.URL
	return o, nil
}

// UpdateOrderStatus dipakai alur fulfillment/admin. Maju-saja per state
// machine; processing butuh payment paid dulu.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, next orders.Status, trackingNumber string) (orders.Order, error) {
	if !orders.ValidStatus(next) {
		return orders.Order{}, orders.ErrInvalidTransition
	}
	o, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		return orders.Order{}, err
	}
	if !orders.CanTransition(o.Status, next) {
		return orders.Order{}, orders.ErrInvalidTransition
	}
	if next == orders.StatusProcessing && o.PaymentStatus != orders.PayPaid {
		return orders.Order{}, orders.ErrInvalidTransition
	}

	updated, err := s.Orders.UpdateStatus(ctx, orderID, o.Status, next, trackingNumber)
	if err != nil {
		return orders.Order{}, err
	}
	s.cacheStatus(ctx, updated)

	switch next {
	case orders.StatusShipped:
		s.publish(orders.EventOrderShipped, orders.TopicOrderShipped, updated.ID, orders.OrderShippedPayload{
			OrderID:        updated.ID,
			OrderNumber:    updated.Number,
			UserID:         updated.UserID,
			TrackingNumber: updated.TrackingNumber,
		})
	case orders.StatusCancelled:
		s.publish(orders.EventOrderCancelled, orders.TopicOrderCancelled, updated.ID, orders.OrderCancelledPayload{
			OrderID:     updated.ID,
			OrderNumber: updated.Number,
			UserID:      updated.UserID,
		})
	}
	return updated, nil
}

func (s *Service) discounter() Discounter {
	if s.Discounts == nil {
		return NoDiscount{}
	}
	return s.Discounts
}

func (s *Service) publish(eventType, topic, orderID string, payload any) {
	if s.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.Producer.Publish(topic, orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) cacheStatus(ctx context.Context, o orders.Order) {
	if s.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	val := fmt.Sprintf(`{"status":%q,"payment_status":%q}`, o.Status, o.PaymentStatus)
	if err := s.Redis.Set(ctx, key, val, redisx.TTLStatusCache).Err(); err != nil && !errors.Is(err, context.Canceled) {
		s.Log.Debug("status cache set failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}
