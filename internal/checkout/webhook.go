package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/payment"
	"github.com/auroragems/go-jewel-orders/internal/redisx"
)

// HandleWebhook memproses callback gateway. Return nil = ack (gateway stop
// retry). Satu-satunya error yang keluar adalah ErrInvalidSignature; payload
// yang tidak bisa resolve di-ack sambil dicatat, retry sampai kapan pun juga
// tidak akan berhasil.
func (s *Service) HandleWebhook(ctx context.Context, rawPayload []byte, sigHeader string) error {
	if err := s.Gateway.VerifySignature(rawPayload, sigHeader); err != nil {
		// security event: payload tanpa signature sah tidak boleh menyentuh
		// state order sama sekali
		s.Log.Warn("webhook signature rejected", zap.Error(err))
		return payment.ErrInvalidSignature
	}

	ev, err := payment.ParseWebhookEvent(rawPayload)
	if err != nil {
		s.Log.Error("webhook payload undecodable", zap.Error(err))
		return nil // signed tapi rusak; retry tidak akan memperbaiki
	}

	switch ev.Type {
	case payment.EventCheckoutCompleted, payment.EventCheckoutFailed:
	default:
		return nil // event lain cukup di-ack
	}

	// Fast path dedup via Redis; kebenaran tetap CAS di DB.
	if s.Redis != nil && ev.ID != "" {
		key := fmt.Sprintf(redisx.KeyWebhookDedup, ev.ID)
		if seen, err := redisx.Exists(ctx, s.Redis, key); err == nil && seen {
			return nil
		}
	}

	o, err := s.resolveOrder(ctx, ev)
	if errors.Is(err, orders.ErrNotFound) {
		s.Log.Warn("webhook for unknown order",
			zap.String("event_id", ev.ID),
			zap.String("event_type", ev.Type),
			zap.String("session_id", ev.Data.SessionID))
		return nil
	}
	if err != nil {
		return err
	}

	switch ev.Type {
	case payment.EventCheckoutCompleted:
		err = s.applyPaid(ctx, o)
	case payment.EventCheckoutFailed:
		err = s.applyFailed(ctx, o)
	}
	if err != nil {
		return err
	}

	if s.Redis != nil && ev.ID != "" {
		key := fmt.Sprintf(redisx.KeyWebhookDedup, ev.ID)
		_, _ = redisx.ClaimOnce(ctx, s.Redis, key, redisx.TTLDedup)
	}
	return nil
}

func (s *Service) resolveOrder(ctx context.Context, ev payment.WebhookEvent) (orders.Order, error) {
	if id := ev.OrderID(); id != "" {
		return s.Orders.GetByID(ctx, id)
	}
	if ev.Data.SessionID != "" {
		return s.Orders.GetBySessionID(ctx, ev.Data.SessionID)
	}
	return orders.Order{}, orders.ErrNotFound
}

func (s *Service) applyPaid(ctx context.Context, o orders.Order) error {
	// CAS: pending/pending -> processing/paid dalam satu UPDATE kondisional.
	// Delivery duplikat kalah di sini dan tidak mengulang side effect.
	updated, applied, err := s.Orders.MarkPaid(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("mark paid: %w", err)
	}
	if !applied {
		s.Log.Info("payment webhook replay ignored",
			zap.String("order_id", o.ID),
			zap.String("payment_status", string(updated.PaymentStatus)))
		return nil
	}
	s.cacheStatus(ctx, updated)

	// Cart baru di-clear sekarang, setelah transisi durable.
	c, err := s.Carts.GetOrCreate(ctx, updated.UserID)
	if err == nil {
		if err := s.Carts.Clear(ctx, c.ID); err != nil {
			s.Log.Error("clear cart after payment failed",
				zap.String("order_id", updated.ID), zap.String("cart_id", c.ID), zap.Error(err))
		}
	} else {
		s.Log.Error("load cart after payment failed",
			zap.String("order_id", updated.ID), zap.Error(err))
	}

	// Notifikasi lewat event, dikirim setelah commit, bukan sebelum.
	s.publish(orders.EventOrderConfirmed, orders.TopicOrderConfirmed, updated.ID, orders.OrderConfirmedPayload{
		OrderID:     updated.ID,
		OrderNumber: updated.Number,
		UserID:      updated.UserID,
		TotalCents:  updated.TotalCents,
		SessionID:   updated.SessionID,
	})

	s.Log.Info("order paid",
		zap.String("order_id", updated.ID),
		zap.String("order_number", updated.Number),
		zap.Int("total_cents", updated.TotalCents))
	return nil
}

func (s *Service) applyFailed(ctx context.Context, o orders.Order) error {
	updated, applied, err := s.Orders.MarkFailed(ctx, o.ID)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	if !applied {
		return nil
	}
	s.cacheStatus(ctx, updated)
	s.Log.Info("payment failed, order stays pending for retry",
		zap.String("order_id", updated.ID))
	return nil
}
