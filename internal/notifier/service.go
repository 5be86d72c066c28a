package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/auroragems/go-jewel-orders/internal/kafka"
	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/redisx"
)

type Service struct {
	DB     *pgxpool.Pool
	Sender Sender
	Redis  *redis.Client
	Log    *zap.Logger
}

// HandleOrderConfirmed dipasang sebagai handler consumer topic order.confirmed.
func (s *Service) HandleOrderConfirmed(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		s.Log.Error("undecodable event, skipping", zap.Error(err))
		return nil // pesan rusak jangan bikin stuck di offset ini
	}
	if env.EventType != orders.EventOrderConfirmed {
		return nil
	}

	// dedup via Redis per event_id: satu event = maksimal satu email
	dkey := fmt.Sprintf(redisx.KeyNotifierDedup, env.EventID)
	first, err := redisx.ClaimOnce(ctx, s.Redis, dkey, redisx.TTLDedup)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderConfirmedPayload](env.Payload)
	if err != nil {
		s.Log.Error("bad OrderConfirmed payload", zap.String("event_id", env.EventID), zap.Error(err))
		return nil
	}

	email, err := s.lookupEmail(ctx, p.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		s.Log.Warn("no email for user, skipping confirmation",
			zap.String("user_id", p.UserID), zap.String("order_id", p.OrderID))
		return nil
	}
	if err != nil {
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}

	if err := s.Sender.SendOrderConfirmation(ctx, email, p); err != nil {
		// lepas claim supaya retry berikutnya kirim ulang
		_ = s.Redis.Del(ctx, dkey).Err()
		return err
	}

	s.Log.Info("confirmation sent",
		zap.String("order_id", p.OrderID),
		zap.String("order_number", p.OrderNumber))
	return nil
}

// Email user diambil dari tabel users lokal (duplikasi dari auth service,
// diisi di luar scope service ini).
func (s *Service) lookupEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := s.DB.QueryRow(ctx, `SELECT email FROM users WHERE id=$1`, userID).Scan(&email)
	return email, err
}
