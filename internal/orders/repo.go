package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderCols = `id, number, user_id, status, payment_status,
	subtotal_cents, tax_cents, shipping_cents, discount_cents, total_cents,
	billing_address_id, shipping_address_id, session_id, session_url, notes,
	tracking_number, shipped_at, delivered_at, created_at, updated_at`

// maxNumberRetries membatasi regenerate nomor order saat tabrakan unique.
const maxNumberRetries = 5

type Repo struct{ DB *pgxpool.Pool }

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Status, &o.PaymentStatus,
		&o.SubtotalCents, &o.TaxCents, &o.ShippingCents, &o.DiscountCents, &o.TotalCents,
		&o.BillingAddressID, &o.ShippingAddressID, &o.SessionID, &o.SessionURL, &o.Notes,
		&o.TrackingNumber, &o.ShippedAt, &o.DeliveredAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// CreateTx: idempotent per checkout. Partial unique index
// orders_open_checkout_uq (user_id WHERE status='pending') menjamin maksimal
// satu order pending per user; insert kedua kalah di DB, bukan di
// read-then-write, lalu kita kembalikan order yang sudah ada (existed=true).
// Tabrakan nomor order di-retry dengan nomor baru, maksimal maxNumberRetries.
func (r *Repo) CreateTx(ctx context.Context, o Order, items []OrderItem) (Order, bool, error) {
	var lastErr error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		o.ID = uuid.NewString()
		o.Number = NewNumber(time.Now())

		created, existed, err := r.tryInsert(ctx, o, items)
		if err == nil {
			return created, existed, nil
		}
		if isUniqueViolation(err, "orders_number_key") {
			lastErr = err
			continue // nomor bentrok, generate ulang
		}
		return Order{}, false, err
	}
	return Order{}, false, fmt.Errorf("order number collision after %d attempts: %w", maxNumberRetries, lastErr)
}

func (r *Repo) tryInsert(ctx context.Context, o Order, items []OrderItem) (Order, bool, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO orders (id, number, user_id, status, payment_status,
			subtotal_cents, tax_cents, shipping_cents, discount_cents, total_cents,
			billing_address_id, shipping_address_id, session_id, session_url, notes)
		VALUES ($1,$2,$3,'pending','pending',$4,$5,$6,$7,$8,$9,$10,'','',$11)
		ON CONFLICT (user_id) WHERE status = 'pending' DO NOTHING
		RETURNING `+orderCols,
		o.ID, o.Number, o.UserID,
		o.SubtotalCents, o.TaxCents, o.ShippingCents, o.DiscountCents, o.TotalCents,
		o.BillingAddressID, o.ShippingAddressID, o.Notes)

	created, err := scanOrder(row)
	if errors.Is(err, ErrNotFound) {
		// sudah ada checkout terbuka -> pakai yang itu
		existing, err := r.openPendingTx(ctx, tx, o.UserID)
		if err != nil {
			return Order{}, false, err
		}
		if err := tx.Commit(ctx); err != nil {
			return Order{}, false, err
		}
		return existing, true, nil
	}
	if err != nil {
		return Order{}, false, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, qty, price_cents, customizations)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.NewString(), created.ID, it.ProductID, it.Name, it.Qty, it.PriceCents, it.Customizations); err != nil {
			return Order{}, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, false, err
	}
	created.Items, err = r.listItems(ctx, created.ID)
	if err != nil {
		return Order{}, false, err
	}
	return created, false, nil
}

func (r *Repo) openPendingTx(ctx context.Context, tx pgx.Tx, userID string) (Order, error) {
	o, err := scanOrder(tx.QueryRow(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE user_id=$1 AND status='pending'`, userID))
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *Repo) listItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, name, qty, price_cents, customizations
		FROM order_items WHERE order_id=$1 ORDER BY name`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Name, &it.Qty, &it.PriceCents, &it.Customizations); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, orderID string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, orderID))
	if err != nil {
		return Order{}, err
	}
	o.Items, err = r.listItems(ctx, o.ID)
	return o, err
}

func (r *Repo) GetBySessionID(ctx context.Context, sessionID string) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE session_id=$1`, sessionID))
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SetSession menyimpan session id + url gateway; hanya selama order masih
// menunggu pembayaran.
func (r *Repo) SetSession(ctx context.Context, orderID, sessionID, sessionURL string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET session_id=$2, session_url=$3, updated_at=now()
		WHERE id=$1 AND status='pending' AND payment_status='pending'`, orderID, sessionID, sessionURL)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// ResetForRetry: checkout ulang setelah payment failed. Session lama dibuang,
// payment axis balik ke pending supaya webhook berikutnya bisa masuk.
func (r *Repo) ResetForRetry(ctx context.Context, orderID string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET payment_status='pending', session_id='', session_url='', updated_at=now()
		WHERE id=$1 AND status='pending' AND payment_status='failed'`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// MarkPaid adalah idempotency guard webhook: satu UPDATE kondisional
// (compare-and-swap di DB), bukan read lalu write. applied=false artinya
// event duplikat / order sudah lewat dari pending — side effect jangan
// diulang.
func (r *Repo) MarkPaid(ctx context.Context, orderID string) (Order, bool, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders SET payment_status='paid', status='processing', updated_at=now()
		WHERE id=$1 AND payment_status='pending' AND status='pending'
		RETURNING `+orderCols, orderID))
	if err == nil {
		return o, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Order{}, false, err
	}
	// CAS tidak kena: order tidak ada, atau sudah paid/cancelled
	o, err = r.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, false, err
	}
	return o, false, nil
}

// MarkFailed: payment axis pending -> failed, order tetap pending supaya user
// bisa coba bayar lagi.
func (r *Repo) MarkFailed(ctx context.Context, orderID string) (Order, bool, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `
		UPDATE orders SET payment_status='failed', updated_at=now()
		WHERE id=$1 AND payment_status='pending' AND status='pending'
		RETURNING `+orderCols, orderID))
	if err == nil {
		return o, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Order{}, false, err
	}
	o, err = r.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, false, err
	}
	return o, false, nil
}

// UpdateStatus: guard di WHERE pakai status yang diharapkan caller, jadi dua
// update bersamaan (admin vs webhook) tidak saling timpa diam-diam.
func (r *Repo) UpdateStatus(ctx context.Context, orderID string, from, to Status, trackingNumber string) (Order, error) {
	var set string
	switch to {
	case StatusShipped:
		set = `status=$3, tracking_number=$4, shipped_at=now(), updated_at=now()`
	case StatusDelivered:
		set = `status=$3, delivered_at=now(), updated_at=now()`
	default:
		set = `status=$3, updated_at=now()`
	}
	var o Order
	var err error
	if to == StatusShipped {
		o, err = scanOrder(r.DB.QueryRow(ctx, `
			UPDATE orders SET `+set+`
			WHERE id=$1 AND status=$2
			RETURNING `+orderCols, orderID, from, to, trackingNumber))
	} else {
		o, err = scanOrder(r.DB.QueryRow(ctx, `
			UPDATE orders SET `+set+`
			WHERE id=$1 AND status=$2
			RETURNING `+orderCols, orderID, from, to))
	}
	if errors.Is(err, ErrNotFound) {
		// row-nya ada tapi status sudah berubah? bedakan dari order hilang
		if _, getErr := r.GetByID(ctx, orderID); getErr != nil {
			return Order{}, getErr
		}
		return Order{}, ErrConflict
	}
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
