package address

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("address not found")

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, a Address) (Address, error) {
	a.ID = uuid.NewString()
	err := r.DB.QueryRow(ctx, `
		INSERT INTO addresses (id, user_id, label, recipient, line1, line2, city, province, postal_code, country, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at`,
		a.ID, a.UserID, a.Label, a.Recipient, a.Line1, a.Line2, a.City, a.Province, a.PostalCode, a.Country, a.Phone).
		Scan(&a.CreatedAt)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Address, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, label, recipient, line1, line2, city, province, postal_code, country, phone, created_at
		FROM addresses WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.Recipient, &a.Line1, &a.Line2, &a.City,
			&a.Province, &a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// BelongsTo dipakai checkout buat validasi ownership billing/shipping address.
func (r *Repo) BelongsTo(ctx context.Context, addressID, userID string) (bool, error) {
	var owner string
	err := r.DB.QueryRow(ctx, `SELECT user_id FROM addresses WHERE id=$1`, addressID).Scan(&owner)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return owner == userID, nil
}
