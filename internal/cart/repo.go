package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
)

type Repo struct{ DB *pgxpool.Pool }

// GetOrCreate: satu cart aktif per user, dibikin lazy. ON CONFLICT supaya dua
// request paralel tidak bikin dua cart.
func (r *Repo) GetOrCreate(ctx context.Context, userID string) (Cart, error) {
	var c Cart
	err := r.DB.QueryRow(ctx, `
		INSERT INTO carts (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
		RETURNING id, user_id, created_at, updated_at`,
		uuid.NewString(), userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Cart{}, err
	}
	items, err := r.listItems(ctx, c.ID)
	if err != nil {
		return Cart{}, err
	}
	c.Items = items
	return c, nil
}

func (r *Repo) listItems(ctx context.Context, cartID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, p.name, ci.qty, ci.price_cents, ci.customizations, ci.created_at
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.ProductName, &it.Qty, &it.PriceCents, &it.Customizations, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// AddItem: harga di-snapshot dari products sekali di sini. Produk yang sudah
// ada di cart -> qty ditambah, customizations diganti (bukan row baru).
func (r *Repo) AddItem(ctx context.Context, cartID, productID string, qty int, customizations map[string]string) (Item, error) {
	if qty <= 0 {
		return Item{}, errors.New("qty must be positive")
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Item{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var name string
	var price int
	err = tx.QueryRow(ctx, `SELECT name, price_cents FROM products WHERE id=$1`, productID).Scan(&name, &price)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrProductNotFound
	}
	if err != nil {
		return Item{}, err
	}

	var it Item
	it.ProductName = name
	err = tx.QueryRow(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, qty, price_cents, customizations)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, product_id) DO UPDATE
			SET qty = cart_items.qty + EXCLUDED.qty,
			    customizations = EXCLUDED.customizations
		RETURNING id, cart_id, product_id, qty, price_cents, customizations, created_at`,
		uuid.NewString(), cartID, productID, qty, price, customizations).
		Scan(&it.ID, &it.CartID, &it.ProductID, &it.Qty, &it.PriceCents, &it.Customizations, &it.CreatedAt)
	if err != nil {
		return Item{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Item{}, err
	}
	return it, nil
}

func (r *Repo) UpdateItem(ctx context.Context, cartID, itemID string, qty int, customizations map[string]string) (Item, error) {
	if qty <= 0 {
		return Item{}, errors.New("qty must be positive")
	}
	var it Item
	err := r.DB.QueryRow(ctx, `
		UPDATE cart_items SET qty=$3, customizations=$4
		WHERE id=$1 AND cart_id=$2
		RETURNING id, cart_id, product_id, qty, price_cents, customizations, created_at`,
		itemID, cartID, qty, customizations).
		Scan(&it.ID, &it.CartID, &it.ProductID, &it.Qty, &it.PriceCents, &it.Customizations, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, err
	}
	return it, nil
}

// RemoveItem: no-op kalau item sudah tidak ada, end state sama saja.
func (r *Repo) RemoveItem(ctx context.Context, cartID, itemID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE id=$1 AND cart_id=$2`, itemID, cartID)
	return err
}

// Clear mengosongkan isi cart, row cart-nya sendiri tetap ada.
func (r *Repo) Clear(ctx context.Context, cartID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID)
	return err
}
