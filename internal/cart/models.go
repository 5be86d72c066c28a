package cart

import "time"

type Cart struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Item menyimpan snapshot harga saat produk dimasukkan; checkout tidak boleh
// baca ulang harga dari katalog.
type Item struct {
	ID             string            `json:"id"`
	CartID         string            `json:"cart_id"`
	ProductID      string            `json:"product_id"`
	ProductName    string            `json:"product_name"`
	Qty            int               `json:"qty"`
	PriceCents     int               `json:"price_cents"`
	Customizations map[string]string `json:"customizations,omitempty"` // metal, ring size, engraving, ...
	CreatedAt      time.Time         `json:"created_at"`
}

func (c *Cart) SubtotalCents() int {
	total := 0
	for _, it := range c.Items {
		total += it.PriceCents * it.Qty
	}
	return total
}
