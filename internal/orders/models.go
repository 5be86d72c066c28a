package orders

import "time"

type Order struct {
	ID                string     `json:"id"`
	Number            string     `json:"number"` // human-readable, unik
	UserID            string     `json:"user_id"`
	Status            Status     `json:"status"`         // lihat status.go
	PaymentStatus     PayStatus  `json:"payment_status"` // axis terpisah dari Status
	SubtotalCents     int        `json:"subtotal_cents"`
	TaxCents          int        `json:"tax_cents"`
	ShippingCents     int        `json:"shipping_cents"`
	DiscountCents     int        `json:"discount_cents"`
	TotalCents        int        `json:"total_cents"`
	BillingAddressID  string     `json:"billing_address_id"`
	ShippingAddressID string     `json:"shipping_address_id"`
	SessionID         string     `json:"session_id,omitempty"`  // checkout session di gateway
	SessionURL        string     `json:"session_url,omitempty"` // hosted checkout page
	Notes             string     `json:"notes,omitempty"`
	TrackingNumber    string     `json:"tracking_number,omitempty"`
	ShippedAt         *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt       *time.Time `json:"delivered_at,omitempty"`
	Items             []OrderItem `json:"items,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// OrderItem adalah salinan beku dari cart item saat order dibuat; harga tidak
// ikut berubah kalau harga produk di katalog berubah.
type OrderItem struct {
	ID             string            `json:"id"`
	OrderID        string            `json:"order_id"`
	ProductID      string            `json:"product_id"`
	Name           string            `json:"name"`
	Qty            int               `json:"qty"`
	PriceCents     int               `json:"price_cents"`
	Customizations map[string]string `json:"customizations,omitempty"`
}
