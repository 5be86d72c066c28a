package redisx

import "time"

const (
	// Fast-path idempotency checkout: idem:checkout:{user_id} -> order_id.
	// Kebenaran tetap di DB (partial unique index), ini cuma shortcut.
	KeyIdemCheckout = "idem:checkout:%s"

	// Dedup webhook event: dedup:webhook:{event_id} -> 1
	KeyWebhookDedup = "dedup:webhook:%s"

	// Dedup notifikasi di consumer: dedup:notifier:{event_id} -> 1
	KeyNotifierDedup = "dedup:notifier:%s"

	// Cache status order: order_status:{order_id} -> {"status":"...","payment_status":"..."}
	KeyOrderStatus = "order_status:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
	TTLStatusCache = 5 * time.Minute
)
