package payment

import "encoding/json"

// Tipe event webhook dari gateway. Selain dua ini cukup di-ack tanpa aksi,
// gateway berhenti retry begitu dapat 2xx.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutFailed    = "checkout.session.failed"
)

type WebhookEvent struct {
	ID   string       `json:"id"`
	Type string       `json:"type"`
	Data WebhookData  `json:"data"`
}

type WebhookData struct {
	SessionID string            `json:"session_id"`
	Metadata  map[string]string `json:"metadata"` // berisi order_id yang kita kirim saat create session
}

func ParseWebhookEvent(payload []byte) (WebhookEvent, error) {
	var ev WebhookEvent
	err := json.Unmarshal(payload, &ev)
	return ev, err
}

// OrderID dari metadata; fallback kosong -> caller lookup via session id.
func (e WebhookEvent) OrderID() string {
	return e.Data.Metadata["order_id"]
}
