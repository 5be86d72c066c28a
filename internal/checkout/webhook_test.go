package checkout

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auroragems/go-jewel-orders/internal/orders"
	"github.com/auroragems/go-jewel-orders/internal/payment"
)

func completedEvent(t *testing.T, eventID, orderID, sessionID string) []byte {
	t.Helper()
	b, err := json.Marshal(payment.WebhookEvent{
		ID:   eventID,
		Type: payment.EventCheckoutCompleted,
		Data: payment.WebhookData{
			SessionID: sessionID,
			Metadata:  map[string]string{"order_id": orderID},
		},
	})
	require.NoError(t, err)
	return b
}

// checkoutOrder siapkan satu order pending+session lewat jalur normal.
func checkoutOrder(t *testing.T, f *fixture) orders.Order {
	t.Helper()
	f.carts.addItem(testUser, "prod-a", "Gold Band", 2, 500)
	res, err := f.svc.CreateOrder(context.Background(), testUser, testBilling, testShipping, "")
	require.NoError(t, err)
	return res.Order
}

func TestWebhook_PaymentCompleted(t *testing.T) {
	f := newFixture(0, 0)
	o := checkoutOrder(t, f)

	body := completedEvent(t, "evt_1", o.ID, o.SessionID)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, "valid"))

	got, err := f.ords.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.PayPaid, got.PaymentStatus)
	assert.Equal(t, orders.StatusProcessing, got.Status)

	assert.Equal(t, 1, f.carts.clearCalls, "cart di-clear setelah pembayaran confirmed")
	assert.Len(t, f.pub.onTopic(orders.TopicOrderConfirmed), 1, "satu notifikasi")
}

func TestWebhook_DuplicateDelivery(t *testing.T) {
	f := newFixture(0, 0)
	o := checkoutOrder(t, f)

	body := completedEvent(t, "evt_1", o.ID, o.SessionID)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, "valid"))
	require.NoError(t, f.svc.HandleWebhook(context.Background(), body, "valid"))

	got, err := f.ords.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, orders.PayPaid, got.PaymentStatus)
	assert.Equal(t, orders.StatusProcessing, got.Status)

	// side effect tetap satu kali walau event datang dua kali
	assert.Equal(t, 1, f.carts.clearCalls)
	assert.Len(t, f.pub.onTopic(orders.TopicOrderConfirmed), 1)
	// transisi processing juga cuma sekali
	assert.Equal(t, []orders.Status{orders.StatusProcessing}, f.ords.status[o.ID])
}

func TestWebhook_InvalidSignature_NoMutation(t *testing.T) {
	f := newFixture(0, 0)
	o := checkoutOrder(t, f)

	body := completedEvent(t, "evt_1", o.ID, o.SessionID)
	err := f.svc.HandleWebhook(context.Background(), body, "t=1,v1=forged")
	assert.ErrorIs(t, err, payment.ErrInvalidSignature)

	got, _ := f.ords.GetByID(context.Background(), o.ID)
	assert.Equal(t, orders.PayPending, got.PaymentStatus, "payload tak terverifikasi tidak boleh mutasi order")
	assert.Equal(t, orders.StatusPending, got.Status)
	assert.Zero(t, f.carts.clearCalls)
	assert.Empty(t, f.pub.messages)
}

func TestWebhook_UnknownOrder_AckedWithoutWrites(t *testing.T) {
	f := newFixture(0, 0)

	body := completedEvent(t, "evt_1", "no-such-order", "sess_nope")
	// ack (nil) supaya gateway berhenti retry; tidak ada row dibuat/diubah
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), body, "valid"))
	assert.Empty(t, f.ords.byID)
	assert.Zero(t, f.carts.clearCalls)
}

func TestWebhook_LookupBySessionFallback(t *testing.T) {
	f := newFixture(0, 0)
	o := checkoutOrder(t, f)

	// metadata kosong -> resolve lewat session id
	b, err := json.Marshal(payment.WebhookEvent{
		ID:   "evt_sess",
		Type: payment.EventCheckoutCompleted,
		Data: payment.WebhookData{SessionID: o.SessionID},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), b, "valid"))

	got, _ := f.ords.GetByID(context.Background(), o.ID)
	assert.Equal(t, orders.PayPaid, got.PaymentStatus)
}

func TestWebhook_OtherEventTypesAcked(t *testing.T) {
	f := newFixture(0, 0)
	o := checkoutOrder(t, f)

	b, err := json.Marshal(payment.WebhookEvent{
		ID:   "evt_x",
		Type: "checkout.session.expired",
		Data: payment.WebhookData{Metadata: map[string]string{"order_id": o.ID}},
	})
	require.NoError(t, err)
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), b, "valid"))

	got, _ := f.ords.GetByID(context.Background(), o.ID)
	assert.Equal(t, orders.PayPending, got.PaymentStatus, "event lain di-ack tanpa transisi")
}

func TestWebhook_PaymentFailed_ThenRetryCheckout(t *testing.T) {
	f := newFixture(0, 0)
	o := checkoutOrder(t, f)

	b, err := json.Marshal(payment.WebhookEvent{
		ID:   "evt_fail",
		Type: payment.EventCheckoutFailed,
		Data: payment.WebhookData{Metadata: map[string]string{"order_id": o.ID}},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleWebhook(context.Background(), b, "valid"))

	got, _ := f.ords.GetByID(context.Background(), o.ID)
	assert.Equal(t, orders.PayFailed, got.PaymentStatus)
	assert.Equal(t, orders.StatusPending, got.Status, "order tetap pending biar bisa coba bayar lagi")
	assert.Zero(t, f.carts.clearCalls)

	// checkout ulang: order sama, session baru
	res, err := f.svc.CreateOrder(context.Background(), testUser, testBilling, testShipping, "")
	require.NoError(t, err)
	assert.Equal(t, o.ID, res.Order.ID)
	assert.Equal(t, orders.PayPending, res.Order.PaymentStatus)
	assert.NotEmpty(t, res.Order.SessionID)
	assert.Equal(t, 2, f.gw.sessionsMade)
}

func TestWebhook_GarbledButSignedPayloadAcked(t *testing.T) {
	f := newFixture(0, 0)
	assert.NoError(t, f.svc.HandleWebhook(context.Background(), []byte(`{not json`), "valid"))
}
