package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("whsec_test_123")

func TestVerifySignature_Roundtrip(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Now()

	header := SignPayload(testSecret, now, payload)
	require.NoError(t, verifySignature(testSecret, payload, header, now))
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	now := time.Now()

	header := SignPayload([]byte("other-secret"), now, payload)
	assert.ErrorIs(t, verifySignature(testSecret, payload, header, now), ErrInvalidSignature)
}

func TestVerifySignature_TamperedPayload(t *testing.T) {
	now := time.Now()
	header := SignPayload(testSecret, now, []byte(`{"amount":100}`))
	assert.ErrorIs(t, verifySignature(testSecret, []byte(`{"amount":999}`), header, now), ErrInvalidSignature)
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{}`)
	signedAt := time.Now().Add(-10 * time.Minute)

	header := SignPayload(testSecret, signedAt, payload)
	assert.ErrorIs(t, verifySignature(testSecret, payload, header, time.Now()), ErrInvalidSignature,
		"payload lama harus ditolak (replay)")
}

func TestVerifySignature_MalformedHeader(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	for _, header := range []string{
		"",
		"garbage",
		"t=123",
		"v1=deadbeef",
		"t=notanumber,v1=deadbeef",
		"t=123,v1=zzzz",
	} {
		assert.ErrorIs(t, verifySignature(testSecret, payload, header, now), ErrInvalidSignature, "header=%q", header)
	}
}
