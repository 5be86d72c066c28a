package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Skema signature webhook: header "t=<unix>,v1=<hex>" dengan
// v1 = HMAC-SHA256(secret, "<unix>.<payload>"). Timestamp di-cek terhadap
// toleransi untuk menahan replay payload lama.
const signatureTolerance = 5 * time.Minute

func SignPayload(secret []byte, ts time.Time, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	unix := strconv.FormatInt(ts.Unix(), 10)
	mac.Write([]byte(unix))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", unix, hex.EncodeToString(mac.Sum(nil)))
}

func verifySignature(secret []byte, payload []byte, sigHeader string, now time.Time) error {
	var tsPart, sigPart string
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			tsPart = v
		case "v1":
			sigPart = v
		}
	}
	if tsPart == "" || sigPart == "" {
		return ErrInvalidSignature
	}

	unix, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return ErrInvalidSignature
	}
	age := now.Sub(time.Unix(unix, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(tsPart))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(sigPart)
	if err != nil {
		return ErrInvalidSignature
	}
	if !hmac.Equal(expected, got) {
		return ErrInvalidSignature
	}
	return nil
}
