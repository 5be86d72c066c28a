package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Alfabet tanpa 0/O/1/I biar gampang dibaca customer service.
const numberAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewNumber menghasilkan nomor order human-readable, contoh: ORD-20260830-7KQ2MX.
// Tidak dijamin unik; caller retry kalau kena unique constraint (lihat repo).
func NewNumber(now time.Time) string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand gagal = sistem lagi rusak berat
	}
	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), buf)
}
