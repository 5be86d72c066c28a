package orders

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict: conditional update kalah lomba dengan update lain
	// (webhook vs admin). Caller boleh re-read dan coba lagi.
	ErrConflict = errors.New("order changed concurrently")
)
