package checkout

import "errors"

var (
	ErrEmptyCart = errors.New("cart is empty")
	ErrForbidden = errors.New("address does not belong to user")
)
