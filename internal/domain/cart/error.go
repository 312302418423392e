package cart

import "errors"

var (
	ErrItemNotFound = errors.New("cart item not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidItem  = errors.New("invalid cart item")
)
