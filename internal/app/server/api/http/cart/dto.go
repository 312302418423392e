package cart

import "freshcart/internal/domain/cart"

type syncInput struct {
	Body cart.SyncRequest
}

type syncOutput struct {
	Body cart.SyncResponse
}

type checkoutInput struct{}

type checkoutOutput struct {
	Body cart.CheckoutResponse
}
