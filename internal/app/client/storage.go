package client

import (
	"freshcart/internal/domain/cart"
)

// Storage адаптер долговременного хранения снимка корзины.
// Контракт намеренно узкий: один снимок на клиента, никакой бизнес-логики.
// Отсутствующий или поврежденный снимок читается как (nil, nil) — движок
// трактует это как "прежней корзины нет" и никогда не падает из-за хранилища.
type Storage interface {
	SaveCart(state *cart.CartState) error
	LoadCart() (*cart.CartState, error)
	Close() error
}
