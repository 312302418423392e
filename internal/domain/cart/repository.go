package cart

import (
	"context"
	"time"
)

// Repository серверное хранилище корзин и заказов.
// Корзина хранится по принципу last-sync-wins: каждый успешный обмен
// полностью замещает прежний серверный снимок пользователя.
type Repository interface {
	// SaveSnapshot замещает серверную корзину пользователя переданным снимком
	SaveSnapshot(ctx context.Context, userID int, items []CartItem, total int64, itemCount int, lastUpdated time.Time) error

	// LoadSnapshot возвращает серверную корзину пользователя
	LoadSnapshot(ctx context.Context, userID int) ([]CartItem, error)

	// Clear опустошает серверную корзину пользователя
	Clear(ctx context.Context, userID int) error

	// CreateOrder создает заказ из переданных позиций
	CreateOrder(ctx context.Context, userID int, orderID string, items []CartItem, total int64) error
}
