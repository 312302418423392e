package postgres

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"freshcart/internal/domain/cart"
)

type CartRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCartRepository(db *Storage, log *slog.Logger) *CartRepository {
	return &CartRepository{
		db:  db,
		log: log,
	}
}

// SaveSnapshot замещает серверную корзину пользователя целиком (last-sync-wins)
func (r *CartRepository) SaveSnapshot(ctx context.Context, userID int, items []cart.CartItem, total int64, itemCount int, lastUpdated time.Time) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO carts (user_id, total, item_count, last_updated)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET total = excluded.total, item_count = excluded.item_count, last_updated = excluded.last_updated`,
		userID, total, itemCount, lastUpdated)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}

	for _, it := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO cart_items
			 (user_id, item_id, product_id, variant_id, name, unit_kind, unit_amount, price, quantity, thumbnail, max_stock)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			userID, it.ID, it.ProductID, it.VariantID, it.Name,
			it.Unit.Kind, it.Unit.Amount, it.Price, it.Quantity, it.Thumbnail, it.MaxStock)
		if err != nil {
			return fmt.Errorf("insert cart item %s: %w", it.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *CartRepository) LoadSnapshot(ctx context.Context, userID int) ([]cart.CartItem, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT item_id, product_id, variant_id, name, unit_kind, unit_amount, price, quantity, thumbnail, max_stock
		 FROM cart_items WHERE user_id = $1 ORDER BY item_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []cart.CartItem
	for rows.Next() {
		var it cart.CartItem
		err := rows.Scan(&it.ID, &it.ProductID, &it.VariantID, &it.Name,
			&it.Unit.Kind, &it.Unit.Amount, &it.Price, &it.Quantity, &it.Thumbnail, &it.MaxStock)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *CartRepository) Clear(ctx context.Context, userID int) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	_, err = tx.Exec(ctx,
		`UPDATE carts SET total = 0, item_count = 0, last_updated = NOW() WHERE user_id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("reset cart: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *CartRepository) CreateOrder(ctx context.Context, userID int, orderID string, items []cart.CartItem, total int64) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, total) VALUES ($1, $2, $3)`,
		orderID, userID, total)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items
			 (order_id, item_id, product_id, variant_id, name, unit_kind, unit_amount, price, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			orderID, it.ID, it.ProductID, it.VariantID, it.Name,
			it.Unit.Kind, it.Unit.Amount, it.Price, it.Quantity)
		if err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ID, err)
		}
	}

	return tx.Commit(ctx)
}
