package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/exp/slog"

	"freshcart/internal/domain/catalog"
)

type CatalogRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCatalogRepository(db *Storage, log *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:  db,
		log: log,
	}
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, name, description, thumbnail, created_at
		 FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Thumbnail, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (r *CatalogRepository) ListVariants(ctx context.Context, productID string) ([]catalog.Variant, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT id, product_id, unit_kind, unit_amount, price, stock, active
		 FROM product_variants WHERE product_id = $1 ORDER BY unit_amount`,
		productID)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var variants []catalog.Variant
	for rows.Next() {
		var v catalog.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.UnitKind, &v.UnitAmount, &v.Price, &v.Stock, &v.Active); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}

	return variants, rows.Err()
}

func (r *CatalogRepository) FindVariant(ctx context.Context, productID, variantID string) (catalog.Variant, error) {
	var v catalog.Variant
	err := r.db.Pool().QueryRow(ctx,
		`SELECT id, product_id, unit_kind, unit_amount, price, stock, active
		 FROM product_variants WHERE product_id = $1 AND id = $2`,
		productID, variantID).
		Scan(&v.ID, &v.ProductID, &v.UnitKind, &v.UnitAmount, &v.Price, &v.Stock, &v.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return v, catalog.ErrVariantNotFound
	}
	if err != nil {
		return v, fmt.Errorf("query variant: %w", err)
	}

	return v, nil
}
