package catalog

import "context"

type Repository interface {
	ListProducts(ctx context.Context) ([]Product, error)
	ListVariants(ctx context.Context, productID string) ([]Variant, error)

	// FindVariant возвращает вариант по паре продукт+вариант;
	// ErrVariantNotFound если вариант удален или никогда не существовал
	FindVariant(ctx context.Context, productID, variantID string) (Variant, error)
}
