package catalog

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
)

// Servicer интерфейс сервиса каталога
type Servicer interface {
	// List возвращает все товары вместе с фасовками
	List(ctx context.Context) ([]ProductWithVariants, error)
}

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

func (s *Service) List(ctx context.Context) ([]ProductWithVariants, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := make([]ProductWithVariants, 0, len(products))
	for _, p := range products {
		variants, err := s.repo.ListVariants(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list variants for %s: %w", p.ID, err)
		}
		result = append(result, ProductWithVariants{
			Product:  p,
			Variants: variants,
		})
	}

	return result, nil
}
