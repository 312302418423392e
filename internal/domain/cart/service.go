package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"freshcart/internal/domain/catalog"
)

// Servicer интерфейс серверного сервиса корзины
type Servicer interface {
	// Sync принимает снимок клиентской корзины и возвращает авторитетное
	// представление распознанных позиций (живая цена, остаток)
	Sync(ctx context.Context, userID int, req SyncRequest) (*SyncResponse, error)

	// Checkout оформляет заказ из серверной корзины и опустошает ее
	Checkout(ctx context.Context, userID int) (*CheckoutResponse, error)
}

type Service struct {
	repo    Repository
	catalog catalog.Repository
	log     *slog.Logger
}

func NewService(repo Repository, catalogRepo catalog.Repository, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalogRepo,
		log:     log,
	}
}

// Sync сверяет каждую позицию снимка с каталогом. Позиции с живыми
// вариантами попадают в ответ с актуальной ценой и остатком (количество
// ограничивается остатком); позиции без варианта опускаются — клиент
// трактует отсутствие как удаление. Серверная корзина замещается
// выверенным снимком (last-sync-wins).
func (s *Service) Sync(ctx context.Context, userID int, req SyncRequest) (*SyncResponse, error) {
	updated := make([]ServerCartItem, 0, len(req.Items))
	live := make([]CartItem, 0, len(req.Items))

	for _, it := range req.Items {
		v, err := s.catalog.FindVariant(ctx, it.ProductID, it.VariantID)
		if err != nil {
			if errors.Is(err, catalog.ErrVariantNotFound) {
				s.log.Debug("вариант не распознан, позиция будет удалена у клиента",
					"item_id", it.ID, "user_id", userID)
				continue
			}
			return nil, fmt.Errorf("find variant %s: %w", it.ID, err)
		}

		if !v.Active || v.Stock <= 0 {
			s.log.Debug("вариант недоступен, позиция будет удалена у клиента",
				"item_id", it.ID, "user_id", userID)
			continue
		}

		qty := it.Quantity
		if qty > v.Stock {
			qty = v.Stock
		}

		updated = append(updated, ServerCartItem{
			ID:       it.ID,
			Quantity: qty,
			Price:    v.Price,
			MaxStock: v.Stock,
		})

		it.Quantity = qty
		it.Price = v.Price
		it.MaxStock = v.Stock
		live = append(live, it)
	}

	var total int64
	count := 0
	for _, it := range live {
		total += it.Subtotal()
		count += it.Quantity
	}

	if err := s.repo.SaveSnapshot(ctx, userID, live, total, count, req.LastUpdated); err != nil {
		return nil, fmt.Errorf("save cart snapshot: %w", err)
	}

	return &SyncResponse{
		Success:      true,
		UpdatedItems: updated,
	}, nil
}

// Checkout создает заказ из текущей серверной корзины
func (s *Service) Checkout(ctx context.Context, userID int) (*CheckoutResponse, error) {
	items, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}

	orderID := uuid.NewString()
	if err := s.repo.CreateOrder(ctx, userID, orderID, items, total); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := s.repo.Clear(ctx, userID); err != nil {
		s.log.Warn("не удалось опустошить серверную корзину после заказа",
			"user_id", userID, "order_id", orderID, "error", err)
	}

	return &CheckoutResponse{
		Status:  "Ok",
		OrderID: orderID,
		Total:   total,
	}, nil
}
