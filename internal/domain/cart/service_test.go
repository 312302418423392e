package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"freshcart/internal/domain/catalog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SaveSnapshot(ctx context.Context, userID int, items []CartItem, total int64, itemCount int, lastUpdated time.Time) error {
	args := m.Called(ctx, userID, items, total, itemCount, lastUpdated)
	return args.Error(0)
}

func (m *MockRepository) LoadSnapshot(ctx context.Context, userID int) ([]CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]CartItem), args.Error(1)
}

func (m *MockRepository) Clear(ctx context.Context, userID int) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) CreateOrder(ctx context.Context, userID int, orderID string, items []CartItem, total int64) error {
	args := m.Called(ctx, userID, orderID, items, total)
	return args.Error(0)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalog) ListVariants(ctx context.Context, productID string) ([]catalog.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockCatalog) FindVariant(ctx context.Context, productID, variantID string) (catalog.Variant, error) {
	args := m.Called(ctx, productID, variantID)
	return args.Get(0).(catalog.Variant), args.Error(1)
}

func milkItem(qty int) CartItem {
	return CartItem{
		ID:        ItemID("p1", "v1"),
		ProductID: "p1",
		VariantID: "v1",
		Name:      "Молоко",
		Unit:      Unit{Kind: UnitLiter, Amount: 1},
		Price:     6000,
		Quantity:  qty,
	}
}

func TestService_Sync_LivePriceAndStock(t *testing.T) {
	repo := new(MockRepository)
	cat := new(MockCatalog)
	svc := NewService(repo, cat, slog.Default())

	// Цена выросла, остатка хватает
	cat.On("FindVariant", mock.Anything, "p1", "v1").
		Return(catalog.Variant{ID: "v1", ProductID: "p1", Price: 6500, Stock: 10, Active: true}, nil)
	repo.On("SaveSnapshot", mock.Anything, 7, mock.Anything, int64(13000), 2, mock.Anything).
		Return(nil)

	resp, err := svc.Sync(context.Background(), 7, SyncRequest{
		Items:     []CartItem{milkItem(2)},
		Total:     12000,
		ItemCount: 2,
	})

	require.NoError(t, err)
	require.Len(t, resp.UpdatedItems, 1)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(6500), resp.UpdatedItems[0].Price)
	assert.Equal(t, 2, resp.UpdatedItems[0].Quantity)
	assert.Equal(t, 10, resp.UpdatedItems[0].MaxStock)
	repo.AssertExpectations(t)
}

func TestService_Sync_QuantityClampedToStock(t *testing.T) {
	repo := new(MockRepository)
	cat := new(MockCatalog)
	svc := NewService(repo, cat, slog.Default())

	cat.On("FindVariant", mock.Anything, "p1", "v1").
		Return(catalog.Variant{ID: "v1", ProductID: "p1", Price: 6000, Stock: 3, Active: true}, nil)
	repo.On("SaveSnapshot", mock.Anything, 7, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	resp, err := svc.Sync(context.Background(), 7, SyncRequest{
		Items: []CartItem{milkItem(8)},
	})

	require.NoError(t, err)
	require.Len(t, resp.UpdatedItems, 1)
	assert.Equal(t, 3, resp.UpdatedItems[0].Quantity)
}

func TestService_Sync_UnknownVariantOmitted(t *testing.T) {
	repo := new(MockRepository)
	cat := new(MockCatalog)
	svc := NewService(repo, cat, slog.Default())

	cat.On("FindVariant", mock.Anything, "p1", "v1").
		Return(catalog.Variant{}, catalog.ErrVariantNotFound)
	repo.On("SaveSnapshot", mock.Anything, 7, mock.Anything, int64(0), 0, mock.Anything).
		Return(nil)

	resp, err := svc.Sync(context.Background(), 7, SyncRequest{
		Items: []CartItem{milkItem(1)},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.UpdatedItems)
}

func TestService_Sync_InactiveVariantOmitted(t *testing.T) {
	repo := new(MockRepository)
	cat := new(MockCatalog)
	svc := NewService(repo, cat, slog.Default())

	cat.On("FindVariant", mock.Anything, "p1", "v1").
		Return(catalog.Variant{ID: "v1", ProductID: "p1", Price: 6000, Stock: 5, Active: false}, nil)
	repo.On("SaveSnapshot", mock.Anything, 7, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)

	resp, err := svc.Sync(context.Background(), 7, SyncRequest{
		Items: []CartItem{milkItem(1)},
	})

	require.NoError(t, err)
	assert.Empty(t, resp.UpdatedItems)
}

func TestService_Checkout(t *testing.T) {
	repo := new(MockRepository)
	cat := new(MockCatalog)
	svc := NewService(repo, cat, slog.Default())

	repo.On("LoadSnapshot", mock.Anything, 7).Return([]CartItem{milkItem(2)}, nil)
	repo.On("CreateOrder", mock.Anything, 7, mock.Anything, mock.Anything, int64(12000)).Return(nil)
	repo.On("Clear", mock.Anything, 7).Return(nil)

	resp, err := svc.Checkout(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "Ok", resp.Status)
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, int64(12000), resp.Total)
	repo.AssertExpectations(t)
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	repo := new(MockRepository)
	cat := new(MockCatalog)
	svc := NewService(repo, cat, slog.Default())

	repo.On("LoadSnapshot", mock.Anything, 7).Return([]CartItem{}, nil)

	_, err := svc.Checkout(context.Background(), 7)
	assert.ErrorIs(t, err, ErrEmptyCart)
}
