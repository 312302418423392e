package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"freshcart/internal/app/server/api/http/middleware/auth"
	"freshcart/internal/domain/cart"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Sync(ctx context.Context, userID int, req cart.SyncRequest) (*cart.SyncResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.SyncResponse), args.Error(1)
}

func (m *MockService) Checkout(ctx context.Context, userID int) (*cart.CheckoutResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CheckoutResponse), args.Error(1)
}

func authCtx(userID int) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, userID)
}

func TestHandler_sync(t *testing.T) {
	service := new(MockService)
	handler := NewHandler(service, slog.Default(), huma.Middlewares{})

	req := cart.SyncRequest{
		Items: []cart.CartItem{{ID: "p1:v1", ProductID: "p1", VariantID: "v1", Price: 6000, Quantity: 2}},
		Total: 12000,
	}
	service.On("Sync", mock.Anything, 7, req).Return(&cart.SyncResponse{
		Success: true,
		UpdatedItems: []cart.ServerCartItem{
			{ID: "p1:v1", Quantity: 2, Price: 6000, MaxStock: 10},
		},
	}, nil)

	output, err := handler.sync(authCtx(7), &syncInput{Body: req})

	require.NoError(t, err)
	assert.True(t, output.Body.Success)
	require.Len(t, output.Body.UpdatedItems, 1)
	service.AssertExpectations(t)
}

func TestHandler_sync_NoUser(t *testing.T) {
	service := new(MockService)
	handler := NewHandler(service, slog.Default(), huma.Middlewares{})

	_, err := handler.sync(context.Background(), &syncInput{})

	assert.Error(t, err)
	service.AssertNotCalled(t, "Sync")
}

func TestHandler_sync_ServiceError(t *testing.T) {
	service := new(MockService)
	handler := NewHandler(service, slog.Default(), huma.Middlewares{})

	service.On("Sync", mock.Anything, 7, mock.Anything).Return(nil, errors.New("db down"))

	_, err := handler.sync(authCtx(7), &syncInput{})

	assert.Error(t, err)
}

func TestHandler_checkout(t *testing.T) {
	service := new(MockService)
	handler := NewHandler(service, slog.Default(), huma.Middlewares{})

	service.On("Checkout", mock.Anything, 7).Return(&cart.CheckoutResponse{
		Status:  "Ok",
		OrderID: "order-1",
		Total:   12000,
	}, nil)

	output, err := handler.checkout(authCtx(7), &checkoutInput{})

	require.NoError(t, err)
	assert.Equal(t, "Ok", output.Body.Status)
	assert.Equal(t, int64(12000), output.Body.Total)
}

func TestHandler_checkout_EmptyCart(t *testing.T) {
	service := new(MockService)
	handler := NewHandler(service, slog.Default(), huma.Middlewares{})

	service.On("Checkout", mock.Anything, 7).Return(nil, cart.ErrEmptyCart)

	output, err := handler.checkout(authCtx(7), &checkoutInput{})

	require.NoError(t, err)
	assert.Equal(t, "Error", output.Body.Status)
	assert.Equal(t, cart.ErrEmptyCart.Error(), output.Body.Error)
}
