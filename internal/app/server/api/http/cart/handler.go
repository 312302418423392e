package cart

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"freshcart/internal/app/server/api/http/middleware/auth"
	"freshcart/internal/domain/cart"
)

type Handler struct {
	service    cart.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service cart.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.syncOp(), h.sync)
	huma.Register(api, h.checkoutOp(), h.checkout)
}

func (h *Handler) sync(ctx context.Context, input *syncInput) (*syncOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("session_expired")
	}

	response, err := h.service.Sync(ctx, userID, input.Body)
	if err != nil {
		h.log.Error("ошибка синхронизации корзины", "user_id", userID, "error", err)
		return nil, huma.Error500InternalServerError("sync failed")
	}

	return &syncOutput{
		Body: *response,
	}, nil
}

func (h *Handler) checkout(ctx context.Context, _ *checkoutInput) (*checkoutOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("session_expired")
	}

	response, err := h.service.Checkout(ctx, userID)
	if err != nil {
		return &checkoutOutput{
			Body: cart.CheckoutResponse{
				Status: "Error",
				Error:  err.Error(),
			},
		}, nil
	}

	return &checkoutOutput{
		Body: *response,
	}, nil
}
