package catalog

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"freshcart/internal/domain/catalog"
)

type Handler struct {
	service    catalog.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service catalog.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) list(ctx context.Context, _ *listInput) (*listOutput, error) {
	products, err := h.service.List(ctx)
	if err != nil {
		h.log.Error("ошибка чтения каталога", "error", err)
		return &listOutput{
			Body: ListResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &listOutput{
		Body: ListResponse{Status: "Ok", Products: products},
	}, nil
}
