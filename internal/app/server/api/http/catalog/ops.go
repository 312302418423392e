package catalog

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "catalog-list",
		Method:      http.MethodGet,
		Path:        "/api/v1/products",
		Summary:     "Каталог товаров",
		Description: "Возвращает все товары вместе с фасовками, ценами и остатками",
		Tags:        []string{"catalog"},
		Middlewares: h.middleware,
	}
}
