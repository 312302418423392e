package cart

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) syncOp() huma.Operation {
	return huma.Operation{
		OperationID: "cart-sync",
		Method:      http.MethodPost,
		Path:        "/api/v1/cart/sync",
		Summary:     "Синхронизация корзины",
		Description: "Принимает полный снимок клиентской корзины и возвращает авторитетное представление распознанных позиций",
		Tags:        []string{"cart"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}

func (h *Handler) checkoutOp() huma.Operation {
	return huma.Operation{
		OperationID: "cart-checkout",
		Method:      http.MethodPost,
		Path:        "/api/v1/cart/checkout",
		Summary:     "Оформление заказа",
		Description: "Создает заказ из серверной корзины пользователя и опустошает ее",
		Tags:        []string{"cart"},
		Security:    []map[string][]string{{"bearer": {}}},
		Middlewares: h.middleware,
	}
}
