package cart

import "time"

// SyncRequest полный снимок корзины на момент вызова
type SyncRequest struct {
	Items       []CartItem `json:"items"`
	Total       int64      `json:"total" minimum:"0"`
	ItemCount   int        `json:"itemCount" minimum:"0"`
	LastUpdated time.Time  `json:"lastUpdated" format:"date-time"`
}

// ServerCartItem авторитетное представление позиции, которую сервер распознал
type ServerCartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
	MaxStock int    `json:"maxStock"`
}

// SyncResponse результат обмена. Позиции, отсутствующие в UpdatedItems,
// сервер больше не распознает — клиент удаляет их локально.
type SyncResponse struct {
	Success      bool             `json:"success"`
	UpdatedItems []ServerCartItem `json:"updatedItems,omitempty"`
}

// CheckoutResponse результат оформления заказа
type CheckoutResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	OrderID string `json:"order_id,omitempty"`
	Total   int64  `json:"total,omitempty"`
}
