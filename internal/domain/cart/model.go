package cart

import (
	"encoding/json"
	"time"
)

// SyncStatus статус синхронизации корзины с сервером
type SyncStatus string

const (
	SyncIdle     SyncStatus = "idle"
	SyncSyncing  SyncStatus = "syncing"
	SyncRetrying SyncStatus = "retrying"
	SyncError    SyncStatus = "error"
)

// ActionType тип отложенного действия в очереди синхронизации
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionRemove ActionType = "remove"
	ActionUpdate ActionType = "update"
	ActionClear  ActionType = "clear"
)

// UnitKind единица измерения фасовки товара
type UnitKind string

const (
	UnitPiece    UnitKind = "PIECE"
	UnitGram     UnitKind = "GRAM"
	UnitKilogram UnitKind = "KILOGRAM"
	UnitLiter    UnitKind = "LITER"
)

// Unit фасовка товара: единица измерения и количество (например, "500 GRAM")
type Unit struct {
	Kind   UnitKind `json:"kind"`
	Amount float64  `json:"amount"`
}

// CartItem одна позиция корзины.
// Идентификатор детерминированно выводится из пары продукт+вариант,
// поэтому повторное добавление того же варианта увеличивает количество,
// а не создает дубликат строки.
type CartItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	Unit      Unit   `json:"unit"`
	Price     int64  `json:"price"` // минорные единицы валюты, без плавающей точки
	Quantity  int    `json:"quantity"`
	Thumbnail string `json:"thumbnail,omitempty"`
	MaxStock  int    `json:"max_stock,omitempty"` // справочно; авторитетный остаток хранится на сервере
}

// ItemID строит стабильный идентификатор позиции из пары продукт+вариант
func ItemID(productID, variantID string) string {
	return productID + ":" + variantID
}

// Subtotal стоимость позиции
func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// SyncAction запись о намерении: мутация, еще не подтвержденная сервером.
// Очередь очищается целиком после успешного обмена — движок гарантирует
// доставку актуального снимка, а не каждого действия по отдельности.
type SyncAction struct {
	Type      ActionType      `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// CartState полный снимок корзины
type CartState struct {
	Items       []CartItem   `json:"items"`
	Total       int64        `json:"total"`
	ItemCount   int          `json:"item_count"`
	LastUpdated time.Time    `json:"last_updated"`
	SyncStatus  SyncStatus   `json:"sync_status"`
	SyncQueue   []SyncAction `json:"sync_queue"`
	RetryCount  int          `json:"retry_count"`
}

// NewCartState создает пустую корзину
func NewCartState() *CartState {
	return &CartState{
		Items:      []CartItem{},
		SyncStatus: SyncIdle,
		SyncQueue:  []SyncAction{},
	}
}

// Recompute пересчитывает производные поля из позиций.
// Всегда полный пересчет, а не инкрементальная арифметика: так итоги
// не расходятся с позициями после длинной череды мутаций.
func (s *CartState) Recompute() {
	var total int64
	count := 0
	for _, it := range s.Items {
		total += it.Subtotal()
		count += it.Quantity
	}
	s.Total = total
	s.ItemCount = count
}

// FindItem возвращает индекс позиции по идентификатору
func (s *CartState) FindItem(id string) (int, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// Clone возвращает глубокую копию снимка
func (s *CartState) Clone() *CartState {
	c := *s
	c.Items = make([]CartItem, len(s.Items))
	copy(c.Items, s.Items)
	c.SyncQueue = make([]SyncAction, len(s.SyncQueue))
	copy(c.SyncQueue, s.SyncQueue)
	return &c
}
