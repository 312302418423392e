package catalog

import "time"

// Product товар каталога
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Variant покупаемая конфигурация товара (конкретная фасовка).
// Цена и остаток здесь авторитетны для всей системы.
type Variant struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"product_id"`
	UnitKind   string  `json:"unit_kind"`
	UnitAmount float64 `json:"unit_amount"`
	Price      int64   `json:"price"` // минорные единицы валюты
	Stock      int     `json:"stock"`
	Active     bool    `json:"active"`
}

// ProductWithVariants товар вместе со всеми его фасовками
type ProductWithVariants struct {
	Product  Product   `json:"product"`
	Variants []Variant `json:"variants"`
}
