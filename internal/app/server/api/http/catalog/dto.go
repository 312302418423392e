package catalog

import "freshcart/internal/domain/catalog"

type listInput struct{}

type listOutput struct {
	Body ListResponse
}

type ListResponse struct {
	Status   string                        `json:"status"`
	Error    string                        `json:"error,omitempty"`
	Products []catalog.ProductWithVariants `json:"products,omitempty"`
}
