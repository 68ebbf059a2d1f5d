package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest datos para crear un producto.
type CreateProductRequest struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Cost           decimal.Decimal `json:"cost"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
}

// UpdateProductRequest datos para actualizar un producto. Cambiar Cost solo
// afecta transacciones futuras; las ventas registradas conservan su
// cost_basis.
type UpdateProductRequest struct {
	Name           string           `json:"name"`
	Cost           *decimal.Decimal `json:"cost"`
	RetailPrice    *decimal.Decimal `json:"retail_price"`
	WholesalePrice *decimal.Decimal `json:"wholesale_price"`
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Cost           decimal.Decimal `json:"cost"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
