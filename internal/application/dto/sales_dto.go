package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. UnitPrice en cero toma el precio de
// referencia del producto según el canal.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest datos para crear una venta.
type CreateSaleRequest struct {
	WarehouseID string            `json:"warehouse_id"`
	Channel     string            `json:"channel"` // retail | wholesale
	Items       []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta persistida, con el cost_basis capturado.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostBasis decimal.Decimal `json:"cost_basis"`
}

// SaleResponse venta con totales y estado.
type SaleResponse struct {
	ID           string             `json:"id"`
	WarehouseID  string             `json:"warehouse_id"`
	Channel      string             `json:"channel"`
	ActorID      string             `json:"actor_id"`
	TotalRevenue decimal.Decimal    `json:"total_revenue"`
	TotalProfit  decimal.Decimal    `json:"total_profit"`
	Status       string             `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	VoidedAt     *time.Time         `json:"voided_at,omitempty"`
	VoidedBy     *string            `json:"voided_by,omitempty"`
	Items        []SaleItemResponse `json:"items"`
}
