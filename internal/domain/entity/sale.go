package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Canales de venta. Afectan precio de referencia y reportes de utilidad.
const (
	ChannelRetail    = "retail"
	ChannelWholesale = "wholesale"
)

// ValidChannel indica si el canal es uno de los reconocidos.
func ValidChannel(channel string) bool {
	return channel == ChannelRetail || channel == ChannelWholesale
}

// Estados de una venta. Anular una venta no borra nada: se registran
// entradas compensatorias en el ledger y el estado pasa a voided.
const (
	SaleStatusCommitted = "committed"
	SaleStatusVoided    = "voided"
)

// Sale es la cabecera de una venta. Se persiste de forma atómica junto con
// sus items y las salidas de ledger correspondientes, o no se persiste.
type Sale struct {
	ID           string
	WarehouseID  string
	Channel      string
	ActorID      string
	TotalRevenue decimal.Decimal
	TotalProfit  decimal.Decimal
	Status       string
	CreatedAt    time.Time
	VoidedAt     *time.Time
	VoidedBy     *string
	Items        []*SaleItem
}

// SaleItem es una línea de venta. CostBasis es la foto del costo del
// producto al momento de la venta y nunca se recalcula.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	CostBasis decimal.Decimal
}

// LineRevenue devuelve quantity × unitPrice.
func (i *SaleItem) LineRevenue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// LineProfit devuelve (unitPrice − costBasis) × quantity.
func (i *SaleItem) LineProfit() decimal.Decimal {
	return i.UnitPrice.Sub(i.CostBasis).Mul(decimal.NewFromInt(i.Quantity))
}
