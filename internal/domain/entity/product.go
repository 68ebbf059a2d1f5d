package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario.
// Cost es el costo vigente: aplica solo a transacciones futuras. Las ventas
// capturan su propio cost_basis al momento de venderse, de modo que cambiar
// Cost después nunca altera la utilidad histórica.
type Product struct {
	ID             string
	SKU            string
	Name           string
	Cost           decimal.Decimal
	RetailPrice    decimal.Decimal
	WholesalePrice decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceForChannel devuelve el precio de referencia según el canal.
func (p *Product) PriceForChannel(channel string) decimal.Decimal {
	if channel == ChannelWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}
