package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrendRowResponse punto de la serie de ventas por periodo.
type TrendRowResponse struct {
	BucketStart time.Time       `json:"bucket_start"`
	Revenue     decimal.Decimal `json:"revenue"`
	Profit      decimal.Decimal `json:"profit"`
	UnitsSold   int64           `json:"units_sold"`
}

// TopSellerResponse producto del ranking de más vendidos.
type TopSellerResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	UnitsSold   int64           `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// ChannelProfitResponse corte de utilidad de un canal, calculado con el
// cost_basis almacenado en cada línea.
type ChannelProfitResponse struct {
	Channel   string          `json:"channel"`
	SaleCount int64           `json:"sale_count"`
	UnitsSold int64           `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
}
