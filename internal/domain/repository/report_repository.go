package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportFilter acota una consulta de reportes: bodegas ya resueltas por el
// resolver de permisos, canal opcional (vacío = ambos) y rango de fechas.
type ReportFilter struct {
	WarehouseIDs []string
	Channel      string
	From         time.Time
	To           time.Time
}

// TrendRow es un punto de la serie de ventas agrupada por periodo.
type TrendRow struct {
	BucketStart time.Time
	Revenue     decimal.Decimal
	Profit      decimal.Decimal
	UnitsSold   int64
}

// TopSellerRow es un producto del ranking de más vendidos.
type TopSellerRow struct {
	ProductID   string
	ProductName string
	SKU         string
	UnitsSold   int64
	Revenue     decimal.Decimal
}

// ChannelProfitRow es el corte de utilidad de un canal. La utilidad usa el
// cost_basis almacenado en cada línea, nunca el costo vigente del producto.
type ChannelProfitRow struct {
	Channel   string
	SaleCount int64
	UnitsSold int64
	Revenue   decimal.Decimal
	Cost      decimal.Decimal
	Profit    decimal.Decimal
}

// ReportRepository consultas de solo lectura sobre ventas committed.
// Las implementaciones no retienen locks más allá de su propia ejecución.
type ReportRepository interface {
	// Trend agrupa revenue, profit y unidades por periodo (day|week|month).
	Trend(ctx context.Context, filter ReportFilter, bucket string) ([]TrendRow, error)
	// TopSellers ordena por unidades desc, luego revenue desc, luego
	// product_id asc.
	TopSellers(ctx context.Context, filter ReportFilter, limit int) ([]TopSellerRow, error)
	// ProfitByChannel corta revenue/costo/utilidad por canal.
	ProfitByChannel(ctx context.Context, filter ReportFilter) ([]ChannelProfitRow, error)
}
