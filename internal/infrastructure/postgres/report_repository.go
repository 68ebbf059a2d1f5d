package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura sobre ventas committed. Trabaja
// directo sobre el pool: los reportes no participan en transacciones ni
// retienen locks.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Buckets aceptados por date_trunc; la lista blanca evita interpolar
// entrada del usuario en el SQL.
var trendBuckets = map[string]bool{
	"day": true, "week": true, "month": true, "quarter": true, "year": true,
}

// Trend agrupa revenue, profit y unidades por periodo. La utilidad de cada
// línea usa el cost_basis capturado al vender, nunca el costo vigente.
func (r *ReportRepo) Trend(ctx context.Context, filter repository.ReportFilter, bucket string) ([]repository.TrendRow, error) {
	if !trendBuckets[bucket] {
		return nil, fmt.Errorf("reports.Trend: bucket %q no soportado", bucket)
	}
	query := fmt.Sprintf(`
	SELECT
	    date_trunc('%s', s.created_at)                                   AS bucket_start,
	    COALESCE(SUM(d.quantity * d.unit_price), 0)                      AS revenue,
	    COALESCE(SUM(d.quantity * (d.unit_price - d.cost_basis)), 0)     AS profit,
	    COALESCE(SUM(d.quantity), 0)                                     AS units_sold
	FROM sales s
	JOIN sale_items d ON d.sale_id = s.id
	WHERE s.status = 'committed'
	  AND s.warehouse_id = ANY($1)
	  AND s.created_at BETWEEN $2 AND $3
	  AND ($4 = '' OR s.channel = $4)
	GROUP BY 1
	ORDER BY 1`, bucket)

	rows, err := r.pool.Query(ctx, query, filter.WarehouseIDs, filter.From, filter.To, filter.Channel)
	if err != nil {
		return nil, fmt.Errorf("reports.Trend: %w", err)
	}
	defer rows.Close()

	var results []repository.TrendRow
	for rows.Next() {
		var row repository.TrendRow
		if err := rows.Scan(&row.BucketStart, &row.Revenue, &row.Profit, &row.UnitsSold); err != nil {
			return nil, fmt.Errorf("reports.Trend scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// TopSellers devuelve los `limit` productos con más unidades vendidas.
// Desempata por revenue descendente y luego product_id ascendente para que
// el orden sea determinista.
func (r *ReportRepo) TopSellers(ctx context.Context, filter repository.ReportFilter, limit int) ([]repository.TopSellerRow, error) {
	const query = `
	SELECT
	    d.product_id,
	    p.name,
	    p.sku,
	    COALESCE(SUM(d.quantity), 0)                 AS units_sold,
	    COALESCE(SUM(d.quantity * d.unit_price), 0)  AS revenue
	FROM sales s
	JOIN sale_items d ON d.sale_id = s.id
	JOIN products   p ON p.id      = d.product_id
	WHERE s.status = 'committed'
	  AND s.warehouse_id = ANY($1)
	  AND s.created_at BETWEEN $2 AND $3
	  AND ($4 = '' OR s.channel = $4)
	GROUP BY d.product_id, p.name, p.sku
	ORDER BY units_sold DESC, revenue DESC, d.product_id ASC
	LIMIT $5`

	rows, err := r.pool.Query(ctx, query, filter.WarehouseIDs, filter.From, filter.To, filter.Channel, limit)
	if err != nil {
		return nil, fmt.Errorf("reports.TopSellers: %w", err)
	}
	defer rows.Close()

	var results []repository.TopSellerRow
	for rows.Next() {
		var row repository.TopSellerRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.SKU, &row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("reports.TopSellers scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ProfitByChannel corta ventas, unidades, revenue, costo y utilidad por
// canal. El costo sale del cost_basis de cada línea.
func (r *ReportRepo) ProfitByChannel(ctx context.Context, filter repository.ReportFilter) ([]repository.ChannelProfitRow, error) {
	const query = `
	SELECT
	    s.channel,
	    COUNT(DISTINCT s.id)                                             AS sale_count,
	    COALESCE(SUM(d.quantity), 0)                                     AS units_sold,
	    COALESCE(SUM(d.quantity * d.unit_price), 0)                      AS revenue,
	    COALESCE(SUM(d.quantity * d.cost_basis), 0)                      AS cost,
	    COALESCE(SUM(d.quantity * (d.unit_price - d.cost_basis)), 0)     AS profit
	FROM sales s
	JOIN sale_items d ON d.sale_id = s.id
	WHERE s.status = 'committed'
	  AND s.warehouse_id = ANY($1)
	  AND s.created_at BETWEEN $2 AND $3
	  AND ($4 = '' OR s.channel = $4)
	GROUP BY s.channel
	ORDER BY profit DESC`

	rows, err := r.pool.Query(ctx, query, filter.WarehouseIDs, filter.From, filter.To, filter.Channel)
	if err != nil {
		return nil, fmt.Errorf("reports.ProfitByChannel: %w", err)
	}
	defer rows.Close()

	var results []repository.ChannelProfitRow
	for rows.Next() {
		var row repository.ChannelProfitRow
		if err := rows.Scan(&row.Channel, &row.SaleCount, &row.UnitsSold, &row.Revenue, &row.Cost, &row.Profit); err != nil {
			return nil, fmt.Errorf("reports.ProfitByChannel scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
