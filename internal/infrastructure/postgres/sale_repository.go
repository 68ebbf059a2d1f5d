package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con
// pool o tx). Create asume que corre dentro de la transacción del caller
// junto con las entradas de ledger de la venta.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, warehouse_id, channel, actor_id, total_revenue, total_profit, status, created_at, voided_at, voided_by`

// Create inserta la cabecera y todas las líneas de la venta.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.WarehouseID, sale.Channel, sale.ActorID,
		sale.TotalRevenue, sale.TotalProfit, sale.Status, sale.CreatedAt,
		sale.VoidedAt, sale.VoidedBy,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, cost_basis)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, item := range sale.Items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if _, err := r.q.Exec(ctx, itemQuery,
			item.ID, sale.ID, item.ProductID, item.Quantity, item.UnitPrice, item.CostBasis,
		); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con sus items; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.WarehouseID, &s.Channel, &s.ActorID,
		&s.TotalRevenue, &s.TotalProfit, &s.Status, &s.CreatedAt,
		&s.VoidedAt, &s.VoidedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	items, err := r.listItems(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// MarkVoided pasa la venta de committed a voided. Si ya estaba anulada no
// afecta filas y devuelve ErrConflict; las filas originales no se tocan.
func (r *SaleRepo) MarkVoided(ctx context.Context, saleID, actorID string, at time.Time) error {
	query := `
		UPDATE sales SET status = $2, voided_at = $3, voided_by = $4
		WHERE id = $1 AND status = $5`
	tag, err := r.q.Exec(ctx, query, saleID, entity.SaleStatusVoided, at, actorID, entity.SaleStatusCommitted)
	if err != nil {
		return fmt.Errorf("mark sale voided: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListByWarehouse lista ventas de una bodega, más recientes primero, con
// sus items.
func (r *SaleRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE warehouse_id = $1`
	args := []any{warehouseID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.WarehouseID, &s.Channel, &s.ActorID,
			&s.TotalRevenue, &s.TotalProfit, &s.Status, &s.CreatedAt,
			&s.VoidedAt, &s.VoidedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range list {
		items, err := r.listItems(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return list, nil
}

func (r *SaleRepo) listItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, cost_basis
		FROM sale_items WHERE sale_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()

	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.CostBasis); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
