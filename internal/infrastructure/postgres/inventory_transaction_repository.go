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

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo implementación del ledger sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only: nunca hay UPDATE ni
// DELETE sobre inventory_transactions.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

const txColumns = `id, warehouse_id, product_id, kind, delta, resulting_quantity, sequence, actor_id, reason, sale_id, created_at`

// Append persiste una entrada del ledger. El unique (warehouse_id,
// product_id, sequence) respalda el consecutivo: si dos transacciones
// calculan el mismo sequence, la segunda falla con
// ErrConcurrentModification y se reintenta.
func (r *InventoryTransactionRepo) Append(ctx context.Context, tx *entity.InventoryTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_transactions (` + txColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	reason := (*string)(nil)
	if tx.Reason != "" {
		reason = &tx.Reason
	}
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.WarehouseID, tx.ProductID, tx.Kind, tx.Delta,
		tx.ResultingQuantity, tx.Sequence, tx.ActorID, reason, tx.SaleID, tx.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) || isSerializationFailure(err) {
			return domain.ErrConcurrentModification
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByKey devuelve transacciones de la pareja (bodega, producto) ordenadas
// por sequence ascendente, acotadas por rango de fechas.
func (r *InventoryTransactionRepo) ListByKey(ctx context.Context, warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT ` + txColumns + `
		FROM inventory_transactions WHERE warehouse_id = $1 AND product_id = $2`
	args := []any{warehouseID, productID}
	pos := 3
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
	query += fmt.Sprintf(" ORDER BY sequence ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger by key: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryTransaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// SumDeltas devuelve la suma de deltas para una pareja (bodega, producto).
// Sobre un ledger sano coincide siempre con el quantity materializado.
func (r *InventoryTransactionRepo) SumDeltas(ctx context.Context, warehouseID, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(delta), 0)
		FROM inventory_transactions WHERE warehouse_id = $1 AND product_id = $2`
	var sum int64
	if err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum deltas: %w", err)
	}
	return sum, nil
}

// SumDeltasAll agrupa la suma de deltas por pareja dentro de una bodega
// (reconciliación).
func (r *InventoryTransactionRepo) SumDeltasAll(ctx context.Context, warehouseID string) ([]repository.LedgerBalance, error) {
	query := `
		SELECT warehouse_id, product_id, COALESCE(SUM(delta), 0)
		FROM inventory_transactions WHERE warehouse_id = $1
		GROUP BY warehouse_id, product_id
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("sum deltas all: %w", err)
	}
	defer rows.Close()

	var list []repository.LedgerBalance
	for rows.Next() {
		var b repository.LedgerBalance
		if err := rows.Scan(&b.WarehouseID, &b.ProductID, &b.Sum); err != nil {
			return nil, fmt.Errorf("scan ledger balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ExistsForWarehouse indica si la bodega tiene transacciones registradas.
func (r *InventoryTransactionRepo) ExistsForWarehouse(ctx context.Context, warehouseID string) (bool, error) {
	query := `SELECT 1 FROM inventory_transactions WHERE warehouse_id = $1 LIMIT 1`
	var one int
	err := r.q.QueryRow(ctx, query, warehouseID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("exists for warehouse: %w", err)
	}
	return true, nil
}

func scanTransaction(rows pgx.Rows) (*entity.InventoryTransaction, error) {
	var tx entity.InventoryTransaction
	var reason *string
	if err := rows.Scan(&tx.ID, &tx.WarehouseID, &tx.ProductID, &tx.Kind, &tx.Delta,
		&tx.ResultingQuantity, &tx.Sequence, &tx.ActorID, &reason, &tx.SaleID, &tx.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan ledger entry: %w", err)
	}
	if reason != nil {
		tx.Reason = *reason
	}
	return &tx, nil
}
