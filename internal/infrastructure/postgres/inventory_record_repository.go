package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo implementación del balance materializado sobre
// PostgreSQL (usable con pool o tx).
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

const recordColumns = `warehouse_id, product_id, quantity, version, warning_level, updated_at`

// Get obtiene el balance de un producto en una bodega. Si no hay fila
// devuelve un registro en cero con version 0.
func (r *InventoryRecordRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE warehouse_id = $1 AND product_id = $2`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&rec.WarehouseID, &rec.ProductID, &rec.Quantity, &rec.Version, &rec.WarningLevel, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{WarehouseID: warehouseID, ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// GetForUpdate obtiene el balance y bloquea la fila (SELECT FOR UPDATE)
// durante la transacción del caller. Si no existe fila la crea en cero
// primero, para que siempre haya algo que bloquear.
func (r *InventoryRecordRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	insert := `
		INSERT INTO inventory_records (warehouse_id, product_id, quantity, version, warning_level, updated_at)
		VALUES ($1, $2, 0, 0, 0, now())
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, warehouseID, productID); err != nil {
		return nil, fmt.Errorf("ensure inventory record: %w", err)
	}

	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE warehouse_id = $1 AND product_id = $2
		FOR UPDATE`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&rec.WarehouseID, &rec.ProductID, &rec.Quantity, &rec.Version, &rec.WarningLevel, &rec.UpdatedAt,
	)
	if err != nil {
		if isSerializationFailure(err) {
			return nil, domain.ErrConcurrentModification
		}
		return nil, fmt.Errorf("get inventory record for update: %w", err)
	}
	return &rec, nil
}

// UpdateBalance escribe quantity y version+1 solo si la versión actual
// coincide con expectedVersion; si no coincide devuelve
// ErrConcurrentModification y el caller debe abortar y reintentar.
func (r *InventoryRecordRepo) UpdateBalance(ctx context.Context, warehouseID, productID string, quantity, expectedVersion int64) error {
	query := `
		UPDATE inventory_records
		SET quantity = $3, version = version + 1, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2 AND version = $4`
	tag, err := r.q.Exec(ctx, query, warehouseID, productID, quantity, expectedVersion)
	if err != nil {
		if isSerializationFailure(err) {
			return domain.ErrConcurrentModification
		}
		return fmt.Errorf("update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentModification
	}
	return nil
}

// SetWarningLevel fija el nivel de alerta de stock bajo; crea la fila en
// cero si aún no existe.
func (r *InventoryRecordRepo) SetWarningLevel(ctx context.Context, warehouseID, productID string, level int64) error {
	query := `
		INSERT INTO inventory_records (warehouse_id, product_id, quantity, version, warning_level, updated_at)
		VALUES ($1, $2, 0, 0, $3, now())
		ON CONFLICT (warehouse_id, product_id)
		DO UPDATE SET warning_level = EXCLUDED.warning_level, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, warehouseID, productID, level); err != nil {
		return fmt.Errorf("set warning level: %w", err)
	}
	return nil
}

// ListByWarehouse lista los balances de una bodega ordenados por producto.
func (r *InventoryRecordRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records WHERE warehouse_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list records by warehouse: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListLowStock devuelve registros con quantity <= warning_level en las
// bodegas dadas.
func (r *InventoryRecordRepo) ListLowStock(ctx context.Context, warehouseIDs []string) ([]*entity.InventoryRecord, error) {
	if len(warehouseIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT ` + recordColumns + `
		FROM inventory_records
		WHERE warehouse_id = ANY($1) AND warning_level > 0 AND quantity <= warning_level
		ORDER BY warehouse_id, product_id`
	rows, err := r.q.Query(ctx, query, warehouseIDs)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.WarehouseID, &rec.ProductID, &rec.Quantity, &rec.Version, &rec.WarningLevel, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
