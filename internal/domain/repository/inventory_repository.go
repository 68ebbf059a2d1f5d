package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// InventoryRecordRepository puerto del balance materializado por
// (bodega, producto).
type InventoryRecordRepository interface {
	Get(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) durante la transacción
	// del caller; crea la fila en cero si no existe todavía.
	GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error)
	// UpdateBalance escribe quantity y version+1 solo si la versión actual
	// coincide con expectedVersion; si no, ErrConcurrentModification.
	UpdateBalance(ctx context.Context, warehouseID, productID string, quantity, expectedVersion int64) error
	SetWarningLevel(ctx context.Context, warehouseID, productID string, level int64) error
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.InventoryRecord, error)
	// ListLowStock devuelve registros con quantity <= warning_level en las
	// bodegas dadas.
	ListLowStock(ctx context.Context, warehouseIDs []string) ([]*entity.InventoryRecord, error)
}

// LedgerBalance es la suma de deltas del log para una pareja (bodega,
// producto); sirve para verificar el balance materializado.
type LedgerBalance struct {
	WarehouseID string
	ProductID   string
	Sum         int64
}

// InventoryTransactionRepository puerto del ledger. Solo Append escribe;
// las filas jamás se actualizan ni se eliminan.
type InventoryTransactionRepository interface {
	Append(ctx context.Context, tx *entity.InventoryTransaction) error
	// ListByKey devuelve transacciones de la pareja (bodega, producto)
	// ordenadas por sequence ascendente, acotadas por rango de fechas.
	ListByKey(ctx context.Context, warehouseID, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	// SumDeltas devuelve la suma de deltas para una pareja (propiedad de
	// reconstrucción desde el log).
	SumDeltas(ctx context.Context, warehouseID, productID string) (int64, error)
	// SumDeltasAll agrupa la suma de deltas por pareja, opcionalmente
	// restringida a una bodega (reconciliación).
	SumDeltasAll(ctx context.Context, warehouseID string) ([]LedgerBalance, error)
	// ExistsForWarehouse indica si la bodega tiene transacciones (impide
	// eliminarla; debe archivarse).
	ExistsForWarehouse(ctx context.Context, warehouseID string) (bool, error)
}
