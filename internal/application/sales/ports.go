package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// SaleTxRunner ejecuta una función dentro de una transacción que incluye los
// repos del ledger y el de ventas: las salidas de stock y la venta con sus
// items commitean como una sola unidad de trabajo.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.InventoryTransactionRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// LedgerApplier es la integración con el motor del ledger. ApplyInTx aplica
// una transacción de stock con los repositorios del caller (misma
// transacción SQL); si devuelve error (ej. ErrInsufficientStock) el caller
// hace rollback y no queda ninguna entrada.
type LedgerApplier interface {
	ApplyInTx(
		ctx context.Context,
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.InventoryTransactionRepository,
		in ledger.ApplyTransactionInput,
		now time.Time,
	) (*entity.InventoryTransaction, error)
}

// ScopeResolver contrato con el resolver de permisos.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, userID string, requestedWarehouseIDs []string, required entity.Capability) ([]string, error)
}
