package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza la unidad de trabajo del ledger:
// lectura de balance, append al log y actualización del registro commitean
// juntos o no commitea nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.InventoryTransactionRepository,
	) error) error
}

// ScopeResolver es el contrato con el resolver de permisos. Cada operación
// del ledger lo invoca antes de leer o escribir.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, userID string, requestedWarehouseIDs []string, required entity.Capability) ([]string, error)
}
