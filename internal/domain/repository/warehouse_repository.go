package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// WarehouseRepository puerto de persistencia de bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
	// List devuelve bodegas ordenadas por nombre; con includeArchived=false
	// solo las activas.
	List(ctx context.Context, includeArchived bool) ([]*entity.Warehouse, error)
	// SetArchived marca o desmarca la bodega como archivada.
	SetArchived(ctx context.Context, id string, archived bool) error
	// Delete elimina la bodega. El caso de uso verifica antes que el ledger
	// no la referencie.
	Delete(ctx context.Context, id string) error
}
