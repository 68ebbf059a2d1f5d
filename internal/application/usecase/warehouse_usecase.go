package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// WarehouseUseCase administración de bodegas (colaborador administrativo).
// Una bodega referenciada por el ledger no se elimina jamás: se archiva.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
	txRepo        repository.InventoryTransactionRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	warehouseRepo repository.WarehouseRepository,
	txRepo repository.InventoryTransactionRepository,
) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo, txRepo: txRepo}
}

// Create registra una bodega nueva.
func (uc *WarehouseUseCase) Create(ctx context.Context, name string) (*entity.Warehouse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// GetByID obtiene una bodega.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}
	return warehouse, nil
}

// List lista bodegas; includeArchived controla si entran las archivadas.
func (uc *WarehouseUseCase) List(ctx context.Context, includeArchived bool) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List(ctx, includeArchived)
}

// Rename cambia el nombre de la bodega.
func (uc *WarehouseUseCase) Rename(ctx context.Context, id, name string) (*entity.Warehouse, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	warehouse, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	warehouse.Name = name
	warehouse.UpdatedAt = time.Now()
	if err := uc.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Archive marca la bodega como archivada: sale de la resolución de scope
// pero su historia queda intacta.
func (uc *WarehouseUseCase) Archive(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.warehouseRepo.SetArchived(ctx, id, true)
}

// Delete elimina una bodega solo si el ledger nunca la referenció; con
// transacciones registradas devuelve ErrWarehouseInUse y la opción es
// archivarla.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	used, err := uc.txRepo.ExistsForWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return domain.ErrWarehouseInUse
	}
	return uc.warehouseRepo.Delete(ctx, id)
}

// Restore desarchiva la bodega.
func (uc *WarehouseUseCase) Restore(ctx context.Context, id string) error {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return err
	}
	return uc.warehouseRepo.SetArchived(ctx, id, false)
}
