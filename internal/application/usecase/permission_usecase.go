package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// PermissionUseCase administración del mapa de permisos. Es el colaborador
// administrativo que muta warehouse_permissions; el núcleo (resolver,
// ledger, ventas, reportes) solo lee ese mapa. Únicamente admins lo operan.
type PermissionUseCase struct {
	userRepo      repository.UserRepository
	warehouseRepo repository.WarehouseRepository
	permRepo      repository.PermissionRepository
}

// NewPermissionUseCase construye el caso de uso.
func NewPermissionUseCase(
	userRepo repository.UserRepository,
	warehouseRepo repository.WarehouseRepository,
	permRepo repository.PermissionRepository,
) *PermissionUseCase {
	return &PermissionUseCase{userRepo: userRepo, warehouseRepo: warehouseRepo, permRepo: permRepo}
}

// requireAdmin verifica que el actor exista y tenga rol admin.
func (uc *PermissionUseCase) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return domain.ErrUserNotFound
	}
	if actor.Role != entity.RoleAdmin {
		return domain.ErrPermissionDenied
	}
	return nil
}

// Grant establece el conjunto de capacidades de un usuario sobre una bodega
// (reemplaza el conjunto anterior si existía).
func (uc *PermissionUseCase) Grant(ctx context.Context, actorID, userID, warehouseID string, capabilities []string) (*entity.Permission, error) {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if userID == "" || warehouseID == "" || len(capabilities) == 0 {
		return nil, domain.ErrInvalidInput
	}

	caps := make([]entity.Capability, 0, len(capabilities))
	seen := make(map[entity.Capability]bool, len(capabilities))
	for _, raw := range capabilities {
		c := entity.Capability(raw)
		if !entity.ValidCapability(c) {
			return nil, domain.ErrInvalidInput
		}
		if !seen[c] {
			seen[c] = true
			caps = append(caps, c)
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	permission := &entity.Permission{
		UserID:       userID,
		WarehouseID:  warehouseID,
		Capabilities: caps,
		GrantedAt:    time.Now(),
	}
	if err := uc.permRepo.Upsert(ctx, permission); err != nil {
		return nil, err
	}
	return permission, nil
}

// Revoke elimina la fila de permisos de un usuario sobre una bodega.
func (uc *PermissionUseCase) Revoke(ctx context.Context, actorID, userID, warehouseID string) error {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if userID == "" || warehouseID == "" {
		return domain.ErrInvalidInput
	}
	return uc.permRepo.Revoke(ctx, userID, warehouseID)
}

// ListByUser devuelve los permisos vigentes de un usuario (bodegas activas).
func (uc *PermissionUseCase) ListByUser(ctx context.Context, actorID, userID string) ([]*entity.Permission, error) {
	if err := uc.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return uc.permRepo.ListActiveByUser(ctx, userID)
}
