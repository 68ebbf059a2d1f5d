package permission

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Resolver es el único punto de decisión de scope de bodegas. Todo caso de
// uso que lea o escriba el ledger pasa por ResolveScope antes de tocar
// datos; ningún componente consulta warehouse_permissions por su cuenta.
type Resolver struct {
	userRepo      repository.UserRepository
	permRepo      repository.PermissionRepository
	warehouseRepo repository.WarehouseRepository
}

// NewResolver construye el resolver.
func NewResolver(
	userRepo repository.UserRepository,
	permRepo repository.PermissionRepository,
	warehouseRepo repository.WarehouseRepository,
) *Resolver {
	return &Resolver{userRepo: userRepo, permRepo: permRepo, warehouseRepo: warehouseRepo}
}

// ResolveScope devuelve las bodegas sobre las que el usuario puede actuar
// con la capacidad requerida. Sin bodegas solicitadas devuelve todas las
// permitidas (view + capacidad requerida); con bodegas explícitas exige que
// cada una esté permitida y falla con ErrPermissionDenied si alguna no lo
// está (nunca la descarta en silencio). Lectura pura: no muta nada.
func (r *Resolver) ResolveScope(
	ctx context.Context,
	userID string,
	requestedWarehouseIDs []string,
	required entity.Capability,
) ([]string, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !entity.ValidCapability(required) {
		return nil, domain.ErrInvalidInput
	}

	user, err := r.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	permitted, err := r.permittedWarehouses(ctx, user, required)
	if err != nil {
		return nil, err
	}

	if len(requestedWarehouseIDs) == 0 {
		scope := make([]string, 0, len(permitted))
		for id := range permitted {
			scope = append(scope, id)
		}
		sort.Strings(scope)
		return scope, nil
	}

	seen := make(map[string]bool, len(requestedWarehouseIDs))
	scope := make([]string, 0, len(requestedWarehouseIDs))
	for _, id := range requestedWarehouseIDs {
		if id == "" {
			return nil, domain.ErrInvalidInput
		}
		if !permitted[id] {
			return nil, domain.ErrPermissionDenied
		}
		if !seen[id] {
			seen[id] = true
			scope = append(scope, id)
		}
	}
	sort.Strings(scope)
	return scope, nil
}

// permittedWarehouses arma el conjunto de bodegas permitidas para la
// capacidad. Los admin resuelven todas las bodegas activas; el resto
// requiere una fila con view más la capacidad pedida.
func (r *Resolver) permittedWarehouses(
	ctx context.Context,
	user *entity.User,
	required entity.Capability,
) (map[string]bool, error) {
	permitted := make(map[string]bool)

	if user.Role == entity.RoleAdmin {
		warehouses, err := r.warehouseRepo.List(ctx, false)
		if err != nil {
			return nil, err
		}
		for _, w := range warehouses {
			permitted[w.ID] = true
		}
		return permitted, nil
	}

	perms, err := r.permRepo.ListActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, p := range perms {
		if p.Has(entity.CapabilityView) && p.Has(required) {
			permitted[p.WarehouseID] = true
		}
	}
	return permitted, nil
}
