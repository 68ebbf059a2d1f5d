package permission_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/permission"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type fakePermRepo struct {
	perms []*entity.Permission
	// archived marca bodegas cuyas filas no deben salir en ListActiveByUser
	archived map[string]bool
}

func (f *fakePermRepo) ListActiveByUser(_ context.Context, userID string) ([]*entity.Permission, error) {
	var out []*entity.Permission
	for _, p := range f.perms {
		if p.UserID == userID && !f.archived[p.WarehouseID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePermRepo) Get(_ context.Context, userID, warehouseID string) (*entity.Permission, error) {
	for _, p := range f.perms {
		if p.UserID == userID && p.WarehouseID == warehouseID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePermRepo) Upsert(_ context.Context, p *entity.Permission) error {
	f.perms = append(f.perms, p)
	return nil
}

func (f *fakePermRepo) Revoke(_ context.Context, userID, warehouseID string) error {
	kept := f.perms[:0]
	for _, p := range f.perms {
		if !(p.UserID == userID && p.WarehouseID == warehouseID) {
			kept = append(kept, p)
		}
	}
	f.perms = kept
	return nil
}

type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

func (f *fakeWarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	f.warehouses[w.ID] = w
	return nil
}

func (f *fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return f.warehouses[id], nil
}

func (f *fakeWarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	f.warehouses[w.ID] = w
	return nil
}

func (f *fakeWarehouseRepo) List(_ context.Context, includeArchived bool) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range f.warehouses {
		if includeArchived || !w.Archived {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWarehouseRepo) SetArchived(_ context.Context, id string, archived bool) error {
	f.warehouses[id].Archived = archived
	return nil
}

func (f *fakeWarehouseRepo) Delete(_ context.Context, id string) error {
	delete(f.warehouses, id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	userOperador = "user-operador"
	userAdmin    = "user-admin"
	bodegaA      = "bodega-a"
	bodegaB      = "bodega-b"
	bodegaC      = "bodega-c"
)

func buildResolver() (*permission.Resolver, *fakePermRepo, *fakeWarehouseRepo) {
	users := &fakeUserRepo{users: map[string]*entity.User{
		userOperador: {ID: userOperador, Role: entity.RoleOperador, Status: "active"},
		userAdmin:    {ID: userAdmin, Role: entity.RoleAdmin, Status: "active"},
	}}
	warehouses := &fakeWarehouseRepo{warehouses: map[string]*entity.Warehouse{
		bodegaA: {ID: bodegaA, Name: "Bodega A"},
		bodegaB: {ID: bodegaB, Name: "Bodega B"},
		bodegaC: {ID: bodegaC, Name: "Bodega C"},
	}}
	perms := &fakePermRepo{archived: map[string]bool{}}
	return permission.NewResolver(users, perms, warehouses), perms, warehouses
}

func grant(perms *fakePermRepo, userID, warehouseID string, caps ...entity.Capability) {
	perms.perms = append(perms.perms, &entity.Permission{
		UserID:       userID,
		WarehouseID:  warehouseID,
		Capabilities: caps,
		GrantedAt:    time.Now(),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Sin bodegas solicitadas el scope son todas las permitidas, ordenadas.
func TestResolveScope_VacioDevuelveTodasLasPermitidas(t *testing.T) {
	resolver, perms, _ := buildResolver()
	grant(perms, userOperador, bodegaB, entity.CapabilityView, entity.CapabilitySell)
	grant(perms, userOperador, bodegaA, entity.CapabilityView, entity.CapabilitySell)
	grant(perms, userOperador, bodegaC, entity.CapabilityView) // sin sell

	scope, err := resolver.ResolveScope(context.Background(), userOperador, nil, entity.CapabilitySell)

	require.NoError(t, err)
	assert.Equal(t, []string{bodegaA, bodegaB}, scope,
		"solo las bodegas con view+sell entran al scope, ordenadas")
}

// Una bodega explícita no permitida corta la operación con denegación,
// nunca se descarta en silencio.
func TestResolveScope_ExplicitaNoPermitidaFalla(t *testing.T) {
	resolver, perms, _ := buildResolver()
	grant(perms, userOperador, bodegaA, entity.CapabilityView, entity.CapabilityInbound)

	_, err := resolver.ResolveScope(context.Background(), userOperador,
		[]string{bodegaA, bodegaB}, entity.CapabilityInbound)

	assert.ErrorIs(t, err, domain.ErrPermissionDenied,
		"pedir una bodega sin permiso debe fallar aunque otra sí esté permitida")
}

// La capacidad requerida exige también view: tener solo la capacidad
// operativa sin view no da acceso.
func TestResolveScope_CapacidadSinViewNoAlcanza(t *testing.T) {
	resolver, perms, _ := buildResolver()
	grant(perms, userOperador, bodegaA, entity.CapabilityOutbound) // sin view

	scope, err := resolver.ResolveScope(context.Background(), userOperador, nil, entity.CapabilityOutbound)

	require.NoError(t, err)
	assert.Empty(t, scope)

	_, err = resolver.ResolveScope(context.Background(), userOperador, []string{bodegaA}, entity.CapabilityOutbound)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

// Los admin resuelven scope sobre todas las bodegas activas sin filas de
// permisos.
func TestResolveScope_AdminCubreTodasLasActivas(t *testing.T) {
	resolver, _, warehouses := buildResolver()
	warehouses.warehouses[bodegaC].Archived = true

	scope, err := resolver.ResolveScope(context.Background(), userAdmin, nil, entity.CapabilityAdjust)

	require.NoError(t, err)
	assert.Equal(t, []string{bodegaA, bodegaB}, scope,
		"las bodegas archivadas no entran al scope ni para admins")
}

// Una bodega archivada deja de resolver aunque la fila de permisos exista.
func TestResolveScope_BodegaArchivadaSaleDelScope(t *testing.T) {
	resolver, perms, _ := buildResolver()
	grant(perms, userOperador, bodegaA, entity.CapabilityView, entity.CapabilityInbound)
	perms.archived[bodegaA] = true

	scope, err := resolver.ResolveScope(context.Background(), userOperador, nil, entity.CapabilityInbound)

	require.NoError(t, err)
	assert.Empty(t, scope)
}

// Identidad vacía o desconocida.
func TestResolveScope_SinUsuario(t *testing.T) {
	resolver, _, _ := buildResolver()

	_, err := resolver.ResolveScope(context.Background(), "", nil, entity.CapabilityView)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = resolver.ResolveScope(context.Background(), "no-existe", nil, entity.CapabilityView)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// Capacidad desconocida es error de entrada, no denegación.
func TestResolveScope_CapacidadInvalida(t *testing.T) {
	resolver, _, _ := buildResolver()

	_, err := resolver.ResolveScope(context.Background(), userOperador, nil, entity.Capability("fly"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Bodegas repetidas en la petición se deduplican en el scope resultante.
func TestResolveScope_DeduplicaSolicitadas(t *testing.T) {
	resolver, perms, _ := buildResolver()
	grant(perms, userOperador, bodegaA, entity.CapabilityView)

	scope, err := resolver.ResolveScope(context.Background(), userOperador,
		[]string{bodegaA, bodegaA}, entity.CapabilityView)

	require.NoError(t, err)
	assert.Equal(t, []string{bodegaA}, scope)
}
