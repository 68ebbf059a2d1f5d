package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo implementación de PermissionRepository sobre PostgreSQL.
// Las capacidades se guardan como text[] en warehouse_permissions.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// ListActiveByUser devuelve los permisos del usuario sobre bodegas no
// archivadas, ordenados por bodega.
func (r *PermissionRepo) ListActiveByUser(ctx context.Context, userID string) ([]*entity.Permission, error) {
	query := `
		SELECT p.user_id, p.warehouse_id, p.capabilities, p.granted_at
		FROM warehouse_permissions p
		JOIN warehouses w ON w.id = p.warehouse_id
		WHERE p.user_id = $1 AND w.archived = false
		ORDER BY p.warehouse_id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions by user: %w", err)
	}
	defer rows.Close()

	var list []*entity.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Get obtiene la fila de permisos de un usuario sobre una bodega; nil si no
// existe.
func (r *PermissionRepo) Get(ctx context.Context, userID, warehouseID string) (*entity.Permission, error) {
	query := `
		SELECT user_id, warehouse_id, capabilities, granted_at
		FROM warehouse_permissions WHERE user_id = $1 AND warehouse_id = $2`
	var p entity.Permission
	var caps []string
	err := r.q.QueryRow(ctx, query, userID, warehouseID).Scan(&p.UserID, &p.WarehouseID, &caps, &p.GrantedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}
	p.Capabilities = toCapabilities(caps)
	return &p, nil
}

// Upsert inserta o reemplaza el conjunto de capacidades por (usuario, bodega).
func (r *PermissionRepo) Upsert(ctx context.Context, permission *entity.Permission) error {
	caps := make([]string, len(permission.Capabilities))
	for i, c := range permission.Capabilities {
		caps[i] = string(c)
	}
	query := `
		INSERT INTO warehouse_permissions (user_id, warehouse_id, capabilities, granted_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, warehouse_id)
		DO UPDATE SET capabilities = EXCLUDED.capabilities, granted_at = EXCLUDED.granted_at`
	if _, err := r.q.Exec(ctx, query, permission.UserID, permission.WarehouseID, caps, permission.GrantedAt); err != nil {
		return fmt.Errorf("upsert permission: %w", err)
	}
	return nil
}

// Revoke elimina la fila de permisos. Sin fila no hay acceso.
func (r *PermissionRepo) Revoke(ctx context.Context, userID, warehouseID string) error {
	query := `DELETE FROM warehouse_permissions WHERE user_id = $1 AND warehouse_id = $2`
	if _, err := r.q.Exec(ctx, query, userID, warehouseID); err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

func scanPermission(rows pgx.Rows) (*entity.Permission, error) {
	var p entity.Permission
	var caps []string
	if err := rows.Scan(&p.UserID, &p.WarehouseID, &caps, &p.GrantedAt); err != nil {
		return nil, fmt.Errorf("scan permission: %w", err)
	}
	p.Capabilities = toCapabilities(caps)
	return &p, nil
}

func toCapabilities(raw []string) []entity.Capability {
	caps := make([]entity.Capability, len(raw))
	for i, s := range raw {
		caps[i] = entity.Capability(s)
	}
	return caps
}
