package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PermissionRepository puerto de lectura/administración del mapa de permisos
// por (usuario, bodega). El núcleo (resolver, ledger, ventas, reportes) solo
// lee; Upsert y Revoke son para los colaboradores administrativos.
type PermissionRepository interface {
	// ListActiveByUser devuelve los permisos del usuario sobre bodegas no
	// archivadas.
	ListActiveByUser(ctx context.Context, userID string) ([]*entity.Permission, error)
	Get(ctx context.Context, userID, warehouseID string) (*entity.Permission, error)
	Upsert(ctx context.Context, permission *entity.Permission) error
	Revoke(ctx context.Context, userID, warehouseID string) error
}
