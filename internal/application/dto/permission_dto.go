package dto

import "time"

// GrantPermissionRequest otorga (o reemplaza) el conjunto de capacidades de
// un usuario sobre una bodega.
type GrantPermissionRequest struct {
	UserID       string   `json:"user_id"`
	WarehouseID  string   `json:"warehouse_id"`
	Capabilities []string `json:"capabilities"` // view, inbound, outbound, adjust, sell
}

// PermissionResponse fila del mapa de permisos.
type PermissionResponse struct {
	UserID       string    `json:"user_id"`
	WarehouseID  string    `json:"warehouse_id"`
	Capabilities []string  `json:"capabilities"`
	GrantedAt    time.Time `json:"granted_at"`
}
