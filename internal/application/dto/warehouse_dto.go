package dto

import "time"

// CreateWarehouseRequest datos para crear una bodega.
type CreateWarehouseRequest struct {
	Name string `json:"name"`
}

// UpdateWarehouseRequest datos para renombrar una bodega.
type UpdateWarehouseRequest struct {
	Name string `json:"name"`
}

// WarehouseResponse bodega expuesta por la API.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
