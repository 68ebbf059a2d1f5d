package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario.
// Una bodega con transacciones registradas nunca se elimina: se archiva
// (Archived=true) y deja de participar en la resolución de scope.
type Warehouse struct {
	ID        string
	Name      string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
