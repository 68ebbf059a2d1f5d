package entity

import "time"

// Roles de usuario. Los admin resuelven scope sobre todas las bodegas
// activas; el resto depende de sus filas en warehouse_permissions.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User representa un usuario del sistema. La autenticación vive en la capa
// web; el núcleo solo necesita la identidad y el rol.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
