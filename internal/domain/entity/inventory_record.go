package entity

import "time"

// InventoryRecord es el balance materializado de un producto en una bodega.
// Quantity es siempre el fold de los deltas del ledger para la pareja
// (bodega, producto); Version crece en uno por cada transacción aplicada y
// sirve de cerrojo optimista y de base del consecutivo (sequence = version).
type InventoryRecord struct {
	WarehouseID  string
	ProductID    string
	Quantity     int64
	Version      int64
	WarningLevel int64
	UpdatedAt    time.Time
}

// IsLowStock indica si el balance está en o bajo el nivel de alerta.
func (r *InventoryRecord) IsLowStock() bool {
	return r.Quantity <= r.WarningLevel
}
