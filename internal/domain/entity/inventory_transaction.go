package entity

import "time"

// Tipos de transacción de inventario.
const (
	TxKindInbound      = "inbound"       // entrada
	TxKindOutbound     = "outbound"      // salida
	TxKindAdjustment   = "adjustment"    // ajuste (único tipo que puede dejar balance negativo)
	TxKindSaleOutbound = "sale_outbound" // salida por venta, ligada a un Sale
)

// CapabilityForKind devuelve la capacidad que exige cada tipo de transacción.
func CapabilityForKind(kind string) (Capability, bool) {
	switch kind {
	case TxKindInbound:
		return CapabilityInbound, true
	case TxKindOutbound:
		return CapabilityOutbound, true
	case TxKindAdjustment:
		return CapabilityAdjust, true
	case TxKindSaleOutbound:
		return CapabilitySell, true
	}
	return "", false
}

// InventoryTransaction es una entrada del ledger: inmutable una vez escrita,
// jamás se actualiza ni se elimina. Sequence es consecutivo sin huecos por
// (bodega, producto) y ResultingQuantity es la foto del balance al aplicarla.
type InventoryTransaction struct {
	ID                string
	WarehouseID       string
	ProductID         string
	Kind              string
	Delta             int64
	ResultingQuantity int64
	Sequence          int64
	ActorID           string
	Reason            string
	SaleID            *string
	CreatedAt         time.Time
}
