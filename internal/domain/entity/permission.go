package entity

import "time"

// Capability es una capacidad concreta sobre una bodega. El modelo es un
// conjunto explícito por (usuario, bodega); la ausencia de fila significa
// sin acceso.
type Capability string

const (
	CapabilityView     Capability = "view"
	CapabilityInbound  Capability = "inbound"
	CapabilityOutbound Capability = "outbound"
	CapabilityAdjust   Capability = "adjust"
	CapabilitySell     Capability = "sell"
)

// ValidCapability indica si la capacidad es una de las conocidas.
func ValidCapability(c Capability) bool {
	switch c {
	case CapabilityView, CapabilityInbound, CapabilityOutbound, CapabilityAdjust, CapabilitySell:
		return true
	}
	return false
}

// Permission representa el conjunto de capacidades de un usuario sobre una
// bodega. Lo mutan solo los colaboradores administrativos; el núcleo lo lee.
type Permission struct {
	UserID       string
	WarehouseID  string
	Capabilities []Capability
	GrantedAt    time.Time
}

// Has indica si el conjunto incluye la capacidad dada.
func (p *Permission) Has(c Capability) bool {
	for _, cap := range p.Capabilities {
		if cap == c {
			return true
		}
	}
	return false
}
