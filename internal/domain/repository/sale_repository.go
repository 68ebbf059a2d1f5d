package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia de ventas. Create inserta cabecera e
// items dentro de la transacción del caller: la venta existe completa o no
// existe.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus items; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// MarkVoided pasa la venta de committed a voided. Si la venta ya estaba
	// anulada devuelve ErrConflict; las filas originales no se tocan.
	MarkVoided(ctx context.Context, saleID, actorID string, at time.Time) error
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
