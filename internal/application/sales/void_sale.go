package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// VoidSale anula una venta committed: registra una entrada compensatoria
// (inbound) por cada línea y marca la venta como voided, todo en una
// transacción. Las entradas originales del ledger no se tocan ni se borran;
// la anulación queda como historia adicional. Exige sell sobre la bodega de
// la venta (la anulación es parte del ciclo de vida de la venta).
// Anular una venta ya anulada devuelve ErrConflict.
func (p *Processor) VoidSale(ctx context.Context, saleID, actorID string) (*entity.Sale, error) {
	if saleID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, err := p.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := p.scope.ResolveScope(ctx, actorID, []string{sale.WarehouseID}, entity.CapabilitySell); err != nil {
		return nil, err
	}
	if sale.Status != entity.SaleStatusCommitted {
		return nil, domain.ErrConflict
	}

	// Mismo orden determinista de locks que CreateSale.
	items := make([]*entity.SaleItem, len(sale.Items))
	copy(items, sale.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})

	now := time.Now()
	reason := fmt.Sprintf("anulación de venta %s", sale.ID)

	err = p.txRunner.RunSale(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.InventoryTransactionRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range items {
			if _, err := p.ledger.ApplyInTx(ctx, recordRepo, txRepo, ledger.ApplyTransactionInput{
				WarehouseID: sale.WarehouseID,
				ProductID:   item.ProductID,
				Kind:        entity.TxKindInbound,
				Delta:       item.Quantity,
				ActorID:     actorID,
				Reason:      reason,
				SaleID:      &sale.ID,
			}, now); err != nil {
				return err
			}
		}
		// MarkVoided verifica dentro de la tx que la venta siga committed;
		// dos anulaciones concurrentes no pueden acreditar stock dos veces.
		return saleRepo.MarkVoided(ctx, sale.ID, actorID, now)
	})
	if err != nil {
		return nil, err
	}

	sale.Status = entity.SaleStatusVoided
	sale.VoidedAt = &now
	sale.VoidedBy = &actorID
	return sale, nil
}

// GetSale devuelve una venta con sus items; exige view sobre su bodega.
func (p *Processor) GetSale(ctx context.Context, saleID, actorID string) (*entity.Sale, error) {
	sale, err := p.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := p.scope.ResolveScope(ctx, actorID, []string{sale.WarehouseID}, entity.CapabilityView); err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales lista ventas de una bodega del scope de view del actor.
func (p *Processor) ListSales(
	ctx context.Context,
	actorID, warehouseID string,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.Sale, error) {
	if _, err := p.scope.ResolveScope(ctx, actorID, []string{warehouseID}, entity.CapabilityView); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return p.saleRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}
