package ledger

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ReconcileMismatch es una pareja cuyo balance materializado no coincide con
// la suma de deltas del ledger.
type ReconcileMismatch struct {
	WarehouseID    string
	ProductID      string
	RecordQuantity int64
	LedgerSum      int64
	Repaired       bool
}

// Reconcile verifica la propiedad de reconstrucción desde el log: para cada
// pareja del scope, inventory_records.quantity debe ser exactamente la suma
// de InventoryTransaction.delta. Con repair=true reescribe el registro
// materializado al valor del log bajo la misma disciplina de bloqueo y
// versión (el ledger nunca se toca: es la fuente de verdad).
// Exige adjust sobre las bodegas del scope.
func (uc *UseCase) Reconcile(ctx context.Context, actorID string, warehouseIDs []string, repair bool) ([]ReconcileMismatch, error) {
	scope, err := uc.scope.ResolveScope(ctx, actorID, warehouseIDs, entity.CapabilityAdjust)
	if err != nil {
		return nil, err
	}

	var mismatches []ReconcileMismatch
	for _, warehouseID := range scope {
		sums, err := uc.txRepo.SumDeltasAll(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		records, err := uc.recordRepo.ListByWarehouse(ctx, warehouseID)
		if err != nil {
			return nil, err
		}

		recorded := make(map[string]int64, len(records))
		for _, r := range records {
			recorded[r.ProductID] = r.Quantity
		}

		sumByProduct := make(map[string]int64, len(sums))
		for _, s := range sums {
			sumByProduct[s.ProductID] = s.Sum
			if recorded[s.ProductID] != s.Sum {
				mismatches = append(mismatches, ReconcileMismatch{
					WarehouseID:    warehouseID,
					ProductID:      s.ProductID,
					RecordQuantity: recorded[s.ProductID],
					LedgerSum:      s.Sum,
				})
			}
		}
		// Registros con balance distinto de cero sin respaldo en el log.
		for _, r := range records {
			if _, ok := sumByProduct[r.ProductID]; !ok && r.Quantity != 0 {
				mismatches = append(mismatches, ReconcileMismatch{
					WarehouseID:    warehouseID,
					ProductID:      r.ProductID,
					RecordQuantity: r.Quantity,
					LedgerSum:      0,
				})
			}
		}
	}

	if !repair {
		return mismatches, nil
	}

	for i := range mismatches {
		m := &mismatches[i]
		err := uc.txRunner.Run(ctx, func(
			recordRepo repository.InventoryRecordRepository,
			txRepo repository.InventoryTransactionRepository,
		) error {
			record, err := recordRepo.GetForUpdate(ctx, m.WarehouseID, m.ProductID)
			if err != nil {
				return err
			}
			// Re-lee la suma con la fila bloqueada: entre la detección y el
			// lock pudieron entrar transacciones nuevas.
			sum, err := txRepo.SumDeltas(ctx, m.WarehouseID, m.ProductID)
			if err != nil {
				return err
			}
			m.LedgerSum = sum
			if record.Quantity == sum {
				return nil
			}
			return recordRepo.UpdateBalance(ctx, m.WarehouseID, m.ProductID, sum, record.Version)
		})
		if err != nil {
			return mismatches, err
		}
		m.Repaired = true
	}
	return mismatches, nil
}
