package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// maxApplyRetries acota los reintentos ante ErrConcurrentModification antes
// de propagarlo al caller.
const maxApplyRetries = 3

// UseCase es el motor del ledger: única puerta de mutación de balances.
// Cada ApplyTransaction corre como unidad de trabajo atómica con la fila de
// inventory_records bloqueada (SELECT FOR UPDATE) y verificación de versión;
// los componentes superiores (ventas) llaman ApplyInTx dentro de su propia
// transacción en lugar de escribir registros directamente.
type UseCase struct {
	txRunner      TxRunner
	scope         ScopeResolver
	recordRepo    repository.InventoryRecordRepository
	txRepo        repository.InventoryTransactionRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
}

// NewUseCase construye el motor del ledger.
func NewUseCase(
	txRunner TxRunner,
	scope ScopeResolver,
	recordRepo repository.InventoryRecordRepository,
	txRepo repository.InventoryTransactionRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		scope:         scope,
		recordRepo:    recordRepo,
		txRepo:        txRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
	}
}

// ApplyTransactionInput entrada para aplicar una transacción de stock.
// Delta es firmado: positivo en inbound, negativo en outbound/sale_outbound,
// cualquiera (≠0) en adjustment. AllowNegative solo aplica a adjustment y
// exige Reason legible.
type ApplyTransactionInput struct {
	WarehouseID   string
	ProductID     string
	Kind          string
	Delta         int64
	ActorID       string
	Reason        string
	AllowNegative bool
	SaleID        *string
}

func (in *ApplyTransactionInput) validate() error {
	if in.WarehouseID == "" || in.ProductID == "" || in.ActorID == "" {
		return domain.ErrInvalidInput
	}
	if in.Delta == 0 {
		return domain.ErrInvalidInput
	}
	switch in.Kind {
	case entity.TxKindInbound:
		if in.Delta < 0 {
			return domain.ErrInvalidInput
		}
	case entity.TxKindOutbound, entity.TxKindSaleOutbound:
		if in.Delta > 0 {
			return domain.ErrInvalidInput
		}
	case entity.TxKindAdjustment:
		// Los ajustes siempre llevan motivo; es la pista de auditoría de las
		// correcciones de inventario físico.
		if in.Reason == "" {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	if in.AllowNegative && in.Kind != entity.TxKindAdjustment {
		return domain.ErrInvalidInput
	}
	return nil
}

// ApplyTransaction valida permisos según el tipo, aplica el delta bajo
// bloqueo de fila y registra la entrada del ledger con el siguiente
// consecutivo. Devuelve el balance resultante. Ante conflicto de versión
// reintenta hasta maxApplyRetries y luego propaga ErrConcurrentModification.
func (uc *UseCase) ApplyTransaction(ctx context.Context, in ApplyTransactionInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	capability, ok := entity.CapabilityForKind(in.Kind)
	if !ok {
		return 0, domain.ErrInvalidInput
	}
	if _, err := uc.scope.ResolveScope(ctx, in.ActorID, []string{in.WarehouseID}, capability); err != nil {
		return 0, err
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, domain.ErrNotFound
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return 0, err
	}
	if warehouse == nil {
		return 0, domain.ErrNotFound
	}

	var newBalance int64
	for attempt := 0; ; attempt++ {
		err = uc.txRunner.Run(ctx, func(
			recordRepo repository.InventoryRecordRepository,
			txRepo repository.InventoryTransactionRepository,
		) error {
			applied, applyErr := uc.ApplyInTx(ctx, recordRepo, txRepo, in, time.Now())
			if applyErr != nil {
				return applyErr
			}
			newBalance = applied.ResultingQuantity
			return nil
		})
		if errors.Is(err, domain.ErrConcurrentModification) && attempt < maxApplyRetries-1 {
			continue
		}
		break
	}
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

// ApplyInTx aplica una transacción usando los repositorios del caller
// (misma transacción SQL). El caller ya resolvió scope para el actor; las
// ventas lo usan para componer varias salidas en una sola unidad de trabajo.
// Si falla, nada se persiste: el caller hace rollback.
func (uc *UseCase) ApplyInTx(
	ctx context.Context,
	recordRepo repository.InventoryRecordRepository,
	txRepo repository.InventoryTransactionRepository,
	in ApplyTransactionInput,
	now time.Time,
) (*entity.InventoryTransaction, error) {
	// Bloquea la fila del balance; serializa mutaciones de la misma pareja
	// (bodega, producto) sin bloquear parejas distintas.
	record, err := recordRepo.GetForUpdate(ctx, in.WarehouseID, in.ProductID)
	if err != nil {
		return nil, err
	}

	newQuantity := record.Quantity + in.Delta
	if newQuantity < 0 && !(in.Kind == entity.TxKindAdjustment && in.AllowNegative) {
		return nil, domain.ErrInsufficientStock
	}

	// sequence = version + 1: con la fila bloqueada el consecutivo por
	// pareja queda estrictamente creciente y sin huecos.
	tx := &entity.InventoryTransaction{
		ID:                uuid.New().String(),
		WarehouseID:       in.WarehouseID,
		ProductID:         in.ProductID,
		Kind:              in.Kind,
		Delta:             in.Delta,
		ResultingQuantity: newQuantity,
		Sequence:          record.Version + 1,
		ActorID:           in.ActorID,
		Reason:            in.Reason,
		SaleID:            in.SaleID,
		CreatedAt:         now,
	}
	if err := txRepo.Append(ctx, tx); err != nil {
		return nil, err
	}
	if err := recordRepo.UpdateBalance(ctx, in.WarehouseID, in.ProductID, newQuantity, record.Version); err != nil {
		return nil, err
	}
	return tx, nil
}

// ReadBalance devuelve el balance actual de la pareja; exige view sobre la
// bodega. Una pareja sin registro equivale a balance cero.
func (uc *UseCase) ReadBalance(ctx context.Context, actorID, warehouseID, productID string) (int64, error) {
	if _, err := uc.scope.ResolveScope(ctx, actorID, []string{warehouseID}, entity.CapabilityView); err != nil {
		return 0, err
	}
	record, err := uc.recordRepo.Get(ctx, warehouseID, productID)
	if err != nil {
		return 0, err
	}
	return record.Quantity, nil
}

// ReadHistory devuelve las transacciones de la pareja en orden de sequence
// ascendente; exige view sobre la bodega. No retiene locks.
func (uc *UseCase) ReadHistory(
	ctx context.Context,
	actorID, warehouseID, productID string,
	from, to *time.Time,
	limit, offset int,
) ([]*entity.InventoryTransaction, error) {
	if _, err := uc.scope.ResolveScope(ctx, actorID, []string{warehouseID}, entity.CapabilityView); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return uc.txRepo.ListByKey(ctx, warehouseID, productID, from, to, limit, offset)
}

// ListLowStock devuelve los registros en o bajo su nivel de alerta dentro
// del scope de view del actor.
func (uc *UseCase) ListLowStock(ctx context.Context, actorID string, warehouseIDs []string) ([]*entity.InventoryRecord, error) {
	scope, err := uc.scope.ResolveScope(ctx, actorID, warehouseIDs, entity.CapabilityView)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []*entity.InventoryRecord{}, nil
	}
	return uc.recordRepo.ListLowStock(ctx, scope)
}

// SetWarningLevel cambia el umbral de alerta de la pareja; exige adjust.
func (uc *UseCase) SetWarningLevel(ctx context.Context, actorID, warehouseID, productID string, level int64) error {
	if level < 0 {
		return domain.ErrInvalidInput
	}
	if _, err := uc.scope.ResolveScope(ctx, actorID, []string{warehouseID}, entity.CapabilityAdjust); err != nil {
		return err
	}
	return uc.recordRepo.SetWarningLevel(ctx, warehouseID, productID, level)
}
