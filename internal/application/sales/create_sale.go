package sales

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Processor compone ventas sobre el motor del ledger: una venta descuenta
// stock por cada línea y persiste cabecera e items en una sola transacción,
// o no persiste nada.
type Processor struct {
	txRunner      SaleTxRunner
	scope         ScopeResolver
	ledger        LedgerApplier
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	saleRepo      repository.SaleRepository
}

// NewProcessor construye el procesador de ventas.
func NewProcessor(
	txRunner SaleTxRunner,
	scope ScopeResolver,
	ledgerApplier LedgerApplier,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	saleRepo repository.SaleRepository,
) *Processor {
	return &Processor{
		txRunner:      txRunner,
		scope:         scope,
		ledger:        ledgerApplier,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		saleRepo:      saleRepo,
	}
}

// SaleItemInput línea solicitada de una venta. UnitPrice en cero toma el
// precio de referencia del producto según el canal.
type SaleItemInput struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateSale crea una venta en el canal dado. Resuelve scope con capacidad
// sell, captura el costo vigente de cada producto como cost_basis y aplica
// una salida sale_outbound por línea dentro de una transacción única. Las
// líneas se aplican en orden ascendente de producto para que ventas
// concurrentes multi-producto adquieran los locks en el mismo orden.
// Si cualquier línea falla (ej. stock insuficiente) se hace rollback: cero
// entradas de ledger y cero filas de venta.
func (p *Processor) CreateSale(
	ctx context.Context,
	userID, warehouseID, channel string,
	items []SaleItemInput,
) (*entity.Sale, error) {
	if warehouseID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidChannel(channel) {
		return nil, domain.ErrInvalidChannel
	}
	if _, err := p.scope.ResolveScope(ctx, userID, []string{warehouseID}, entity.CapabilitySell); err != nil {
		return nil, err
	}

	warehouse, err := p.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, domain.ErrNotFound
	}

	// Validar productos y precios fuera de la tx (solo lectura) y capturar
	// cost_basis: la foto del costo al momento de la venta.
	saleID := uuid.New().String()
	now := time.Now()
	saleItems := make([]*entity.SaleItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 || item.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := p.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		unitPrice := item.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.PriceForChannel(channel)
		}
		saleItems = append(saleItems, &entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			CostBasis: product.Cost,
		})
	}

	// Orden determinista de adquisición de locks entre ventas concurrentes.
	sort.Slice(saleItems, func(i, j int) bool {
		return saleItems[i].ProductID < saleItems[j].ProductID
	})

	totalRevenue := decimal.Zero
	totalProfit := decimal.Zero
	for _, item := range saleItems {
		totalRevenue = totalRevenue.Add(item.LineRevenue())
		totalProfit = totalProfit.Add(item.LineProfit())
	}

	sale := &entity.Sale{
		ID:           saleID,
		WarehouseID:  warehouseID,
		Channel:      channel,
		ActorID:      userID,
		TotalRevenue: totalRevenue,
		TotalProfit:  totalProfit,
		Status:       entity.SaleStatusCommitted,
		CreatedAt:    now,
		Items:        saleItems,
	}

	err = p.txRunner.RunSale(ctx, func(
		recordRepo repository.InventoryRecordRepository,
		txRepo repository.InventoryTransactionRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, item := range saleItems {
			if _, err := p.ledger.ApplyInTx(ctx, recordRepo, txRepo, ledger.ApplyTransactionInput{
				WarehouseID: warehouseID,
				ProductID:   item.ProductID,
				Kind:        entity.TxKindSaleOutbound,
				Delta:       -item.Quantity,
				ActorID:     userID,
				SaleID:      &saleID,
			}, now); err != nil {
				return err
			}
		}
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
