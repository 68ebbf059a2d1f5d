package sales_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria. El runner serializa cada venta con un mutex y restaura
// un snapshot completo (balances, ledger y ventas) si el callback falla,
// igual que el rollback de la transacción SQL.
// ──────────────────────────────────────────────────────────────────────────────

type memDB struct {
	mu      sync.Mutex
	records map[string]*entity.InventoryRecord
	txs     []*entity.InventoryTransaction
	sales   map[string]*entity.Sale
}

func newMemDB() *memDB {
	return &memDB{
		records: map[string]*entity.InventoryRecord{},
		sales:   map[string]*entity.Sale{},
	}
}

func key(warehouseID, productID string) string { return warehouseID + "|" + productID }

type memRecordRepo struct{ db *memDB }

func (r *memRecordRepo) Get(_ context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	if rec, ok := r.db.records[key(warehouseID, productID)]; ok {
		cp := *rec
		return &cp, nil
	}
	return &entity.InventoryRecord{WarehouseID: warehouseID, ProductID: productID}, nil
}

func (r *memRecordRepo) GetForUpdate(ctx context.Context, warehouseID, productID string) (*entity.InventoryRecord, error) {
	k := key(warehouseID, productID)
	if _, ok := r.db.records[k]; !ok {
		r.db.records[k] = &entity.InventoryRecord{WarehouseID: warehouseID, ProductID: productID}
	}
	cp := *r.db.records[k]
	return &cp, nil
}

func (r *memRecordRepo) UpdateBalance(_ context.Context, warehouseID, productID string, quantity, expectedVersion int64) error {
	rec, ok := r.db.records[key(warehouseID, productID)]
	if !ok || rec.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	rec.Quantity = quantity
	rec.Version++
	return nil
}

func (r *memRecordRepo) SetWarningLevel(context.Context, string, string, int64) error { return nil }

func (r *memRecordRepo) ListByWarehouse(context.Context, string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

func (r *memRecordRepo) ListLowStock(context.Context, []string) ([]*entity.InventoryRecord, error) {
	return nil, nil
}

type memTxRepo struct{ db *memDB }

func (r *memTxRepo) Append(_ context.Context, tx *entity.InventoryTransaction) error {
	for _, existing := range r.db.txs {
		if existing.WarehouseID == tx.WarehouseID && existing.ProductID == tx.ProductID && existing.Sequence == tx.Sequence {
			return domain.ErrConcurrentModification
		}
	}
	cp := *tx
	r.db.txs = append(r.db.txs, &cp)
	return nil
}

func (r *memTxRepo) ListByKey(context.Context, string, string, *time.Time, *time.Time, int, int) ([]*entity.InventoryTransaction, error) {
	return nil, nil
}

func (r *memTxRepo) SumDeltas(_ context.Context, warehouseID, productID string) (int64, error) {
	var sum int64
	for _, tx := range r.db.txs {
		if tx.WarehouseID == warehouseID && tx.ProductID == productID {
			sum += tx.Delta
		}
	}
	return sum, nil
}

func (r *memTxRepo) SumDeltasAll(context.Context, string) ([]repository.LedgerBalance, error) {
	return nil, nil
}

func (r *memTxRepo) ExistsForWarehouse(context.Context, string) (bool, error) { return false, nil }

type memSaleRepo struct{ db *memDB }

func (r *memSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	items := make([]*entity.SaleItem, len(sale.Items))
	for i, it := range sale.Items {
		itCp := *it
		items[i] = &itCp
	}
	cp.Items = items
	r.db.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	sale, ok := r.db.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	cp.Items = append([]*entity.SaleItem(nil), sale.Items...)
	return &cp, nil
}

func (r *memSaleRepo) MarkVoided(_ context.Context, saleID, actorID string, at time.Time) error {
	sale, ok := r.db.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	if sale.Status != entity.SaleStatusCommitted {
		return domain.ErrConflict
	}
	sale.Status = entity.SaleStatusVoided
	sale.VoidedAt = &at
	sale.VoidedBy = &actorID
	return nil
}

func (r *memSaleRepo) ListByWarehouse(_ context.Context, warehouseID string, _, _ *time.Time, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.db.sales {
		if s.WarehouseID == warehouseID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memSaleTxRunner struct{ db *memDB }

func (rn *memSaleTxRunner) RunSale(_ context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	txRepo repository.InventoryTransactionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	rn.db.mu.Lock()
	defer rn.db.mu.Unlock()

	records := make(map[string]*entity.InventoryRecord, len(rn.db.records))
	for k, r := range rn.db.records {
		cp := *r
		records[k] = &cp
	}
	txs := make([]*entity.InventoryTransaction, len(rn.db.txs))
	copy(txs, rn.db.txs)
	salesSnap := make(map[string]*entity.Sale, len(rn.db.sales))
	for k, s := range rn.db.sales {
		cp := *s
		salesSnap[k] = &cp
	}

	if err := fn(&memRecordRepo{db: rn.db}, &memTxRepo{db: rn.db}, &memSaleRepo{db: rn.db}); err != nil {
		rn.db.records = records
		rn.db.txs = txs
		rn.db.sales = salesSnap
		return err
	}
	return nil
}

type allowAllScope struct {
	lastCapability entity.Capability
	err            error
}

func (s *allowAllScope) ResolveScope(_ context.Context, _ string, requested []string, required entity.Capability) ([]string, error) {
	s.lastCapability = required
	if s.err != nil {
		return nil, s.err
	}
	return requested, nil
}

type stubWarehouseRepo struct{}

func (stubWarehouseRepo) Create(context.Context, *entity.Warehouse) error { return nil }
func (stubWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return &entity.Warehouse{ID: id, Name: "Bodega"}, nil
}
func (stubWarehouseRepo) Update(context.Context, *entity.Warehouse) error { return nil }
func (stubWarehouseRepo) List(context.Context, bool) ([]*entity.Warehouse, error) {
	return nil, nil
}
func (stubWarehouseRepo) SetArchived(context.Context, string, bool) error { return nil }
func (stubWarehouseRepo) Delete(context.Context, string) error            { return nil }

// fakeProductRepo permite mutar el costo vigente entre ventas.
type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) GetBySKU(context.Context, string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	f.products[id].Cost = cost
	return nil
}

func (f *fakeProductRepo) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	vendedor = "user-vendedor"
	bodega   = "bodega-1"
	prodA    = "producto-a"
	prodB    = "producto-b"
)

type fixture struct {
	processor *sales.Processor
	ledgerUC  *ledger.UseCase
	db        *memDB
	scope     *allowAllScope
	products  *fakeProductRepo
}

func build() *fixture {
	db := newMemDB()
	scope := &allowAllScope{}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		prodA: {
			ID: prodA, SKU: "SKU-A", Name: "Producto A",
			Cost:           decimal.NewFromInt(30),
			RetailPrice:    decimal.NewFromInt(50),
			WholesalePrice: decimal.NewFromInt(40),
		},
		prodB: {
			ID: prodB, SKU: "SKU-B", Name: "Producto B",
			Cost:           decimal.NewFromInt(10),
			RetailPrice:    decimal.NewFromInt(25),
			WholesalePrice: decimal.NewFromInt(18),
		},
	}}

	ledgerScope := &allowAllScope{}
	ledgerUC := ledger.NewUseCase(nil, ledgerScope, &memRecordRepo{db: db}, &memTxRepo{db: db},
		stubWarehouseRepo{}, products)
	processor := sales.NewProcessor(&memSaleTxRunner{db: db}, scope, ledgerUC,
		products, stubWarehouseRepo{}, &memSaleRepo{db: db})

	return &fixture{processor: processor, ledgerUC: ledgerUC, db: db, scope: scope, products: products}
}

// seed deja stock inicial escribiendo directo en los fakes, como si una
// entrada previa lo hubiera cargado.
func (f *fixture) seed(productID string, quantity int64) {
	f.db.records[key(bodega, productID)] = &entity.InventoryRecord{
		WarehouseID: bodega, ProductID: productID, Quantity: quantity, Version: 1,
	}
	f.db.txs = append(f.db.txs, &entity.InventoryTransaction{
		WarehouseID: bodega, ProductID: productID, Kind: entity.TxKindInbound,
		Delta: quantity, ResultingQuantity: quantity, Sequence: 1, ActorID: "seed",
	})
}

func item(productID string, quantity int64, price int64) sales.SaleItemInput {
	return sales.SaleItemInput{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: decimal.NewFromInt(price),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Venta simple: balance 10, venden 3 a 50 con costo 30 → revenue 150,
// utilidad 60, balance 7 y una salida sale_outbound ligada a la venta.
func TestCreateSale_CalculaTotalesYDescuentaStock(t *testing.T) {
	f := build()
	f.seed(prodA, 10)

	sale, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 3, 50)})

	require.NoError(t, err)
	assert.Equal(t, entity.CapabilitySell, f.scope.lastCapability)
	assert.True(t, decimal.NewFromInt(150).Equal(sale.TotalRevenue), "revenue: %s", sale.TotalRevenue)
	assert.True(t, decimal.NewFromInt(60).Equal(sale.TotalProfit), "profit: %s", sale.TotalProfit)
	assert.Equal(t, entity.SaleStatusCommitted, sale.Status)

	assert.Equal(t, int64(7), f.db.records[key(bodega, prodA)].Quantity)

	require.Len(t, f.db.txs, 2) // seed + salida de venta
	salida := f.db.txs[1]
	assert.Equal(t, entity.TxKindSaleOutbound, salida.Kind)
	assert.Equal(t, int64(-3), salida.Delta)
	require.NotNil(t, salida.SaleID)
	assert.Equal(t, sale.ID, *salida.SaleID)
}

// Una segunda venta que excede el balance falla completa: sin venta, sin
// entradas de ledger y con el balance intacto.
func TestCreateSale_StockInsuficienteEsAtomico(t *testing.T) {
	f := build()
	f.seed(prodA, 10)

	_, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 3, 50)})
	require.NoError(t, err)

	_, err = f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 8, 50)})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(7), f.db.records[key(bodega, prodA)].Quantity)
	assert.Len(t, f.db.sales, 1)
	assert.Len(t, f.db.txs, 2)
}

// Venta multi-línea donde la última línea no tiene stock: ninguna línea
// queda aplicada.
func TestCreateSale_FalloEnUnaLineaRevierteTodas(t *testing.T) {
	f := build()
	f.seed(prodA, 10)
	f.seed(prodB, 1)

	_, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{
			item(prodA, 2, 50),
			item(prodB, 5, 25), // solo hay 1
		})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.db.records[key(bodega, prodA)].Quantity,
		"la línea que sí alcanzaba no debe quedar aplicada")
	assert.Equal(t, int64(1), f.db.records[key(bodega, prodB)].Quantity)
	assert.Empty(t, f.db.sales)
	assert.Len(t, f.db.txs, 2, "solo los seeds")
}

// Precio cero toma el precio de referencia del producto según el canal.
func TestCreateSale_PrecioPorCanal(t *testing.T) {
	f := build()
	f.seed(prodA, 20)

	retail, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{{ProductID: prodA, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(retail.Items[0].UnitPrice))

	mayorista, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelWholesale, []sales.SaleItemInput{{ProductID: prodA, Quantity: 1}})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(mayorista.Items[0].UnitPrice))
}

// Canal desconocido se rechaza antes de tocar nada.
func TestCreateSale_CanalInvalido(t *testing.T) {
	f := build()
	f.seed(prodA, 10)

	_, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		"online", []sales.SaleItemInput{item(prodA, 1, 50)})

	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
	assert.Empty(t, f.db.sales)
}

// El cost_basis es la foto del costo al vender: subir el costo del producto
// después no cambia la utilidad de la venta registrada.
func TestCreateSale_CostBasisInmutable(t *testing.T) {
	f := build()
	f.seed(prodA, 10)

	sale, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 2, 50)})
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(40).Equal(sale.TotalProfit))

	// El costo vigente sube de 30 a 45.
	require.NoError(t, f.products.UpdateCost(context.Background(), prodA, decimal.NewFromInt(45)))

	persisted := f.db.sales[sale.ID]
	assert.True(t, decimal.NewFromInt(30).Equal(persisted.Items[0].CostBasis),
		"el cost_basis capturado no se recalcula jamás")
	assert.True(t, decimal.NewFromInt(40).Equal(persisted.TotalProfit))
}

// Las líneas se aplican en orden ascendente de producto aunque lleguen en
// otro orden (orden determinista de locks).
func TestCreateSale_AplicaLineasOrdenadasPorProducto(t *testing.T) {
	f := build()
	f.seed(prodA, 10)
	f.seed(prodB, 10)

	_, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{
			item(prodB, 1, 25),
			item(prodA, 1, 50),
		})

	require.NoError(t, err)
	require.Len(t, f.db.txs, 4)
	assert.Equal(t, prodA, f.db.txs[2].ProductID)
	assert.Equal(t, prodB, f.db.txs[3].ProductID)
}

// Anular una venta acredita el stock con entradas compensatorias ligadas a
// la venta y no toca las filas originales.
func TestVoidSale_CompensaYConservaHistoria(t *testing.T) {
	f := build()
	f.seed(prodA, 10)
	sale, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 3, 50)})
	require.NoError(t, err)

	voided, err := f.processor.VoidSale(context.Background(), sale.ID, vendedor)

	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusVoided, voided.Status)
	require.NotNil(t, voided.VoidedBy)
	assert.Equal(t, vendedor, *voided.VoidedBy)

	assert.Equal(t, int64(10), f.db.records[key(bodega, prodA)].Quantity,
		"el stock vuelve al nivel previo a la venta")

	// seed + salida original + compensación: nada se borra.
	require.Len(t, f.db.txs, 3)
	compensacion := f.db.txs[2]
	assert.Equal(t, entity.TxKindInbound, compensacion.Kind)
	assert.Equal(t, int64(3), compensacion.Delta)
	require.NotNil(t, compensacion.SaleID)
	assert.Equal(t, sale.ID, *compensacion.SaleID)
}

// Anular dos veces es conflicto y no acredita stock de nuevo.
func TestVoidSale_DobleAnulacionEsConflicto(t *testing.T) {
	f := build()
	f.seed(prodA, 10)
	sale, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 3, 50)})
	require.NoError(t, err)

	_, err = f.processor.VoidSale(context.Background(), sale.ID, vendedor)
	require.NoError(t, err)

	_, err = f.processor.VoidSale(context.Background(), sale.ID, vendedor)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(10), f.db.records[key(bodega, prodA)].Quantity,
		"la segunda anulación no debe acreditar stock otra vez")
	assert.Len(t, f.db.txs, 3)
}

// Sin permiso de sell no hay venta ni efectos.
func TestCreateSale_SinPermisoNoVende(t *testing.T) {
	f := build()
	f.seed(prodA, 10)
	f.scope.err = domain.ErrPermissionDenied

	_, err := f.processor.CreateSale(context.Background(), vendedor, bodega,
		entity.ChannelRetail, []sales.SaleItemInput{item(prodA, 1, 50)})

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, f.db.sales)
	assert.Equal(t, int64(10), f.db.records[key(bodega, prodA)].Quantity)
}

// Anular una venta inexistente es not found.
func TestVoidSale_NoExiste(t *testing.T) {
	f := build()

	_, err := f.processor.VoidSale(context.Background(), "venta-fantasma", vendedor)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
