package sales_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtimana/supply-AI/internal/application/cashbox"
	"github.com/davidtimana/supply-AI/internal/application/dto"
	"github.com/davidtimana/supply-AI/internal/application/inventory"
	"github.com/davidtimana/supply-AI/internal/application/sales"
	"github.com/davidtimana/supply-AI/internal/domain"
	"github.com/davidtimana/supply-AI/internal/domain/entity"
	"github.com/davidtimana/supply-AI/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria para la transacción completa de la venta
//
// El memTxRunner toma un snapshot de los cinco repositorios antes de ejecutar
// fn y lo restaura si falla: emula el rollback de la transacción real. Sobre
// estos dobles se montan los casos de uso reales de inventario y caja, de
// forma que el orquestador se prueba con la integración completa.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOrg      = "org-1"
	testUser     = "user-1"
	testBranch   = "branch-1"
	testBranch2  = "branch-2"
	testRegister = "register-1"
	prodCafe     = "prod-cafe"
	prodPan      = "prod-pan"
)

// ── stock ──

type memStockRepo struct {
	records map[string]*entity.StockRecord
}

func stockKey(productID, branchID string) string { return productID + "|" + branchID }

func (r *memStockRepo) Get(productID, branchID string) (*entity.StockRecord, error) {
	rec, ok := r.records[stockKey(productID, branchID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *memStockRepo) Create(record *entity.StockRecord) error {
	cp := *record
	r.records[stockKey(record.ProductID, record.BranchID)] = &cp
	return nil
}

func (r *memStockRepo) UpdateWithVersion(record *entity.StockRecord, expectedVersion int64) error {
	key := stockKey(record.ProductID, record.BranchID)
	current, ok := r.records[key]
	if !ok || current.Version != expectedVersion {
		return domain.ErrConflict
	}
	record.Version = expectedVersion + 1
	cp := *record
	r.records[key] = &cp
	return nil
}

func (r *memStockRepo) ListByBranch(string, int, int) ([]*entity.StockRecord, error) {
	return nil, nil
}

// ── movimientos de inventario ──

type memMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (r *memMovementRepo) Create(movement *entity.InventoryMovement) error {
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(string) (*entity.InventoryMovement, error) { return nil, nil }

func (r *memMovementRepo) ListByProduct(string, string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

func (r *memMovementRepo) ListByBranch(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

func (r *memMovementRepo) ofKind(kind string) []*entity.InventoryMovement {
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ── ventas ──

type memSaleRepo struct {
	sales map[string]*entity.Sale
	lines []*entity.SaleLine
}

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	cp.Lines = nil // las líneas se guardan aparte, como en la tabla real
	r.sales[sale.ID] = &cp
	return nil
}

func (r *memSaleRepo) CreateLine(line *entity.SaleLine) error {
	cp := *line
	r.lines = append(r.lines, &cp)
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	for _, line := range r.lines {
		if line.SaleID == id {
			lcp := *line
			cp.Lines = append(cp.Lines, &lcp)
		}
	}
	return &cp, nil
}

func (r *memSaleRepo) ListByBranch(branchID string, _, _ int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.sales {
		if sale.BranchID == branchID {
			cp := *sale
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSaleRepo) UpdateState(sale *entity.Sale, expectedState string) error {
	current, ok := r.sales[sale.ID]
	if !ok || current.State != expectedState {
		// misma semántica que el UPDATE condicionado: cero filas afectadas
		return domain.ErrInvalidState
	}
	current.State = sale.State
	current.UpdatedAt = sale.UpdatedAt
	return nil
}

// ── cajas ──

type memRegisterRepo struct {
	registers map[string]*entity.CashRegister
}

func (r *memRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	reg, ok := r.registers[id]
	if !ok {
		return nil, nil
	}
	cp := *reg
	return &cp, nil
}

func (r *memRegisterRepo) Create(register *entity.CashRegister) error {
	cp := *register
	r.registers[register.ID] = &cp
	return nil
}

func (r *memRegisterRepo) UpdateWithVersion(register *entity.CashRegister, expectedVersion int64) error {
	current, ok := r.registers[register.ID]
	if !ok || current.Version != expectedVersion {
		return domain.ErrConflict
	}
	register.Version = expectedVersion + 1
	cp := *register
	r.registers[register.ID] = &cp
	return nil
}

func (r *memRegisterRepo) ListByBranch(string, int, int) ([]*entity.CashRegister, error) {
	return nil, nil
}

type memCashMovRepo struct {
	movements []*entity.CashMovement
}

func (r *memCashMovRepo) Create(movement *entity.CashMovement) error {
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memCashMovRepo) ListByRegister(string, *time.Time, *time.Time, int, int) ([]*entity.CashMovement, error) {
	return nil, nil
}

func (r *memCashMovRepo) ofKind(kind string) []*entity.CashMovement {
	var out []*entity.CashMovement
	for _, m := range r.movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// ── catálogo y directorio ──

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) ListByOrganization(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}

type memBranchRepo struct {
	branches map[string]*entity.Branch
}

func (r *memBranchRepo) GetByID(id string) (*entity.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBranchRepo) ListByOrganization(string, int, int) ([]*entity.Branch, error) {
	return nil, nil
}

// ── transacción ──

type memTxRunner struct {
	stock     *memStockRepo
	movs      *memMovementRepo
	saleRepo  *memSaleRepo
	registers *memRegisterRepo
	cashMovs  *memCashMovRepo
	// beforeSaleTx corre una sola vez al inicio de la siguiente RunSale:
	// emula una escritura concurrente confirmada entre la lectura de la
	// venta y su transacción
	beforeSaleTx func()
}

func (tx *memTxRunner) snapshot() func() {
	stockSnap := make(map[string]*entity.StockRecord, len(tx.stock.records))
	for k, v := range tx.stock.records {
		cp := *v
		stockSnap[k] = &cp
	}
	registerSnap := make(map[string]*entity.CashRegister, len(tx.registers.registers))
	for k, v := range tx.registers.registers {
		cp := *v
		registerSnap[k] = &cp
	}
	saleSnap := make(map[string]*entity.Sale, len(tx.saleRepo.sales))
	for k, v := range tx.saleRepo.sales {
		cp := *v
		saleSnap[k] = &cp
	}
	movCount := len(tx.movs.movements)
	cashMovCount := len(tx.cashMovs.movements)
	lineCount := len(tx.saleRepo.lines)

	return func() {
		tx.stock.records = stockSnap
		tx.registers.registers = registerSnap
		tx.saleRepo.sales = saleSnap
		tx.movs.movements = tx.movs.movements[:movCount]
		tx.cashMovs.movements = tx.cashMovs.movements[:cashMovCount]
		tx.saleRepo.lines = tx.saleRepo.lines[:lineCount]
	}
}

func (tx *memTxRunner) RunSale(_ context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
	saleRepo repository.SaleRepository,
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	if tx.beforeSaleTx != nil {
		tx.beforeSaleTx()
		tx.beforeSaleTx = nil
	}
	rollback := tx.snapshot()
	if err := fn(tx.stock, tx.movs, tx.saleRepo, tx.registers, tx.cashMovs); err != nil {
		rollback()
		return err
	}
	return nil
}

func (tx *memTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockRecordRepository,
	movRepo repository.InventoryMovementRepository,
) error) error {
	rollback := tx.snapshot()
	if err := fn(tx.stock, tx.movs); err != nil {
		rollback()
		return err
	}
	return nil
}

func (tx *memTxRunner) RunRegister(_ context.Context, fn func(
	registerRepo repository.CashRegisterRepository,
	cashMovRepo repository.CashMovementRepository,
) error) error {
	rollback := tx.snapshot()
	if err := fn(tx.registers, tx.cashMovs); err != nil {
		rollback()
		return err
	}
	return nil
}

// ── generador de tickets ──

type fakeReceipts struct {
	calls int
}

func (g *fakeReceipts) Generate(*entity.Sale, map[string]*entity.Product, string) ([]byte, error) {
	g.calls++
	return []byte("%PDF-1.7 ticket"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type salesFixture struct {
	uc        *sales.UseCase
	tx        *memTxRunner
	stock     *memStockRepo
	movs      *memMovementRepo
	saleRepo  *memSaleRepo
	registers *memRegisterRepo
	cashMovs  *memCashMovRepo
	receipts  *fakeReceipts
}

func newSalesFixture(t *testing.T) *salesFixture {
	t.Helper()
	stock := &memStockRepo{records: make(map[string]*entity.StockRecord)}
	movs := &memMovementRepo{}
	saleRepo := &memSaleRepo{sales: make(map[string]*entity.Sale)}
	registers := &memRegisterRepo{registers: make(map[string]*entity.CashRegister)}
	cashMovs := &memCashMovRepo{}
	receipts := &fakeReceipts{}

	products := &memProductRepo{products: map[string]*entity.Product{
		prodCafe: {
			ID: prodCafe, OrganizationID: testOrg, Name: "Café 500g",
			Price: decimal.NewFromInt(1000), Cost: decimal.NewFromInt(600),
			TaxRate: decimal.NewFromFloat(0.19), Active: true,
		},
		prodPan: {
			ID: prodPan, OrganizationID: testOrg, Name: "Pan artesanal",
			Price: decimal.NewFromInt(500), Cost: decimal.NewFromInt(300),
			TaxRate: decimal.Zero, Active: true,
		},
	}}
	branches := &memBranchRepo{branches: map[string]*entity.Branch{
		testBranch:  {ID: testBranch, OrganizationID: testOrg, Name: "Sucursal Centro", Active: true},
		testBranch2: {ID: testBranch2, OrganizationID: testOrg, Name: "Sucursal Norte", Active: true},
	}}

	tx := &memTxRunner{stock: stock, movs: movs, saleRepo: saleRepo, registers: registers, cashMovs: cashMovs}
	ledger := inventory.NewLedgerUseCase(tx, stock, movs, products, branches)
	registersUC := cashbox.NewUseCase(tx, registers, cashMovs, branches)

	uc := sales.NewUseCase(tx, ledger, registersUC, saleRepo, products, branches, registers, receipts)
	return &salesFixture{
		uc: uc, tx: tx, stock: stock, movs: movs, saleRepo: saleRepo,
		registers: registers, cashMovs: cashMovs, receipts: receipts,
	}
}

func (f *salesFixture) seedStock(t *testing.T, productID string, quantity int64) {
	t.Helper()
	rec := entity.NewStockRecord(testOrg, productID, testBranch, time.Now())
	rec.ID = "stock-" + productID
	rec.QuantityOnHand = decimal.NewFromInt(quantity)
	require.NoError(t, f.stock.Create(rec))
}

func (f *salesFixture) seedOpenRegister(t *testing.T, balance int64) {
	t.Helper()
	register := entity.NewCashRegister(testOrg, testBranch, "Caja 1", time.Now())
	register.ID = testRegister
	register.Open(decimal.NewFromInt(balance))
	require.NoError(t, f.registers.Create(register))
}

// venta estándar: 2 cafés + 1 pan, propina 200, descuento 100, en efectivo
func standardRequest() dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		BranchID:      testBranch,
		RegisterID:    testRegister,
		PaymentMethod: entity.PaymentCash,
		Tip:           decimal.NewFromInt(200),
		Discount:      decimal.NewFromInt(100),
		Lines: []dto.SaleLineRequest{
			{ProductID: prodCafe, Quantity: decimal.NewFromInt(2)},
			{ProductID: prodPan, Quantity: decimal.NewFromInt(1)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_FlujoCompleto(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodCafe, 30)
	f.seedStock(t, prodPan, 10)
	f.seedOpenRegister(t, 10000)

	sale, err := f.uc.CreateSale(context.Background(), testOrg, testUser, standardRequest())
	require.NoError(t, err)

	// Estado y ticket
	assert.Equal(t, entity.SaleCompleted, sale.State, "la venta nace completada")
	assert.True(t, strings.HasPrefix(sale.TicketNumber, "TK-"))

	// Totales: 2x1000 (IVA 19% = 380) + 1x500 = subtotal 2500
	// Total = 2500 + 380 + 200 - 100 = 2980
	assert.True(t, decimal.NewFromInt(2500).Equal(sale.Subtotal), "subtotal: %s", sale.Subtotal)
	assert.True(t, decimal.NewFromInt(380).Equal(sale.Tax), "IVA: %s", sale.Tax)
	assert.True(t, decimal.NewFromInt(2980).Equal(sale.Total), "total: %s", sale.Total)

	// Persistencia de cabecera y líneas
	stored, _ := f.saleRepo.GetByID(sale.ID)
	require.NotNil(t, stored)
	assert.Len(t, stored.Lines, 2)

	// Inventario descontado, un OUT por línea con la venta como referencia
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	pan, _ := f.stock.Get(prodPan, testBranch)
	assert.True(t, decimal.NewFromInt(28).Equal(cafe.QuantityOnHand))
	assert.True(t, decimal.NewFromInt(9).Equal(pan.QuantityOnHand))
	outs := f.movs.ofKind(entity.MovementOut)
	require.Len(t, outs, 2)
	for _, mov := range outs {
		assert.Equal(t, sale.ID, mov.Reference, "el movimiento referencia la venta")
	}

	// Caja: la venta entra sin la propina; la propina entra aparte
	register, _ := f.registers.GetByID(testRegister)
	assert.True(t, decimal.NewFromInt(2780).Equal(register.TotalSales),
		"TotalSales = Total - Tip: %s", register.TotalSales)
	assert.True(t, decimal.NewFromInt(200).Equal(register.TotalTips))
	assert.True(t, decimal.NewFromInt(12980).Equal(register.CurrentBalance),
		"10000 + 2780 + 200: %s", register.CurrentBalance)
	require.Len(t, f.cashMovs.ofKind(entity.CashMovementSale), 1)
	require.Len(t, f.cashMovs.ofKind(entity.CashMovementTip), 1)
}

func TestCreateSale_StockInsuficienteEnUnaLinea_FallaTodo(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodCafe, 30)
	f.seedStock(t, prodPan, 0) // el pan no alcanza
	f.seedOpenRegister(t, 10000)

	_, err := f.uc.CreateSale(context.Background(), testOrg, testUser, standardRequest())

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.saleRepo.sales, "no debe quedar ninguna venta")
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	assert.True(t, decimal.NewFromInt(30).Equal(cafe.QuantityOnHand),
		"la línea válida tampoco descuenta: todo-o-nada")
	assert.Empty(t, f.movs.movements)
	assert.Empty(t, f.cashMovs.movements)
}

func TestCreateSale_CajaCerrada_RevierteInventario(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodCafe, 30)
	f.seedStock(t, prodPan, 10)
	register := entity.NewCashRegister(testOrg, testBranch, "Caja 1", time.Now())
	register.ID = testRegister
	require.NoError(t, f.registers.Create(register)) // queda CLOSED

	_, err := f.uc.CreateSale(context.Background(), testOrg, testUser, standardRequest())

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	// El descuento de stock ocurrió dentro de la tx y debe haberse revertido
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	assert.True(t, decimal.NewFromInt(30).Equal(cafe.QuantityOnHand),
		"el rollback devuelve el stock descontado")
	assert.Empty(t, f.saleRepo.sales)
	assert.Empty(t, f.movs.movements)
}

func TestCreateSale_SinCaja_NoTocaCaja(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodCafe, 30)
	f.seedStock(t, prodPan, 10)

	req := standardRequest()
	req.RegisterID = ""
	req.Tip = decimal.Zero

	sale, err := f.uc.CreateSale(context.Background(), testOrg, testUser, req)

	require.NoError(t, err)
	assert.Equal(t, entity.SaleCompleted, sale.State)
	assert.Empty(t, f.cashMovs.movements, "sin caja asociada no hay movimiento de caja")
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	assert.True(t, decimal.NewFromInt(28).Equal(cafe.QuantityOnHand),
		"el inventario sí se descuenta")
}

func TestCreateSale_CajaDeOtraSucursal_Invalido(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodCafe, 30)
	f.seedStock(t, prodPan, 10)
	register := entity.NewCashRegister(testOrg, testBranch2, "Caja Norte", time.Now())
	register.ID = testRegister
	register.Open(decimal.Zero)
	require.NoError(t, f.registers.Create(register))

	_, err := f.uc.CreateSale(context.Background(), testOrg, testUser, standardRequest())

	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"la caja debe pertenecer a la sucursal de la venta")
}

func TestCreateSale_PrecioDeLineaPisaElCatalogo(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodPan, 10)

	precio := decimal.NewFromInt(450)
	req := dto.CreateSaleRequest{
		BranchID:      testBranch,
		PaymentMethod: entity.PaymentCard,
		Lines: []dto.SaleLineRequest{
			{ProductID: prodPan, Quantity: decimal.NewFromInt(2), UnitPrice: &precio},
		},
	}

	sale, err := f.uc.CreateSale(context.Background(), testOrg, testUser, req)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(900).Equal(sale.Subtotal),
		"2 x 450 con precio de la línea: %s", sale.Subtotal)
}

func TestCreateSale_Validaciones(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodPan, 10)

	tests := []struct {
		name   string
		mutate func(req *dto.CreateSaleRequest)
	}{
		{"sin líneas", func(req *dto.CreateSaleRequest) { req.Lines = nil }},
		{"método de pago inválido", func(req *dto.CreateSaleRequest) { req.PaymentMethod = "CHEQUE" }},
		{"propina negativa", func(req *dto.CreateSaleRequest) { req.Tip = decimal.NewFromInt(-1) }},
		{"cantidad cero", func(req *dto.CreateSaleRequest) { req.Lines[0].Quantity = decimal.Zero }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.CreateSaleRequest{
				BranchID:      testBranch,
				PaymentMethod: entity.PaymentCash,
				Lines: []dto.SaleLineRequest{
					{ProductID: prodPan, Quantity: decimal.NewFromInt(1)},
				},
			}
			tt.mutate(&req)
			_, err := f.uc.CreateSale(context.Background(), testOrg, testUser, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateSale_ProductoDeOtraOrganizacion_Forbidden(t *testing.T) {
	f := newSalesFixture(t)
	f.seedStock(t, prodPan, 10)

	req := dto.CreateSaleRequest{
		BranchID:      testBranch,
		PaymentMethod: entity.PaymentCash,
		Lines: []dto.SaleLineRequest{
			{ProductID: prodPan, Quantity: decimal.NewFromInt(1)},
		},
	}

	_, err := f.uc.CreateSale(context.Background(), "org-ajena", testUser, req)

	// La sucursal tampoco es de esa organización, así que el error llega antes
	assert.Error(t, err)
	assert.Empty(t, f.saleRepo.sales)
}

// ──────────────────────────────────────────────────────────────────────────────
// Devolución, cancelación y anulación
// ──────────────────────────────────────────────────────────────────────────────

// completedSale deja una venta completada en el fixture y la devuelve.
func completedSale(t *testing.T, f *salesFixture) *entity.Sale {
	t.Helper()
	f.seedStock(t, prodCafe, 30)
	f.seedStock(t, prodPan, 10)
	f.seedOpenRegister(t, 10000)
	sale, err := f.uc.CreateSale(context.Background(), testOrg, testUser, standardRequest())
	require.NoError(t, err)
	return sale
}

func TestReturnSale_ReingresaStockYReembolsa(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	returned, err := f.uc.ReturnSale(context.Background(), testOrg, testUser, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SaleReturned, returned.State)
	assert.True(t, sale.Total.Equal(returned.Total), "los totales no cambian al devolver")

	// Stock de vuelta a los valores originales vía movimientos RETURN
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	pan, _ := f.stock.Get(prodPan, testBranch)
	assert.True(t, decimal.NewFromInt(30).Equal(cafe.QuantityOnHand))
	assert.True(t, decimal.NewFromInt(10).Equal(pan.QuantityOnHand))
	require.Len(t, f.movs.ofKind(entity.MovementReturn), 2)

	// Caja: reembolso por Total - Tip; la propina no se devuelve
	register, _ := f.registers.GetByID(testRegister)
	assert.True(t, register.TotalSales.IsZero(),
		"el reembolso revierte la venta en TotalSales: %s", register.TotalSales)
	assert.True(t, decimal.NewFromInt(200).Equal(register.TotalTips),
		"la propina queda en la caja")
	assert.True(t, decimal.NewFromInt(10200).Equal(register.CurrentBalance),
		"10000 + propina 200: %s", register.CurrentBalance)
	refunds := f.cashMovs.ofKind(entity.CashMovementRefund)
	require.Len(t, refunds, 1)
	assert.True(t, decimal.NewFromInt(2780).Equal(refunds[0].Amount))
	assert.Equal(t, sale.ID, refunds[0].Reference)
}

func TestReturnSale_SoloVentasCompletadas(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	_, err := f.uc.ReturnSale(context.Background(), testOrg, testUser, sale.ID)
	require.NoError(t, err)

	_, err = f.uc.ReturnSale(context.Background(), testOrg, testUser, sale.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"una venta ya devuelta no se devuelve otra vez")
}

// La caja se cerró y reabrió con una base menor al reembolso entre la venta
// y la devolución: reembolsar dejaría el saldo negativo, así que la
// devolución completa se rechaza y nada queda escrito.
func TestReturnSale_CajaSinFondos_RechazaLaDevolucion(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	register := f.registers.registers[testRegister]
	register.Close()
	register.Open(decimal.NewFromInt(5))

	_, err := f.uc.ReturnSale(context.Background(), testOrg, testUser, sale.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"un reembolso sin fondos en la caja no procede")

	// Todo-o-nada: el stock sigue descontado y la caja intacta
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	assert.True(t, decimal.NewFromInt(28).Equal(cafe.QuantityOnHand),
		"el reingreso de stock se revierte junto con el reembolso")
	assert.Empty(t, f.cashMovs.ofKind(entity.CashMovementRefund))
	register, _ = f.registers.GetByID(testRegister)
	assert.True(t, decimal.NewFromInt(5).Equal(register.CurrentBalance),
		"ningún saldo queda negativo: %s", register.CurrentBalance)
	assert.True(t, register.CashBalance.GreaterThanOrEqual(decimal.Zero))
	stored, _ := f.saleRepo.GetByID(sale.ID)
	assert.Equal(t, entity.SaleCompleted, stored.State, "la venta sigue completada")
}

// Dos devoluciones concurrentes observan la venta COMPLETED; la segunda
// pierde la escritura condicionada del estado y toda su transacción
// (reingreso de stock y reembolso) se revierte.
func TestReturnSale_DevolucionConcurrente_PierdeLaSegunda(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	// La otra devolución confirma justo antes de nuestra transacción
	f.tx.beforeSaleTx = func() {
		f.saleRepo.sales[sale.ID].State = entity.SaleReturned
	}

	_, err := f.uc.ReturnSale(context.Background(), testOrg, testUser, sale.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidState)
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	assert.True(t, decimal.NewFromInt(28).Equal(cafe.QuantityOnHand),
		"el reingreso del perdedor se revierte: no hay doble restock")
	assert.Empty(t, f.cashMovs.ofKind(entity.CashMovementRefund),
		"el perdedor no deja reembolso")
}

func TestCancelSale_SoloVentasPendientes(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	_, err := f.uc.CancelSale(context.Background(), testOrg, sale.ID)

	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"una venta completada se devuelve o se anula, no se cancela")
}

func TestVoidSale_AnulaSinTocarInventarioNiCaja(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)
	movsAntes := len(f.movs.movements)
	cashMovsAntes := len(f.cashMovs.movements)

	voided, err := f.uc.VoidSale(context.Background(), testOrg, sale.ID)

	require.NoError(t, err)
	assert.Equal(t, entity.SaleVoided, voided.State)
	assert.Len(t, f.movs.movements, movsAntes, "anular no genera movimientos de inventario")
	assert.Len(t, f.cashMovs.movements, cashMovsAntes, "anular no genera movimientos de caja")
	cafe, _ := f.stock.Get(prodCafe, testBranch)
	assert.True(t, decimal.NewFromInt(28).Equal(cafe.QuantityOnHand),
		"el stock queda como lo dejó la venta")
}

func TestFindSale_DeOtraOrganizacion_NotFound(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	_, err := f.uc.FindSale(context.Background(), "org-ajena", sale.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceipt_GeneraPDF(t *testing.T) {
	f := newSalesFixture(t)
	sale := completedSale(t, f)

	pdf, err := f.uc.Receipt(context.Background(), testOrg, sale.ID)

	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	assert.Equal(t, 1, f.receipts.calls)
}
