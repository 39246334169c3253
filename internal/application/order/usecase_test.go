package order_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/order"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
	"github.com/jhoicas/controlpos-api/internal/infrastructure/memory"
)

const (
	tenantA  = "11111111-1111-1111-1111-111111111111"
	tenantB  = "22222222-2222-2222-2222-222222222222"
	userA    = "aaaaaaaa-0000-0000-0000-000000000001"
	sellerA  = "aaaaaaaa-0000-0000-0000-000000000002"
	variantX = "var-x"
	variantY = "var-y"
	variantB = "var-b"
	custA    = "cust-a"
	custA2   = "cust-a2"
	custB    = "cust-b"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.OrderEvent
	err    error
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, evt ports.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

// interleavedOrders ejecuta after una sola vez, justo después de la primera lectura de la orden,
// para simular otra petición que escribe entre la lectura y la escritura.
type interleavedOrders struct {
	repository.OrderRepository
	once  sync.Once
	after func()
}

func (r *interleavedOrders) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	o, err := r.OrderRepository.GetByID(ctx, tenantID, id)
	r.once.Do(r.after)
	return o, err
}

type OrderUseCaseSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	events *recordingPublisher
	uc     *order.UseCase
	admin  order.Actor
	seller order.Actor
}

func (s *OrderUseCaseSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.store.AddTenant(tenantA, "Tienda A", "tienda-a")
	s.store.AddTenant(tenantB, "Tienda B", "tienda-b")
	s.store.AddProduct(tenantA, "prod-x", "Café", variantX, "500g", 1000, decimal.NewFromInt(12))
	s.store.AddProduct(tenantA, "prod-y", "Azúcar", variantY, "1kg", 50, decimal.NewFromInt(5))
	s.store.AddProduct(tenantB, "prod-b", "Té", variantB, "caja", 100, decimal.NewFromInt(7))
	s.store.AddCustomer(entity.Customer{ID: custA, TenantID: tenantA, FirstName: "Ana"})
	s.store.AddCustomer(entity.Customer{ID: custA2, TenantID: tenantA, FirstName: "Luis"})
	s.store.AddCustomer(entity.Customer{ID: custB, TenantID: tenantB, FirstName: "Otra"})
	ta := tenantA
	s.store.AddProfile(entity.Profile{ID: userA, TenantID: &ta, Role: entity.RoleAdmin})
	s.store.AddProfile(entity.Profile{ID: sellerA, TenantID: &ta, Role: entity.RoleSeller})

	s.events = &recordingPublisher{}
	s.uc = order.NewUseCase(s.store, s.store.Orders(), s.store.Customers(), s.store.Profiles(), s.events, nil)
	s.admin = order.Actor{UserID: userA, TenantID: tenantA, Role: entity.RoleAdmin}
	s.seller = order.Actor{UserID: sellerA, TenantID: tenantA, Role: entity.RoleSeller}
}

func items(lines ...dto.OrderItemInput) []dto.OrderItemInput { return lines }

func line(variantID string, qty int, price int64) dto.OrderItemInput {
	return dto.OrderItemInput{VariantID: variantID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func (s *OrderUseCaseSuite) checkout(actor order.Actor, lines ...dto.OrderItemInput) *dto.OrderResponse {
	out, err := s.uc.Checkout(s.ctx, actor, dto.CheckoutRequest{Items: lines})
	s.Require().NoError(err)
	return out
}

func (s *OrderUseCaseSuite) update(id string, lines ...dto.OrderItemInput) (*dto.OrderResponse, error) {
	return s.uc.Update(s.ctx, s.admin, id, dto.UpdateOrderRequest{Items: lines, ItemsSet: true})
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida completo
// ──────────────────────────────────────────────────────────────────────────────

func (s *OrderUseCaseSuite) TestCicloDeVida_StockConsistente() {
	created := s.checkout(s.admin, line(variantX, 10, 12))
	s.Equal(990, s.store.StockOf(variantX))
	s.True(created.Total.Equal(decimal.NewFromInt(120)))
	s.Equal(entity.OrderStatusCompleted, created.Status)
	s.Require().NotNil(created.CreatedBy)
	s.Equal(userA, *created.CreatedBy)

	updated, err := s.update(created.ID, line(variantX, 15, 12))
	s.Require().NoError(err)
	s.Equal(985, s.store.StockOf(variantX))
	s.True(updated.Total.Equal(decimal.NewFromInt(180)))

	s.Require().NoError(s.uc.Delete(s.ctx, s.admin, created.ID))
	s.Equal(1000, s.store.StockOf(variantX))

	_, err = s.uc.Get(s.ctx, tenantA, created.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	s.Require().Len(s.events.events, 3)
	s.Equal(ports.OrderCreated, s.events.events[0].Type)
	s.Equal(ports.OrderUpdated, s.events.events[1].Type)
	s.True(s.events.events[1].StockMoved)
	s.Equal(ports.OrderDeleted, s.events.events[2].Type)
}

func (s *OrderUseCaseSuite) TestCheckout_DuplicadosSumanConsumo() {
	s.checkout(s.admin, line(variantX, 3, 12), line(variantX, 2, 12), line(variantY, 1, 5))
	s.Equal(995, s.store.StockOf(variantX))
	s.Equal(49, s.store.StockOf(variantY))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación
// ──────────────────────────────────────────────────────────────────────────────

func (s *OrderUseCaseSuite) TestUpdate_ItemsEquivalentes_SinLlamadaDeStock() {
	created := s.checkout(s.admin, line(variantX, 2, 12), line(variantY, 1, 5))
	txBefore := s.store.OrderTxCount()
	writesBefore := s.store.StockWrites()

	// mismo mapa variante → cantidad, distinto orden y partido en dos líneas
	_, err := s.update(created.ID, line(variantY, 1, 5), line(variantX, 1, 12), line(variantX, 1, 12))
	s.Require().NoError(err)

	s.Equal(txBefore, s.store.OrderTxCount(), "no debe abrirse transacción de stock")
	s.Equal(writesBefore, s.store.StockWrites())
	s.Equal(998, s.store.StockOf(variantX))
}

func (s *OrderUseCaseSuite) TestUpdate_SoloCliente_EscribeMetadatos() {
	created := s.checkout(s.admin, line(variantX, 2, 12))
	txBefore := s.store.OrderTxCount()

	cust := custA
	out, err := s.uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{
		Items: items(line(variantX, 2, 12)), ItemsSet: true,
		CustomerID: &cust, CustomerSet: true,
	})
	s.Require().NoError(err)
	s.Require().NotNil(out.CustomerID)
	s.Equal(custA, *out.CustomerID)
	s.Equal(txBefore, s.store.OrderTxCount())
	s.Equal(998, s.store.StockOf(variantX))
}

func (s *OrderUseCaseSuite) TestUpdate_SoloCambioDePrecio_NoTocaStockNiTotal() {
	created := s.checkout(s.admin, line(variantX, 2, 12))
	txBefore := s.store.OrderTxCount()

	out, err := s.update(created.ID, line(variantX, 2, 99))
	s.Require().NoError(err)
	s.Equal(txBefore, s.store.OrderTxCount())
	s.True(out.Total.Equal(decimal.NewFromInt(24)), "precio capturado en la venta se conserva")
}

func (s *OrderUseCaseSuite) TestUpdate_SinItems_EsSoloMetadatos() {
	created := s.checkout(s.admin, line(variantX, 2, 12))
	txBefore := s.store.OrderTxCount()

	status := "pending"
	out, err := s.uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{Status: &status})
	s.Require().NoError(err)
	s.Equal("pending", out.Status)
	s.Equal(txBefore, s.store.OrderTxCount())
}

func (s *OrderUseCaseSuite) TestUpdate_ItemsDistintosYCliente_UnaLlamadaYLuegoCliente() {
	created := s.checkout(s.admin, line(variantX, 10, 12))
	txBefore := s.store.OrderTxCount()

	cust := custA2
	out, err := s.uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{
		Items: items(line(variantX, 4, 12), line(variantY, 3, 5)), ItemsSet: true,
		CustomerID: &cust, CustomerSet: true,
	})
	s.Require().NoError(err)
	s.Equal(txBefore+1, s.store.OrderTxCount(), "exactamente una transacción de stock")
	s.Equal(996, s.store.StockOf(variantX))
	s.Equal(47, s.store.StockOf(variantY))
	s.Require().NotNil(out.CustomerID)
	s.Equal(custA2, *out.CustomerID)
	s.True(out.Total.Equal(decimal.NewFromInt(63)))
	s.Len(out.Items, 2)
}

func (s *OrderUseCaseSuite) TestUpdate_QuitarVariante_DevuelveStock() {
	created := s.checkout(s.admin, line(variantX, 5, 12), line(variantY, 5, 5))
	_, err := s.update(created.ID, line(variantX, 5, 12))
	s.Require().NoError(err)
	s.Equal(995, s.store.StockOf(variantX))
	s.Equal(50, s.store.StockOf(variantY))
}

func (s *OrderUseCaseSuite) TestUpdate_ListaVacia_Rechazada() {
	created := s.checkout(s.admin, line(variantX, 1, 12))
	_, err := s.uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{Items: []dto.OrderItemInput{}, ItemsSet: true})
	s.ErrorIs(err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras concurrentes sobre la misma orden
// ──────────────────────────────────────────────────────────────────────────────

// interleaved devuelve un caso de uso cuya primera lectura de la orden va seguida de during.
func (s *OrderUseCaseSuite) interleaved(during func()) *order.UseCase {
	orders := &interleavedOrders{OrderRepository: s.store.Orders(), after: during}
	return order.NewUseCase(s.store, orders, s.store.Customers(), s.store.Profiles(), s.events, nil)
}

func (s *OrderUseCaseSuite) TestUpdate_SoloCliente_NoPisaTotalDeCambioConcurrente() {
	created := s.checkout(s.admin, line(variantX, 10, 12))

	uc := s.interleaved(func() {
		_, err := s.update(created.ID, line(variantX, 15, 12))
		s.Require().NoError(err)
	})
	cust := custA
	out, err := uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{CustomerID: &cust, CustomerSet: true})
	s.Require().NoError(err)

	s.Equal(985, s.store.StockOf(variantX))
	s.Require().NotNil(out.CustomerID)
	s.Equal(custA, *out.CustomerID)
	s.Require().Len(out.Items, 1)
	s.Equal(15, out.Items[0].Quantity)
	s.True(out.Total.Equal(decimal.NewFromInt(180)), "total=%s", out.Total)

	last := s.events.events[len(s.events.events)-1]
	s.Equal("180", last.Total)
}

func (s *OrderUseCaseSuite) TestUpdate_MetadatosNoPisanTotalTrasCambioDeItems() {
	created := s.checkout(s.admin, line(variantX, 10, 12))

	uc := s.interleaved(func() {
		_, err := s.update(created.ID, line(variantX, 15, 12))
		s.Require().NoError(err)
	})
	status, notes := "pending", "entregar mañana"
	out, err := uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{Status: &status, Notes: &notes})
	s.Require().NoError(err)

	s.Equal("pending", out.Status)
	s.Equal("entregar mañana", out.Notes)
	s.True(out.Total.Equal(decimal.NewFromInt(180)), "total=%s", out.Total)
}

func (s *OrderUseCaseSuite) TestUpdate_ItemsCambiadosPorOtraPeticion_Conflicto() {
	created := s.checkout(s.admin, line(variantX, 10, 12))

	var txAfter, writesAfter int
	uc := s.interleaved(func() {
		_, err := s.update(created.ID, line(variantX, 15, 12))
		s.Require().NoError(err)
		txAfter, writesAfter = s.store.OrderTxCount(), s.store.StockWrites()
	})
	_, err := uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{
		Items: items(line(variantX, 12, 12), line(variantY, 2, 5)), ItemsSet: true,
	})
	s.Require().ErrorIs(err, domain.ErrConflict)

	s.Equal(txAfter+1, s.store.OrderTxCount(), "la transacción se abrió y se revirtió")
	s.Equal(writesAfter, s.store.StockWrites())
	s.Equal(985, s.store.StockOf(variantX))
	s.Equal(50, s.store.StockOf(variantY))

	got, err := s.uc.Get(s.ctx, tenantA, created.ID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Equal(variantX, got.Items[0].VariantID)
	s.Equal(15, got.Items[0].Quantity)
	s.True(got.Total.Equal(decimal.NewFromInt(180)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock insuficiente: nada se confirma
// ──────────────────────────────────────────────────────────────────────────────

func (s *OrderUseCaseSuite) TestCheckout_StockInsuficiente_NoPersisteNada() {
	_, err := s.uc.Checkout(s.ctx, s.admin, dto.CheckoutRequest{Items: items(line(variantX, 5, 12), line(variantY, 51, 5))})
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)

	var derr *domain.Error
	s.Require().True(errors.As(err, &derr))
	s.Equal("Stock insuficiente", derr.Message)
	shortages, ok := derr.Details.([]domain.StockShortage)
	s.Require().True(ok)
	s.Equal([]domain.StockShortage{{VariantID: variantY, Available: 50, Requested: 51}}, shortages)

	s.Equal(1000, s.store.StockOf(variantX))
	s.Equal(50, s.store.StockOf(variantY))
	list, err := s.uc.List(s.ctx, tenantA, dto.OrderListQuery{})
	s.Require().NoError(err)
	s.Empty(list.Items)
	s.Empty(s.events.events)
}

func (s *OrderUseCaseSuite) TestUpdate_StockInsuficiente_RevierteTodo() {
	created := s.checkout(s.admin, line(variantX, 10, 12), line(variantY, 10, 5))

	_, err := s.update(created.ID, line(variantX, 2, 12), line(variantY, 100, 5))
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)

	s.Equal(990, s.store.StockOf(variantX), "la devolución de X también se revierte")
	s.Equal(40, s.store.StockOf(variantY))
	got, err := s.uc.Get(s.ctx, tenantA, created.ID)
	s.Require().NoError(err)
	s.Len(got.Items, 2)
	s.True(got.Total.Equal(decimal.NewFromInt(170)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aislamiento entre tenants
// ──────────────────────────────────────────────────────────────────────────────

func (s *OrderUseCaseSuite) TestTenant_NoVeNiModificaOrdenesAjenas() {
	created := s.checkout(s.admin, line(variantX, 1, 12))
	other := order.Actor{UserID: "user-b", TenantID: tenantB, Role: entity.RoleAdmin}

	_, err := s.uc.Get(s.ctx, tenantB, created.ID)
	s.ErrorIs(err, domain.ErrNotFound)

	_, err = s.uc.Update(s.ctx, other, created.ID, dto.UpdateOrderRequest{Items: items(line(variantX, 5, 12)), ItemsSet: true})
	s.ErrorIs(err, domain.ErrNotFound)

	s.ErrorIs(s.uc.Delete(s.ctx, other, created.ID), domain.ErrNotFound)
	s.Equal(999, s.store.StockOf(variantX))
}

func (s *OrderUseCaseSuite) TestTenant_NoUsaVariantesNiClientesAjenos() {
	_, err := s.uc.Checkout(s.ctx, s.admin, dto.CheckoutRequest{Items: items(line(variantB, 1, 7))})
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(100, s.store.StockOf(variantB))

	cust := custB
	_, err = s.uc.Checkout(s.ctx, s.admin, dto.CheckoutRequest{CustomerID: &cust, Items: items(line(variantX, 1, 12))})
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(1000, s.store.StockOf(variantX))
}

func (s *OrderUseCaseSuite) TestCheckout_IgnoraTenantDelCuerpo() {
	var req dto.CheckoutRequest
	body := `{"tenant_id":"` + tenantB + `","created_by":"intruso","items":[{"variantId":"` + variantX + `","quantity":1,"price":12}]}`
	s.Require().NoError(json.Unmarshal([]byte(body), &req))

	out, err := s.uc.Checkout(s.ctx, s.seller, req)
	s.Require().NoError(err)
	s.Equal(tenantA, out.TenantID)
	s.Require().NotNil(out.CreatedBy)
	s.Equal(sellerA, *out.CreatedBy)
}

// ──────────────────────────────────────────────────────────────────────────────
// Vendedor
// ──────────────────────────────────────────────────────────────────────────────

func (s *OrderUseCaseSuite) TestUpdate_CambioDeVendedor_RequiereAdmin() {
	created := s.checkout(s.seller, line(variantX, 1, 12))
	target := userA

	_, err := s.uc.Update(s.ctx, s.seller, created.ID, dto.UpdateOrderRequest{SalespersonID: &target, SalespersonSet: true})
	s.ErrorIs(err, domain.ErrForbidden)

	out, err := s.uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{SalespersonID: &target, SalespersonSet: true})
	s.Require().NoError(err)
	s.Equal(userA, *out.CreatedBy)

	ghost := "no-existe"
	_, err = s.uc.Update(s.ctx, s.admin, created.ID, dto.UpdateOrderRequest{SalespersonID: &ghost, SalespersonSet: true})
	s.ErrorIs(err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos
// ──────────────────────────────────────────────────────────────────────────────

func (s *OrderUseCaseSuite) TestEventos_FalloDePublicacionNoFallaLaOrden() {
	s.events.err = errors.New("broker caído")
	out := s.checkout(s.admin, line(variantX, 1, 12))
	s.NotEmpty(out.ID)
	s.Equal(999, s.store.StockOf(variantX))
}

func TestOrderUseCaseSuite(t *testing.T) {
	suite.Run(t, new(OrderUseCaseSuite))
}
