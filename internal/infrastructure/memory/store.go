// Package memory implementa los puertos de persistencia en memoria.
// Las transacciones toman una copia del estado y la restauran si la función falla.
// Lo usan las pruebas de casos de uso y de handlers.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

type state struct {
	tenants     map[string]entity.Tenant
	profiles    map[string]entity.Profile
	categories  map[string]entity.Category
	products    map[string]entity.Product // sin variantes
	variants    map[string]entity.ProductVariant
	prices      map[string]entity.VariantPrice
	customers   map[string]entity.Customer
	routes      map[string]entity.Route
	orders      map[string]entity.Order // sin ítems
	orderItems  map[string][]entity.OrderItem
	records     map[string]entity.InventoryRecord // sin ítems
	recordItems map[string][]entity.InventoryRecordItem
	business    map[string]entity.BusinessConfig
}

func newState() state {
	return state{
		tenants:     map[string]entity.Tenant{},
		profiles:    map[string]entity.Profile{},
		categories:  map[string]entity.Category{},
		products:    map[string]entity.Product{},
		variants:    map[string]entity.ProductVariant{},
		prices:      map[string]entity.VariantPrice{},
		customers:   map[string]entity.Customer{},
		routes:      map[string]entity.Route{},
		orders:      map[string]entity.Order{},
		orderItems:  map[string][]entity.OrderItem{},
		records:     map[string]entity.InventoryRecord{},
		recordItems: map[string][]entity.InventoryRecordItem{},
		business:    map[string]entity.BusinessConfig{},
	}
}

func cloneMap[T any](m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlices[T any](m map[string][]T) map[string][]T {
	out := make(map[string][]T, len(m))
	for k, v := range m {
		out[k] = append([]T(nil), v...)
	}
	return out
}

func (st state) clone() state {
	return state{
		tenants:     cloneMap(st.tenants),
		profiles:    cloneMap(st.profiles),
		categories:  cloneMap(st.categories),
		products:    cloneMap(st.products),
		variants:    cloneMap(st.variants),
		prices:      cloneMap(st.prices),
		customers:   cloneMap(st.customers),
		routes:      cloneMap(st.routes),
		orders:      cloneMap(st.orders),
		orderItems:  cloneSlices(st.orderItems),
		records:     cloneMap(st.records),
		recordItems: cloneSlices(st.recordItems),
		business:    cloneMap(st.business),
	}
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu          sync.RWMutex
	txMu        sync.Mutex
	st          state
	stockWrites int
	orderTxs    int
	inventoryTx int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) runTx(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	writes := s.stockWrites
	s.mu.RUnlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.stockWrites = writes
		s.mu.Unlock()
		return err
	}
	return nil
}

// RunOrder implementa order.TxRunner.
func (s *Store) RunOrder(ctx context.Context, fn func(repository.OrderRepository, repository.StockRepository) error) error {
	s.mu.Lock()
	s.orderTxs++
	s.mu.Unlock()
	return s.runTx(func() error { return fn(s.Orders(), s.Stock()) })
}

// RunInventory implementa inventory.TxRunner.
func (s *Store) RunInventory(ctx context.Context, fn func(repository.InventoryRecordRepository, repository.StockRepository) error) error {
	s.mu.Lock()
	s.inventoryTx++
	s.mu.Unlock()
	return s.runTx(func() error { return fn(s.Records(), s.Stock()) })
}

// RunCatalog implementa usecase.CatalogTxRunner.
func (s *Store) RunCatalog(ctx context.Context, fn func(repository.ProductRepository) error) error {
	return s.runTx(func() error { return fn(s.Products()) })
}

// RunRoutes implementa usecase.RouteTxRunner.
func (s *Store) RunRoutes(ctx context.Context, fn func(repository.RouteRepository) error) error {
	return s.runTx(func() error { return fn(s.Routes()) })
}

// ── Datos de prueba ──────────────────────────────────────────────────────────

// AddTenant registra un tenant activo.
func (s *Store) AddTenant(id, name, slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.tenants[id] = entity.Tenant{ID: id, Name: name, Slug: slug, Plan: entity.TenantPlanBasic, Status: entity.TenantStatusActive, Settings: map[string]any{}}
}

// AddProfile registra un perfil.
func (s *Store) AddProfile(p entity.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.profiles[p.ID] = p
}

// AddProduct registra un producto con una variante y su stock inicial.
func (s *Store) AddProduct(tenantID, productID, name, variantID, title string, stock int, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[productID] = entity.Product{ID: productID, TenantID: tenantID, Name: name}
	s.st.variants[variantID] = entity.ProductVariant{
		ID: variantID, TenantID: tenantID, ProductID: productID, Title: title, Code: variantID, Stock: stock,
	}
	s.st.prices[variantID+"-price"] = entity.VariantPrice{
		ID: variantID + "-price", TenantID: tenantID, VariantID: variantID, Name: "detal", Price: price,
	}
}

// AddCustomer registra un cliente.
func (s *Store) AddCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// StockOf stock actual de una variante.
func (s *Store) StockOf(variantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.variants[variantID].Stock
}

// StockWrites cantidad de escrituras de stock confirmadas.
func (s *Store) StockWrites() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stockWrites
}

// OrderTxCount cantidad de transacciones de orden iniciadas.
func (s *Store) OrderTxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orderTxs
}

// InventoryTxCount cantidad de transacciones de inventario iniciadas.
func (s *Store) InventoryTxCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventoryTx
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
