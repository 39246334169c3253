package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/application/inventory"
	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
	"github.com/jhoicas/controlpos-api/internal/domain/stock"
	"github.com/jhoicas/controlpos-api/pkg/logger"
)

// UseCase orquesta el ciclo de vida de una orden y su consistencia con el stock.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	profileRepo  repository.ProfileRepository
	events       ports.EventPublisher
	log          *logger.Logger
}

// NewUseCase construye el caso de uso. events puede ser nil.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	profileRepo repository.ProfileRepository,
	events ports.EventPublisher,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		profileRepo:  profileRepo,
		events:       events,
		log:          log,
	}
}

// Checkout crea la orden con sus ítems y descuenta el stock en una sola transacción.
func (uc *UseCase) Checkout(ctx context.Context, actor Actor, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.CustomerID != nil {
		if err := uc.ensureCustomer(ctx, actor.TenantID, *in.CustomerID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	o := &entity.Order{
		ID:         uuid.New().String(),
		TenantID:   actor.TenantID,
		CustomerID: in.CustomerID,
		Status:     entity.OrderStatusCompleted,
		Notes:      in.Notes,
		Date:       now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if actor.UserID != "" {
		o.CreatedBy = &actor.UserID
	}
	if in.Status != "" {
		o.Status = in.Status
	}
	if in.Date != nil {
		o.Date = *in.Date
	}
	o.Items = buildItems(actor.TenantID, o.ID, in.Items)
	o.Total = entity.OrderTotal(o.Items)

	err := uc.txRunner.RunOrder(ctx, func(orders repository.OrderRepository, stockRepo repository.StockRepository) error {
		if err := orders.Create(ctx, o); err != nil {
			return err
		}
		if err := orders.CreateItems(ctx, o.Items); err != nil {
			return err
		}
		consumption := stock.QuantityMap(stock.OrderLines(o.Items))
		_, err := inventory.Apply(ctx, stockRepo, actor.TenantID, stock.Negate(consumption))
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, ports.OrderEvent{
		Type: ports.OrderCreated, OrderID: o.ID, TenantID: o.TenantID, ActorID: actor.UserID,
		Total: o.Total.String(), StockMoved: true,
	})
	return uc.Get(ctx, actor.TenantID, o.ID)
}

// metadataChange campos de cabecera que difieren de los guardados.
type metadataChange struct {
	customer    bool
	customerID  *string
	salesperson bool
	createdBy   *string
	status      *string
	notes       *string
}

func (m metadataChange) any() bool {
	return m.customer || m.salesperson || m.status != nil || m.notes != nil
}

// applyHeader aplica sobre o los cambios de cabecera, excepto el cliente.
func (m metadataChange) applyHeader(o *entity.Order) {
	if m.salesperson {
		o.CreatedBy = m.createdBy
	}
	if m.status != nil {
		o.Status = *m.status
	}
	if m.notes != nil {
		o.Notes = *m.notes
	}
}

// metadata arma la escritura por columnas, sin total.
func (m metadataChange) metadata() repository.OrderMetadata {
	return repository.OrderMetadata{
		CustomerSet:  m.customer,
		CustomerID:   m.customerID,
		CreatedBySet: m.salesperson,
		CreatedBy:    m.createdBy,
		Status:       m.status,
		Notes:        m.notes,
		UpdatedAt:    time.Now().UTC(),
	}
}

// Update reconcilia la orden con el conjunto de ítems propuesto.
//
// Si el mapa variante → Σcantidad propuesto equivale al guardado (o no se enviaron ítems),
// solo se escriben los metadatos que cambiaron y el stock no se toca. Si difiere, se hace
// exactamente una llamada transaccional que aplica el consumo neto (nuevo − anterior) y
// reemplaza los ítems; después, un cambio de cliente se escribe por separado.
func (uc *UseCase) Update(ctx context.Context, actor Actor, orderID string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.ItemsSet && len(in.Items) == 0 {
		return nil, domain.Invalid("La orden debe tener al menos un ítem")
	}

	current, err := uc.orderRepo.GetByID(ctx, actor.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.NotFound("Orden no encontrada")
	}

	change, err := uc.resolveMetadata(ctx, actor, current, in)
	if err != nil {
		return nil, err
	}

	proposed := buildItems(actor.TenantID, orderID, in.Items)
	if !in.ItemsSet || stock.Equivalent(stock.OrderLines(proposed), stock.OrderLines(current.Items)) {
		if change.any() {
			if err := uc.orderRepo.UpdateMetadata(ctx, actor.TenantID, orderID, change.metadata()); err != nil {
				return nil, err
			}
		}
		out, err := uc.Get(ctx, actor.TenantID, orderID)
		if err != nil {
			return nil, err
		}
		uc.publish(ctx, ports.OrderEvent{
			Type: ports.OrderUpdated, OrderID: orderID, TenantID: actor.TenantID, ActorID: actor.UserID,
			Total: out.Total.String(),
		})
		return out, nil
	}

	if err := uc.replaceItems(ctx, actor.TenantID, orderID, proposed, current.Items, change); err != nil {
		return nil, err
	}

	if change.customer {
		md := repository.OrderMetadata{CustomerSet: true, CustomerID: change.customerID, UpdatedAt: time.Now().UTC()}
		if err := uc.orderRepo.UpdateMetadata(ctx, actor.TenantID, orderID, md); err != nil {
			return nil, err
		}
	}

	out, err := uc.Get(ctx, actor.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	uc.publish(ctx, ports.OrderEvent{
		Type: ports.OrderUpdated, OrderID: orderID, TenantID: actor.TenantID, ActorID: actor.UserID,
		Total: out.Total.String(), StockMoved: true,
	})
	return out, nil
}

// replaceItems es la transacción que ajusta stock: bloquea la orden, verifica que los ítems
// guardados sigan siendo previous, aplica el consumo neto y reemplaza ítems y total.
func (uc *UseCase) replaceItems(
	ctx context.Context,
	tenantID, orderID string,
	proposed, previous []entity.OrderItem,
	change metadataChange,
) error {
	return uc.txRunner.RunOrder(ctx, func(orders repository.OrderRepository, stockRepo repository.StockRepository) error {
		locked, err := orders.GetForUpdate(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("Orden no encontrada")
		}
		stored, err := orders.ListItems(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if !stock.Equivalent(stock.OrderLines(stored), stock.OrderLines(previous)) {
			return domain.NewError(domain.ErrConflict, "La orden fue modificada por otra operación, recárguela e intente de nuevo")
		}

		delta := stock.NetDelta(stock.OrderLines(proposed), stock.OrderLines(previous))
		if _, err := inventory.Apply(ctx, stockRepo, tenantID, stock.Negate(delta)); err != nil {
			return err
		}
		if err := orders.DeleteItems(ctx, tenantID, orderID); err != nil {
			return err
		}
		if err := orders.CreateItems(ctx, proposed); err != nil {
			return err
		}
		change.applyHeader(locked)
		locked.Total = entity.OrderTotal(proposed)
		locked.UpdatedAt = time.Now().UTC()
		return orders.Update(ctx, locked)
	})
}

// resolveMetadata compara los metadatos pedidos con los guardados y valida las referencias.
func (uc *UseCase) resolveMetadata(ctx context.Context, actor Actor, current *entity.Order, in dto.UpdateOrderRequest) (metadataChange, error) {
	var m metadataChange
	if in.CustomerSet && !sameRef(in.CustomerID, current.CustomerID) {
		if in.CustomerID != nil {
			if err := uc.ensureCustomer(ctx, actor.TenantID, *in.CustomerID); err != nil {
				return m, err
			}
		}
		m.customer, m.customerID = true, in.CustomerID
	}
	if in.SalespersonSet && !sameRef(in.SalespersonID, current.CreatedBy) {
		if actor.Role != entity.RoleAdmin && actor.Role != entity.RoleSuperAdmin {
			return m, domain.NewError(domain.ErrForbidden, "Solo un administrador puede reasignar el vendedor")
		}
		if in.SalespersonID != nil {
			p, err := uc.profileRepo.GetByID(ctx, *in.SalespersonID)
			if err != nil {
				return m, err
			}
			if p == nil || p.TenantID == nil || *p.TenantID != actor.TenantID {
				return m, domain.NotFound("Vendedor no encontrado")
			}
		}
		m.salesperson, m.createdBy = true, in.SalespersonID
	}
	if in.Status != nil && *in.Status != "" && *in.Status != current.Status {
		m.status = in.Status
	}
	if in.Notes != nil && *in.Notes != current.Notes {
		m.notes = in.Notes
	}
	return m, nil
}

// Delete elimina la orden y devuelve al stock todas sus cantidades.
func (uc *UseCase) Delete(ctx context.Context, actor Actor, orderID string) error {
	err := uc.txRunner.RunOrder(ctx, func(orders repository.OrderRepository, stockRepo repository.StockRepository) error {
		locked, err := orders.GetForUpdate(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.NotFound("Orden no encontrada")
		}
		items, err := orders.ListItems(ctx, actor.TenantID, orderID)
		if err != nil {
			return err
		}
		if _, err := inventory.Apply(ctx, stockRepo, actor.TenantID, stock.QuantityMap(stock.OrderLines(items))); err != nil {
			return err
		}
		if err := orders.DeleteItems(ctx, actor.TenantID, orderID); err != nil {
			return err
		}
		return orders.Delete(ctx, actor.TenantID, orderID)
	})
	if err != nil {
		return err
	}
	uc.publish(ctx, ports.OrderEvent{
		Type: ports.OrderDeleted, OrderID: orderID, TenantID: actor.TenantID, ActorID: actor.UserID,
		StockMoved: true,
	})
	return nil
}

// Get obtiene una orden con cliente e ítems.
func (uc *UseCase) Get(ctx context.Context, tenantID, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("Orden no encontrada")
	}
	return toOrderResponse(o, true), nil
}

// List lista órdenes del tenant por fecha descendente.
func (uc *UseCase) List(ctx context.Context, tenantID string, q dto.OrderListQuery) (*dto.ListResponse[dto.OrderResponse], error) {
	page := dto.NewPageRequest(q.Page, q.Limit, dto.DefaultLimit)
	from, to := dto.DayRange(q.StartDate, q.EndDate)
	list, total, err := uc.orderRepo.List(ctx, tenantID, repository.OrderFilter{
		Status: q.Status,
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, false))
	}
	return dto.NewListResponse(out, page, total), nil
}

func (uc *UseCase) ensureCustomer(ctx context.Context, tenantID, customerID string) error {
	c, err := uc.customerRepo.GetByID(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("Cliente no encontrado")
	}
	return nil
}

// publish notifica después del commit; un fallo solo se registra.
func (uc *UseCase) publish(ctx context.Context, evt ports.OrderEvent) {
	if uc.events == nil {
		return
	}
	evt.OccurredAt = time.Now().UTC()
	if err := uc.events.PublishOrderEvent(ctx, evt); err != nil {
		uc.log.WithTenant(evt.TenantID).Warn().Err(err).
			Str("event", evt.Type).
			Str("order_id", evt.OrderID).
			Msg("no se pudo publicar evento de orden")
	}
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func buildItems(tenantID, orderID string, in []dto.OrderItemInput) []entity.OrderItem {
	items := make([]entity.OrderItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.OrderItem{
			ID:           uuid.New().String(),
			OrderID:      orderID,
			TenantID:     tenantID,
			VariantID:    it.VariantID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			Name:         it.Name,
			VariantTitle: it.VariantTitle,
		})
	}
	return items
}

func toOrderResponse(o *entity.Order, withItems bool) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:         o.ID,
		TenantID:   o.TenantID,
		CustomerID: o.CustomerID,
		CreatedBy:  o.CreatedBy,
		Total:      o.Total,
		Status:     o.Status,
		Notes:      o.Notes,
		Date:       o.Date,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		ItemsCount: o.ItemsCount,
	}
	if o.Customer != nil {
		out.Customer = &dto.CustomerRef{
			ID:        o.Customer.ID,
			FirstName: o.Customer.FirstName,
			LastName:  o.Customer.LastName,
			Email:     o.Customer.Email,
			Phone:     o.Customer.Phone,
		}
	}
	if !withItems {
		return out
	}
	out.Items = make([]dto.OrderItemResponse, 0, len(o.Items))
	count := 0
	for _, it := range o.Items {
		count += it.Quantity
		out.Items = append(out.Items, dto.OrderItemResponse{
			ID:           it.ID,
			VariantID:    it.VariantID,
			Quantity:     it.Quantity,
			Price:        it.Price,
			Subtotal:     it.Subtotal(),
			Name:         it.Name,
			VariantTitle: it.VariantTitle,
			Variant: &dto.VariantRef{
				ID:          it.VariantID,
				Code:        it.VariantCode,
				Title:       it.VariantTitle,
				Stock:       it.VariantStock,
				ProductName: it.ProductName,
			},
		})
	}
	out.ItemsCount = count
	return out
}
