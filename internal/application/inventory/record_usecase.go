package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
	"github.com/jhoicas/controlpos-api/internal/domain/stock"
)

// Orden permitido en el historial de movimientos.
var movementSorts = map[string]bool{"date": true, "type": true, "quantity": true}

// RecordUseCase registros de inventario (entradas y salidas) con efecto transaccional sobre el stock.
type RecordUseCase struct {
	txRunner    TxRunner
	recordRepo  repository.InventoryRecordRepository
	productRepo repository.ProductRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(
	txRunner TxRunner,
	recordRepo repository.InventoryRecordRepository,
	productRepo repository.ProductRepository,
) *RecordUseCase {
	return &RecordUseCase{txRunner: txRunner, recordRepo: recordRepo, productRepo: productRepo}
}

// Create registra una entrada o salida y aplica su efecto sobre el stock en la misma transacción.
// Una salida mayor al stock disponible se rechaza sin modificar nada.
func (uc *RecordUseCase) Create(ctx context.Context, tenantID, userID string, in dto.InventoryRecordRequest) (*dto.InventoryRecordResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	record := &entity.InventoryRecord{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Type:        in.Type,
		Description: in.Description,
		Date:        now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d := in.Date.Ptr(); d != nil {
		record.Date = *d
	}
	if userID != "" {
		record.CreatedBy = &userID
	}
	record.Items = buildRecordItems(tenantID, record.ID, in.Items)

	err := uc.txRunner.RunInventory(ctx, func(records repository.InventoryRecordRepository, stockRepo repository.StockRepository) error {
		if err := records.Create(ctx, record); err != nil {
			return err
		}
		if err := records.CreateItems(ctx, record.Items); err != nil {
			return err
		}
		effect := stock.RecordEffect(record.Type, stock.RecordLines(record.Items))
		locked, err := Apply(ctx, stockRepo, tenantID, effect)
		if err != nil {
			return err
		}
		if record.Type == entity.RecordTypeEntry {
			return updateCosts(ctx, stockRepo, tenantID, locked, effect, record.Items)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, tenantID, record.ID)
}

// updateCosts recalcula el costo promedio ponderado de las variantes con costo informado en la entrada.
func updateCosts(
	ctx context.Context,
	stockRepo repository.StockRepository,
	tenantID string,
	locked map[string]*entity.VariantStock,
	effect map[string]int,
	items []entity.InventoryRecordItem,
) error {
	type running struct {
		stock   int
		cost    decimal.Decimal
		changed bool
	}
	state := make(map[string]*running, len(locked))
	for id, row := range locked {
		state[id] = &running{stock: row.Stock - effect[id], cost: row.Cost}
	}
	for _, it := range items {
		st := state[it.VariantID]
		if it.Cost != nil {
			st.cost = stock.WeightedCost(st.stock, st.cost, it.Quantity, *it.Cost)
			st.changed = true
		}
		st.stock += it.Quantity
	}
	for _, id := range stock.SortedIDs(effect) {
		if st := state[id]; st != nil && st.changed {
			if err := stockRepo.SetCost(ctx, tenantID, id, st.cost); err != nil {
				return err
			}
		}
	}
	return nil
}

// Update reemplaza tipo, descripción, fecha e ítems; aplica solo el efecto neto (nuevo − anterior).
func (uc *RecordUseCase) Update(ctx context.Context, tenantID, id string, in dto.InventoryRecordRequest) (*dto.InventoryRecordResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	err := uc.txRunner.RunInventory(ctx, func(records repository.InventoryRecordRepository, stockRepo repository.StockRepository) error {
		record, err := records.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.NotFound("Registro de inventario no encontrado")
		}
		oldItems, err := records.ListItems(ctx, tenantID, id)
		if err != nil {
			return err
		}
		newItems := buildRecordItems(tenantID, id, in.Items)

		oldEffect := stock.RecordEffect(record.Type, stock.RecordLines(oldItems))
		newEffect := stock.RecordEffect(in.Type, stock.RecordLines(newItems))
		if _, err := Apply(ctx, stockRepo, tenantID, stock.Diff(newEffect, oldEffect)); err != nil {
			return err
		}

		if err := records.DeleteItems(ctx, tenantID, id); err != nil {
			return err
		}
		if err := records.CreateItems(ctx, newItems); err != nil {
			return err
		}
		record.Type = in.Type
		record.Description = in.Description
		if d := in.Date.Ptr(); d != nil {
			record.Date = *d
		}
		record.UpdatedAt = time.Now().UTC()
		return records.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, tenantID, id)
}

// Delete revierte el efecto del registro sobre el stock y lo elimina.
// Se rechaza si revertir dejaría alguna variante en negativo.
func (uc *RecordUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.txRunner.RunInventory(ctx, func(records repository.InventoryRecordRepository, stockRepo repository.StockRepository) error {
		record, err := records.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if record == nil {
			return domain.NotFound("Registro de inventario no encontrado")
		}
		items, err := records.ListItems(ctx, tenantID, id)
		if err != nil {
			return err
		}
		effect := stock.RecordEffect(record.Type, stock.RecordLines(items))
		if _, err := Apply(ctx, stockRepo, tenantID, stock.Negate(effect)); err != nil {
			return err
		}
		if err := records.DeleteItems(ctx, tenantID, id); err != nil {
			return err
		}
		return records.Delete(ctx, tenantID, id)
	})
}

// Get obtiene un registro con sus ítems.
func (uc *RecordUseCase) Get(ctx context.Context, tenantID, id string) (*dto.InventoryRecordResponse, error) {
	record, err := uc.recordRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.NotFound("Registro de inventario no encontrado")
	}
	return toRecordResponse(record), nil
}

// List lista registros del tenant, opcionalmente filtrados por tipo.
func (uc *RecordUseCase) List(ctx context.Context, tenantID, recordType string, page dto.PageRequest) (*dto.ListResponse[dto.InventoryRecordResponse], error) {
	if recordType != "" && recordType != entity.RecordTypeEntry && recordType != entity.RecordTypeExit {
		return nil, domain.Invalid("Tipo inválido: use entrada o salida")
	}
	list, total, err := uc.recordRepo.List(ctx, tenantID, repository.RecordFilter{
		Type:   recordType,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecordResponse(r))
	}
	return dto.NewListResponse(out, page, total), nil
}

// ProductMovements historial de ítems de registros que tocan variantes del producto.
func (uc *RecordUseCase) ProductMovements(ctx context.Context, tenantID, productID string, q dto.MovementQuery) (*dto.ListResponse[dto.ProductMovementResponse], error) {
	product, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("Producto no encontrado")
	}
	page := dto.NewPageRequest(q.Page, q.RowsPerPage, 10)
	sortBy := q.SortBy
	if !movementSorts[sortBy] {
		sortBy = "date"
	}
	from, to := dto.DayRange(q.StartDate, q.EndDate)
	list, total, err := uc.recordRepo.ProductMovements(ctx, tenantID, productID, repository.MovementFilter{
		From:       from,
		To:         to,
		SortBy:     sortBy,
		Descending: q.Descending,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ProductMovementResponse{
			RecordID:     m.RecordID,
			Date:         m.Date,
			Type:         m.Type,
			Quantity:     m.Quantity,
			VariantTitle: m.VariantTitle,
			Description:  m.Description,
		})
	}
	return dto.NewListResponse(out, page, total), nil
}

func buildRecordItems(tenantID, recordID string, in []dto.InventoryItemInput) []entity.InventoryRecordItem {
	items := make([]entity.InventoryRecordItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.InventoryRecordItem{
			ID:        uuid.New().String(),
			RecordID:  recordID,
			TenantID:  tenantID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			Cost:      it.Cost,
		})
	}
	return items
}

func toRecordResponse(r *entity.InventoryRecord) *dto.InventoryRecordResponse {
	items := make([]dto.InventoryRecordItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.InventoryRecordItemResponse{
			ID:           it.ID,
			VariantID:    it.VariantID,
			Quantity:     it.Quantity,
			Cost:         it.Cost,
			VariantTitle: it.VariantTitle,
			ProductName:  it.ProductName,
		})
	}
	return &dto.InventoryRecordResponse{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Type:        r.Type,
		Description: r.Description,
		Date:        r.Date,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Items:       items,
	}
}
