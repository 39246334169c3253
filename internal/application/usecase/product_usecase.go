package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

// CatalogTxRunner ejecuta la creación de un producto con variantes y precios en una transacción.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(products repository.ProductRepository) error) error
}

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía órdenes e inventario.
type ProductUseCase struct {
	txRunner     CatalogTxRunner
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner CatalogTxRunner, repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, categoryRepo: categoryRepo}
}

// Create crea el producto con sus variantes y precios. Stock y costo inicial vienen de cada variante.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.ensureCategory(ctx, tenantID, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.RunCatalog(ctx, func(products repository.ProductRepository) error {
		if err := products.Create(ctx, product); err != nil {
			return err
		}
		for _, vin := range in.Variants {
			v := &entity.ProductVariant{
				ID:        uuid.New().String(),
				TenantID:  tenantID,
				ProductID: product.ID,
				Code:      vin.Code,
				Title:     vin.Title,
				Stock:     vin.Stock,
				Cost:      vin.Cost,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := products.CreateVariant(ctx, v); err != nil {
				return err
			}
			for _, pin := range vin.Prices {
				name := pin.Name
				if name == "" {
					name = "detal"
				}
				if err := products.CreatePrice(ctx, &entity.VariantPrice{
					ID:        uuid.New().String(),
					TenantID:  tenantID,
					VariantID: v.ID,
					Name:      name,
					Price:     pin.Price,
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, tenantID, product.ID)
}

// GetByID obtiene un producto con categoría, variantes y precios.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("Producto no encontrado")
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, descripción y categoría. No toca variantes ni stock.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("Producto no encontrado")
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		if err := uc.ensureCategory(ctx, tenantID, in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = in.CategoryID
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, tenantID, id)
}

// List lista productos del tenant con búsqueda por nombre y filtro de categoría.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, q dto.ProductListQuery) (*dto.ListResponse[dto.ProductResponse], error) {
	page := dto.NewPageRequest(q.Page, q.RowsPerPage, dto.DefaultLimit)
	list, total, err := uc.repo.List(ctx, tenantID, repository.ProductFilter{
		Search:     q.Search,
		CategoryID: q.Category,
		Limit:      page.Limit,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return dto.NewListResponse(items, page, total), nil
}

// OrderList variantes con su primer precio para la pantalla de pedidos.
func (uc *ProductUseCase) OrderList(ctx context.Context, tenantID string) ([]dto.OrderListItemResponse, error) {
	list, err := uc.repo.OrderList(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderListItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, dto.OrderListItemResponse{
			VariantID:    it.VariantID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			VariantTitle: it.VariantTitle,
			Code:         it.Code,
			Stock:        it.Stock,
			Price:        it.Price,
		})
	}
	return out, nil
}

// Delete elimina un producto del tenant.
func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

func (uc *ProductUseCase) ensureCategory(ctx context.Context, tenantID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, tenantID, *categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("Categoría no encontrada")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Variants:    make([]dto.VariantResponse, 0, len(p.Variants)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != nil {
		out.Category = &dto.CategoryRef{ID: *p.CategoryID, Name: p.CategoryName}
	}
	for _, v := range p.Variants {
		prices := make([]dto.VariantPriceResponse, 0, len(v.Prices))
		for _, pr := range v.Prices {
			prices = append(prices, dto.VariantPriceResponse{ID: pr.ID, Name: pr.Name, Price: pr.Price})
		}
		out.Variants = append(out.Variants, dto.VariantResponse{
			ID:     v.ID,
			Code:   v.Code,
			Title:  v.Title,
			Stock:  v.Stock,
			Cost:   v.Cost,
			Prices: prices,
		})
	}
	return out
}
