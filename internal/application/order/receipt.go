package order

import (
	"context"
	"strings"

	"github.com/jhoicas/controlpos-api/internal/application/ports"
	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

// ReceiptUseCase genera el recibo PDF de una orden con los datos del negocio.
type ReceiptUseCase struct {
	orderRepo    repository.OrderRepository
	businessRepo repository.BusinessConfigRepository
	generator    ports.ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	orderRepo repository.OrderRepository,
	businessRepo repository.BusinessConfigRepository,
	generator ports.ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{orderRepo: orderRepo, businessRepo: businessRepo, generator: generator}
}

// Generate devuelve el PDF del recibo. Sin configuración de negocio se usan valores genéricos.
func (uc *ReceiptUseCase) Generate(ctx context.Context, tenantID, orderID string) ([]byte, error) {
	o, err := uc.orderRepo.GetByID(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("Orden no encontrada")
	}
	cfg, err := uc.businessRepo.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	data := ports.ReceiptData{
		BusinessName: "ControlPOS",
		Currency:     "COP",
		OrderID:      o.ID,
		Date:         o.Date,
		Status:       o.Status,
		Total:        o.Total,
	}
	if cfg != nil {
		data.BusinessName = cfg.BusinessName
		data.TaxID = cfg.TaxID
		data.Address = cfg.Address
		data.Phone = cfg.Phone
		data.Footer = cfg.ReceiptFooter
		if cfg.Currency != "" {
			data.Currency = cfg.Currency
		}
	}
	if o.Customer != nil {
		data.CustomerName = o.Customer.FullName()
	}
	for _, it := range o.Items {
		desc := strings.TrimSpace(it.Name + " " + it.VariantTitle)
		if desc == "" {
			desc = it.ProductName
		}
		data.Lines = append(data.Lines, ports.ReceiptLine{
			Description: desc,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			Subtotal:    it.Subtotal(),
		})
	}
	return uc.generator.GenerateReceipt(ctx, data)
}
