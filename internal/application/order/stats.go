package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/controlpos-api/internal/application/dto"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
)

const statsTopVariants = 5 // variantes en el resumen

// StatsUseCase resumen de ventas del día, del mes en curso y total.
type StatsUseCase struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

// NewStatsUseCase construye el caso de uso.
func NewStatsUseCase(orderRepo repository.OrderRepository) *StatsUseCase {
	return &StatsUseCase{orderRepo: orderRepo, now: time.Now}
}

// Summary construye el OrderStatsDTO del tenant.
//
// Cuatro consultas en paralelo:
//  1. SalesSummary(hoy)
//  2. SalesSummary(mes)
//  3. SalesSummary(sin rango)
//  4. TopVariants(mes, top 5)
func (uc *StatsUseCase) Summary(ctx context.Context, tenantID string) (*dto.OrderStatsDTO, error) {
	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type summaryResult struct {
		s   entity.SalesSummary
		err error
	}
	type topResult struct {
		top []entity.TopVariant
		err error
	}

	todayCh := make(chan summaryResult, 1)
	monthCh := make(chan summaryResult, 1)
	allCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		s, err := uc.orderRepo.SalesSummary(ctx, tenantID, &todayStart, &tomorrow)
		todayCh <- summaryResult{s, err}
	}()
	go func() {
		s, err := uc.orderRepo.SalesSummary(ctx, tenantID, &monthStart, &tomorrow)
		monthCh <- summaryResult{s, err}
	}()
	go func() {
		s, err := uc.orderRepo.SalesSummary(ctx, tenantID, nil, nil)
		allCh <- summaryResult{s, err}
	}()
	go func() {
		top, err := uc.orderRepo.TopVariants(ctx, tenantID, monthStart, tomorrow, statsTopVariants)
		topCh <- topResult{top, err}
	}()

	today, month, all, top := <-todayCh, <-monthCh, <-allCh, <-topCh
	if today.err != nil {
		return nil, fmt.Errorf("stats: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("stats: ventas del mes: %w", month.err)
	}
	if all.err != nil {
		return nil, fmt.Errorf("stats: ventas totales: %w", all.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("stats: top variantes: %w", top.err)
	}

	topOut := make([]dto.TopVariantDTO, 0, len(top.top))
	for _, v := range top.top {
		topOut = append(topOut, dto.TopVariantDTO{
			VariantID:    v.VariantID,
			ProductName:  v.ProductName,
			VariantTitle: v.VariantTitle,
			Quantity:     v.Quantity,
			Revenue:      v.Revenue.Round(2),
		})
	}
	return &dto.OrderStatsDTO{
		Today:       period(today.s),
		Month:       period(month.s),
		AllTime:     period(all.s),
		TopVariants: topOut,
		DateLabel:   monthLabel(now),
	}, nil
}

func period(s entity.SalesSummary) dto.SalesPeriodDTO {
	avg := decimal.Zero
	if s.Orders > 0 {
		avg = s.Revenue.Div(decimal.NewFromInt(int64(s.Orders)))
	}
	return dto.SalesPeriodDTO{
		Orders:        s.Orders,
		Revenue:       s.Revenue.Round(2),
		AverageTicket: avg.Round(2),
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
