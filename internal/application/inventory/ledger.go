package inventory

import (
	"context"

	"github.com/jhoicas/controlpos-api/internal/domain"
	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/repository"
	"github.com/jhoicas/controlpos-api/internal/domain/stock"
)

// Apply aplica variaciones de stock (positivo suma, negativo resta) dentro de la transacción en curso.
// Bloquea las filas en orden de id de variante (SELECT FOR UPDATE) y verifica todas antes de escribir:
// si alguna quedaría negativa no se escribe nada y se devuelve domain.InsufficientStock.
// Devuelve las filas bloqueadas con el stock resultante.
func Apply(
	ctx context.Context,
	stockRepo repository.StockRepository,
	tenantID string,
	delta map[string]int,
) (map[string]*entity.VariantStock, error) {
	ids := stock.SortedIDs(delta)
	locked := make(map[string]*entity.VariantStock, len(ids))
	var shortages []domain.StockShortage

	for _, id := range ids {
		row, err := stockRepo.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, domain.NotFound("Variante no encontrada: " + id)
		}
		locked[id] = row
		if row.Stock+delta[id] < 0 {
			shortages = append(shortages, domain.StockShortage{
				VariantID: id,
				Available: row.Stock,
				Requested: -delta[id],
			})
		}
	}
	if len(shortages) > 0 {
		return nil, domain.InsufficientStock(shortages)
	}

	for _, id := range ids {
		row := locked[id]
		row.Stock += delta[id]
		if err := stockRepo.SetStock(ctx, tenantID, id, row.Stock); err != nil {
			return nil, err
		}
	}
	return locked, nil
}
