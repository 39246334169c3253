package stock

import "github.com/shopspring/decimal"

// WeightedCost costo promedio ponderado tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedCost(stockActual int, costoActual decimal.Decimal, cantEntrada int, costoEntrada decimal.Decimal) decimal.Decimal {
	sa := decimal.NewFromInt(int64(stockActual))
	ce := decimal.NewFromInt(int64(cantEntrada))
	sum := sa.Add(ce)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := sa.Mul(costoActual).Add(ce.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}
