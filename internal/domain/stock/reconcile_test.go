package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/controlpos-api/internal/domain/entity"
	"github.com/jhoicas/controlpos-api/internal/domain/stock"
)

func TestQuantityMap_SumaDuplicados(t *testing.T) {
	m := stock.QuantityMap([]stock.Line{
		{VariantID: "A", Quantity: 2},
		{VariantID: "B", Quantity: 1},
		{VariantID: "A", Quantity: 3},
	})
	assert.Equal(t, map[string]int{"A": 5, "B": 1}, m)
}

func TestEquivalent(t *testing.T) {
	cases := []struct {
		name string
		a, b []stock.Line
		want bool
	}{
		{"iguales", []stock.Line{{"A", 2}}, []stock.Line{{"A", 2}}, true},
		{"orden distinto", []stock.Line{{"A", 2}, {"B", 1}}, []stock.Line{{"B", 1}, {"A", 2}}, true},
		{"duplicados sumados", []stock.Line{{"A", 1}, {"A", 1}}, []stock.Line{{"A", 2}}, true},
		{"cantidad distinta", []stock.Line{{"A", 2}}, []stock.Line{{"A", 3}}, false},
		{"variante extra", []stock.Line{{"A", 2}}, []stock.Line{{"A", 2}, {"B", 1}}, false},
		{"variante distinta", []stock.Line{{"A", 2}}, []stock.Line{{"B", 2}}, false},
		{"ambos vacíos", nil, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stock.Equivalent(tc.a, tc.b))
			assert.Equal(t, tc.want, stock.Equivalent(tc.b, tc.a))
		})
	}
}

func TestNetDelta(t *testing.T) {
	delta := stock.NetDelta(
		[]stock.Line{{"A", 15}, {"C", 1}},
		[]stock.Line{{"A", 10}, {"B", 4}},
	)
	assert.Equal(t, map[string]int{"A": 5, "B": -4, "C": 1}, delta)

	assert.Empty(t, stock.NetDelta([]stock.Line{{"A", 3}}, []stock.Line{{"A", 1}, {"A", 2}}))
}

func TestRecordEffect(t *testing.T) {
	lines := []stock.Line{{"A", 5}, {"B", 2}}
	assert.Equal(t, map[string]int{"A": 5, "B": 2}, stock.RecordEffect(entity.RecordTypeEntry, lines))
	assert.Equal(t, map[string]int{"A": -5, "B": -2}, stock.RecordEffect(entity.RecordTypeExit, lines))
}

func TestDiffYNegate(t *testing.T) {
	oldEffect := map[string]int{"A": -5}
	newEffect := map[string]int{"A": -8, "B": 2}
	assert.Equal(t, map[string]int{"A": -3, "B": 2}, stock.Diff(newEffect, oldEffect))
	assert.Equal(t, map[string]int{"A": 5}, stock.Negate(oldEffect))
}

func TestSortedIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, stock.SortedIDs(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestWeightedCost(t *testing.T) {
	// 10 unidades a 100 + 10 a 200 → 150
	got := stock.WeightedCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "got %s", got)

	// stock negativo o cero total no divide por cero
	assert.True(t, stock.WeightedCost(0, decimal.Zero, 0, decimal.NewFromInt(5)).IsZero())
}
