package packaging_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/packaging"
)

func stockOf(unit, box, cs int64) []entity.StockByPackaging {
	tree := standardTree() // case, unit, box
	return []entity.StockByPackaging{
		{Packaging: tree[1], AvailablePackages: unit},
		{Packaging: tree[2], AvailablePackages: box},
		{Packaging: tree[0], AvailablePackages: cs},
	}
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func TestOptimizePicking_MayorEmpaquePrimero(t *testing.T) {
	plan := packaging.OptimizePicking(stockOf(1000, 20, 2), dec(250))

	require.Len(t, plan.Items, 3)
	assert.Equal(t, "case", plan.Items[0].PackagingTypeID)
	assert.Equal(t, int64(1), plan.Items[0].Quantity)
	assert.True(t, plan.Items[0].BaseUnits.Equal(dec(144)))
	assert.Equal(t, "box", plan.Items[1].PackagingTypeID)
	assert.Equal(t, int64(8), plan.Items[1].Quantity)
	assert.True(t, plan.Items[1].BaseUnits.Equal(dec(96)))
	assert.Equal(t, "unit", plan.Items[2].PackagingTypeID)
	assert.Equal(t, int64(10), plan.Items[2].Quantity)

	assert.True(t, plan.TotalPlanned.Equal(dec(250)))
	assert.True(t, plan.Remaining.IsZero())
	assert.True(t, plan.CanFulfill)
	assert.True(t, plan.TotalAvailable.Equal(dec(1000+240+288)))
}

func TestOptimizePicking_StockInsuficiente(t *testing.T) {
	plan := packaging.OptimizePicking(stockOf(100, 20, 2), dec(1000))

	// 2×144 + 20×12 + 100×1 = 628
	assert.True(t, plan.TotalPlanned.Equal(dec(628)))
	assert.True(t, plan.Remaining.Equal(dec(372)))
	assert.False(t, plan.CanFulfill)
	assert.True(t, plan.TotalPlanned.LessThanOrEqual(decimal.Min(plan.TotalAvailable, dec(1000))))
}

func TestOptimizePicking_TodoElStockAlcanza(t *testing.T) {
	plan := packaging.OptimizePicking(stockOf(1000, 20, 2), dec(1000))

	assert.True(t, plan.CanFulfill)
	assert.True(t, plan.TotalPlanned.Equal(dec(1000)))
	require.Len(t, plan.Items, 3)
	assert.Equal(t, int64(472), plan.Items[2].Quantity)
}

func TestOptimizePicking_CeroYNegativo(t *testing.T) {
	plan := packaging.OptimizePicking(stockOf(10, 1, 1), dec(0))
	assert.Empty(t, plan.Items)
	assert.True(t, plan.CanFulfill)
	assert.True(t, plan.Remaining.IsZero())
	assert.True(t, plan.TotalPlanned.IsZero())

	neg := packaging.OptimizePicking(stockOf(10, 1, 1), dec(-5))
	assert.Empty(t, neg.Items)
	assert.True(t, neg.CanFulfill)
	assert.True(t, neg.Remaining.Equal(dec(-5)))
	assert.True(t, neg.TotalPlanned.IsZero())
}

func TestOptimizePicking_Determinista(t *testing.T) {
	// dos tipos del mismo nivel: el empate se resuelve por ID
	tree := standardTree()
	boxB := pkg("box-b", 1, 12, "unit")
	stock := []entity.StockByPackaging{
		{Packaging: boxB, AvailablePackages: 5},
		{Packaging: tree[2], AvailablePackages: 5},
		{Packaging: tree[1], AvailablePackages: 50},
	}
	first := packaging.OptimizePicking(stock, dec(100))
	for i := 0; i < 20; i++ {
		// invertir el orden de entrada no cambia el plan
		reversed := []entity.StockByPackaging{stock[2], stock[1], stock[0]}
		again := packaging.OptimizePicking(reversed, dec(100))
		assert.Equal(t, first, again)
	}
	require.NotEmpty(t, first.Items)
	assert.Equal(t, "box", first.Items[0].PackagingTypeID)
	assert.Equal(t, int64(5), first.Items[0].Quantity)
	assert.Equal(t, "box-b", first.Items[1].PackagingTypeID)
}

func TestOptimizePicking_NuncaExcedeDisponibleNiSolicitado(t *testing.T) {
	for _, req := range []int64{1, 11, 12, 13, 143, 144, 145, 500, 627, 628, 629, 5000} {
		plan := packaging.OptimizePicking(stockOf(100, 20, 2), dec(req))
		limit := decimal.Min(plan.TotalAvailable, dec(req))
		assert.True(t, plan.TotalPlanned.LessThanOrEqual(limit), "req=%d", req)

		sum := decimal.Zero
		for _, it := range plan.Items {
			assert.Positive(t, it.Quantity)
			sum = sum.Add(it.BaseUnits)
		}
		assert.True(t, sum.Equal(plan.TotalPlanned), "req=%d", req)
	}
}
