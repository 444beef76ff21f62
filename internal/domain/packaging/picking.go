package packaging

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// PickingPlanItem paquetes a tomar de un tipo de empaque.
type PickingPlanItem struct {
	PackagingTypeID  string
	PackagingName    string
	Level            int
	Quantity         int64
	BaseUnitQuantity decimal.Decimal
	BaseUnits        decimal.Decimal // Quantity × BaseUnitQuantity
}

// PickingPlan resultado del optimizador: ítems en orden de nivel descendente.
type PickingPlan struct {
	Requested      decimal.Decimal
	TotalPlanned   decimal.Decimal
	Remaining      decimal.Decimal
	TotalAvailable decimal.Decimal
	CanFulfill     bool
	Items          []PickingPlanItem
}

// OptimizePicking arma el plan de picking "empaque más grande primero".
//
// Recorre los tipos de empaque de mayor a menor nivel (empates por ID ascendente) y en cada uno toma
// min(disponibles, floor(restante / multiplicador)) paquetes. Se detiene cuando el restante llega a cero.
//
// Cantidades solicitadas <= 0 no generan picks: el plan queda vacío, CanFulfill=true y
// Remaining=requested (política de paso sin efecto, no de rechazo).
// La función es pura y determinista; no modifica stock.
func OptimizePicking(stock []entity.StockByPackaging, requested decimal.Decimal) PickingPlan {
	plan := PickingPlan{
		Requested:      requested,
		TotalPlanned:   decimal.Zero,
		Remaining:      requested,
		TotalAvailable: decimal.Zero,
		Items:          []PickingPlanItem{},
	}

	candidates := make([]entity.StockByPackaging, 0, len(stock))
	for _, s := range stock {
		if s.Packaging == nil || !s.Packaging.BaseUnitQuantity.IsPositive() || s.AvailablePackages <= 0 {
			continue
		}
		candidates = append(candidates, s)
		plan.TotalAvailable = plan.TotalAvailable.Add(s.Packaging.BaseUnitQuantity.Mul(decimal.NewFromInt(s.AvailablePackages)))
	}

	if !requested.IsPositive() {
		plan.CanFulfill = true
		return plan
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].Packaging, candidates[j].Packaging
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return a.ID < b.ID
	})

	remaining := requested
	for _, s := range candidates {
		if remaining.IsZero() {
			break
		}
		take := WholePackages(remaining, s.Packaging)
		if s.AvailablePackages < take {
			take = s.AvailablePackages
		}
		if take <= 0 {
			continue
		}
		units := s.Packaging.BaseUnitQuantity.Mul(decimal.NewFromInt(take))
		plan.Items = append(plan.Items, PickingPlanItem{
			PackagingTypeID:  s.Packaging.ID,
			PackagingName:    s.Packaging.Name,
			Level:            s.Packaging.Level,
			Quantity:         take,
			BaseUnitQuantity: s.Packaging.BaseUnitQuantity,
			BaseUnits:        units,
		})
		remaining = remaining.Sub(units)
	}

	plan.Remaining = remaining
	plan.TotalPlanned = requested.Sub(remaining)
	if plan.TotalPlanned.IsNegative() {
		plan.TotalPlanned = decimal.Zero
	}
	plan.CanFulfill = remaining.IsZero()
	return plan
}
