package packaging

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// Consolidate suma las unidades base de todos los registros activos del producto,
// sin importar en qué nivel de empaque se registraron.
func Consolidate(productID string, records []*entity.InventoryRecord) entity.ConsolidatedStock {
	out := entity.ConsolidatedStock{
		ProductID:      productID,
		TotalBaseUnits: decimal.Zero,
		ByLocation:     map[string]decimal.Decimal{},
	}
	for _, r := range records {
		if r == nil || !r.IsActive || r.ProductID != productID {
			continue
		}
		out.Records++
		out.TotalBaseUnits = out.TotalBaseUnits.Add(r.Quantity)
		out.ByLocation[r.LocationID] = out.ByLocation[r.LocationID].Add(r.Quantity)
	}
	out.Locations = len(out.ByLocation)
	return out
}

// ByPackaging calcula, por tipo de empaque activo, los paquetes completos disponibles:
// floor(unidades base registradas en ese empaque / multiplicador).
// El resultado sale en orden de nivel ascendente.
func ByPackaging(types []*entity.PackagingType, records []*entity.InventoryRecord) []entity.StockByPackaging {
	baseByPackaging := make(map[string]decimal.Decimal, len(types))
	for _, r := range records {
		if r == nil || !r.IsActive {
			continue
		}
		baseByPackaging[r.PackagingTypeID] = baseByPackaging[r.PackagingTypeID].Add(r.Quantity)
	}

	active := make([]*entity.PackagingType, 0, len(types))
	for _, t := range types {
		if t != nil && t.IsActive {
			active = append(active, t)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].Level != active[j].Level {
			return active[i].Level < active[j].Level
		}
		return active[i].ID < active[j].ID
	})

	out := make([]entity.StockByPackaging, 0, len(active))
	for _, t := range active {
		n := WholePackages(baseByPackaging[t.ID], t)
		out = append(out, entity.StockByPackaging{
			Packaging:         t,
			AvailablePackages: n,
			BaseUnits:         t.BaseUnitQuantity.Mul(decimal.NewFromInt(n)),
		})
	}
	return out
}
