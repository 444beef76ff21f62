// Package composition calcula si un conjunto de productos cabe en un pallet.
//
// El cálculo es una heurística de huella y peso por capas: cada producto se apila en capas de
// floor(área del pallet / huella del ítem) ítems, un producto encima del otro. No rota cajas ni
// verifica colisiones; la distribución (x, y, z) es orientativa.
package composition

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/packaging"
)

// Pesos del puntaje de eficiencia (suman 1).
const (
	weightShare = 0.4
	volumeShare = 0.4
	heightShare = 0.2
)

// Topes por producto: el conteo de ítems debe ser exacto en float64 y entrar en int64, y los
// totales deben poder sumarse entre productos sin desbordar.
const (
	maxPlannedItems = 1 << 53
	maxProductTotal = 1e300
)

// Umbrales cualitativos de eficiencia.
const (
	EfficiencyExcellent = 0.8
	EfficiencyGood      = 0.6
)

// ItemSpec un producto a componer, ya resuelto contra el catálogo.
type ItemSpec struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal   // unidades base
	Unit        entity.Dimensions // medidas y peso de la unidad base
	Packaging   *entity.PackagingType
}

// Constraints límites opcionales que el caller quiere imponer además de los del pallet.
type Constraints struct {
	MaxWeight *float64
	MaxHeight *float64
	MaxVolume *float64
}

// Options parámetros de la heurística.
type Options struct {
	MaxArrangementItems int     // tope de posiciones listadas en Layout.Arrangement
	NearCapacity        float64 // utilización a partir de la cual se advierte (0.9)
	LowEfficiency       float64 // eficiencia por debajo de la cual se advierte (0.5)
}

// DefaultOptions valores por defecto.
func DefaultOptions() Options {
	return Options{MaxArrangementItems: 500, NearCapacity: 0.9, LowEfficiency: 0.5}
}

// Input entrada completa del planificador.
type Input struct {
	Pallet      entity.Pallet
	Items       []ItemSpec
	Constraints Constraints
	Options     Options
}

// Limits límites efectivos aplicados.
type Limits struct {
	MaxWeight float64
	MaxHeight float64
	MaxVolume float64
}

// EffectiveLimits el más restrictivo entre el pallet y cada override (mínimo elemento a elemento).
// Un override <= 0 se ignora; si el pallet no define un límite se usa el override.
func EffectiveLimits(p entity.Pallet, c Constraints) Limits {
	return Limits{
		MaxWeight: restrictive(p.MaxWeight, c.MaxWeight),
		MaxHeight: restrictive(p.Height, c.MaxHeight),
		MaxVolume: restrictive(p.MaxVolume(), c.MaxVolume),
	}
}

func restrictive(own float64, override *float64) float64 {
	if override == nil || !finitePositive(*override) {
		return own
	}
	if !finitePositive(own) {
		return *override
	}
	return math.Min(own, *override)
}

type group struct {
	spec          ItemSpec
	quantity      float64
	item          entity.Dimensions
	count         int64
	itemsPerLayer int
	layers        int
	totalWeight   float64
	totalVolume   float64
	packages      float64
}

// Plan evalúa la composición y devuelve el snapshot de resultado. Es pura: no hace I/O ni muta la entrada.
func Plan(in Input) *entity.CompositionResult {
	opts := in.Options
	if opts.MaxArrangementItems <= 0 {
		opts.MaxArrangementItems = DefaultOptions().MaxArrangementItems
	}
	if opts.NearCapacity <= 0 {
		opts.NearCapacity = DefaultOptions().NearCapacity
	}
	if opts.LowEfficiency <= 0 {
		opts.LowEfficiency = DefaultOptions().LowEfficiency
	}

	res := &entity.CompositionResult{
		PalletID:        in.Pallet.ID,
		Violations:      []entity.Violation{},
		Recommendations: []string{},
		Warnings:        []string{},
		Products:        []entity.ProductBreakdown{},
	}
	badQuantity := false
	palletArea := in.Pallet.Footprint()

	groups := make([]*group, 0, len(in.Items))
	for _, spec := range in.Items {
		g := &group{spec: spec}
		qd := spec.Quantity
		q := qd.InexactFloat64()
		switch {
		case math.IsNaN(q) || math.IsInf(q, 0):
			badQuantity = true
			res.Violations = append(res.Violations, quantityViolation(spec.ProductID, entity.SeverityError, "cantidad no finita"))
			q, qd = 0, decimal.Zero
		case q < 0:
			badQuantity = true
			res.Violations = append(res.Violations, quantityViolation(spec.ProductID, entity.SeverityError, "cantidad negativa"))
			q, qd = 0, decimal.Zero
		case q == 0:
			res.Warnings = append(res.Warnings, fmt.Sprintf("producto %s con cantidad cero: no aporta a la composición", spec.ProductID))
		}
		if !validDimensions(spec.Unit) {
			badQuantity = true
			res.Violations = append(res.Violations, quantityViolation(spec.ProductID, entity.SeverityError, "peso o medidas no válidas en el catálogo"))
			q, qd = 0, decimal.Zero
		}
		g.quantity = q
		g.totalWeight = q * spec.Unit.Weight
		g.totalVolume = q * spec.Unit.Volume()

		g.item = spec.Unit
		items := math.Ceil(q)
		if spec.Packaging != nil {
			if pk, err := packaging.FromBaseUnits(qd, spec.Packaging); err == nil {
				g.packages = pk.InexactFloat64()
				if d := spec.Packaging.Dimensions; d != nil && validDimensions(*d) && d.Footprint() > 0 {
					g.item = *d
					items = math.Ceil(g.packages)
				}
			}
		}
		if outOfRange(items, g.totalWeight, g.totalVolume, items*g.item.Height, g.packages) {
			badQuantity = true
			res.Violations = append(res.Violations, quantityViolation(spec.ProductID, entity.SeverityError, "cantidad fuera de rango"))
			g.quantity, g.totalWeight, g.totalVolume, g.packages = 0, 0, 0, 0
			g.item = spec.Unit
			items = 0
		}
		g.count = int64(items)

		footprint := g.item.Footprint()
		switch {
		case g.count == 0:
			g.itemsPerLayer = 0
		case footprint <= 0 || palletArea <= 0:
			g.itemsPerLayer = int(g.count)
			res.Warnings = append(res.Warnings, fmt.Sprintf("producto %s sin huella definida: se asume una sola capa", spec.ProductID))
		default:
			g.itemsPerLayer = int(math.Min(math.Floor(palletArea/footprint), maxPlannedItems))
			if g.itemsPerLayer < 1 {
				g.itemsPerLayer = 1
				res.Warnings = append(res.Warnings, fmt.Sprintf("producto %s excede la superficie del pallet", spec.ProductID))
			}
		}
		if g.itemsPerLayer > 0 {
			g.layers = int((g.count + int64(g.itemsPerLayer) - 1) / int64(g.itemsPerLayer))
		}
		groups = append(groups, g)
	}

	// Los más pesados abajo.
	ordered := make([]*group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].totalWeight != ordered[j].totalWeight {
			return ordered[i].totalWeight > ordered[j].totalWeight
		}
		return ordered[i].spec.ProductID < ordered[j].spec.ProductID
	})

	layout := &entity.Layout{Arrangement: []entity.ArrangedItem{}}
	var totalWeight, totalVolume, totalHeight float64
	layerOffset := 0
	for _, g := range ordered {
		totalWeight += g.totalWeight
		totalVolume += g.totalVolume
		layout.TotalItems += g.count
		if g.layers == 0 {
			continue
		}
		if layout.ItemsPerLayer == 0 {
			layout.ItemsPerLayer = g.itemsPerLayer
		}
		if !layout.Truncated {
			layout.Truncated = arrange(layout, g, in.Pallet, layerOffset, totalHeight, opts.MaxArrangementItems)
		}
		layerOffset += g.layers
		totalHeight += float64(g.layers) * g.item.Height
	}
	layout.Layers = layerOffset
	res.Layout = layout
	if layout.Truncated {
		res.Warnings = append(res.Warnings, fmt.Sprintf("distribución truncada a %d posiciones", opts.MaxArrangementItems))
	}

	for _, g := range groups {
		res.Products = append(res.Products, entity.ProductBreakdown{
			ProductID:       g.spec.ProductID,
			ProductName:     g.spec.ProductName,
			PackagingTypeID: packagingID(g.spec.Packaging),
			Quantity:        g.quantity,
			Packages:        g.packages,
			Items:           g.count,
			UnitWeight:      g.spec.Unit.Weight,
			TotalWeight:     g.totalWeight,
			TotalVolume:     g.totalVolume,
			ItemsPerLayer:   g.itemsPerLayer,
			Layers:          g.layers,
			StackHeight:     float64(g.layers) * g.item.Height,
		})
	}

	limits := EffectiveLimits(in.Pallet, in.Constraints)
	res.Weight = metric(totalWeight, limits.MaxWeight)
	res.Volume = metric(totalVolume, limits.MaxVolume)
	res.Height = metric(totalHeight, limits.MaxHeight)

	overLimit := false
	for _, m := range []struct {
		kind string
		m    entity.Metric
	}{
		{entity.ViolationWeight, res.Weight},
		{entity.ViolationVolume, res.Volume},
		{entity.ViolationHeight, res.Height},
	} {
		if m.m.Limit <= 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("sin límite de %s definido", label(m.kind)))
			continue
		}
		switch {
		case m.m.Utilization > 1:
			overLimit = true
			res.Violations = append(res.Violations, entity.Violation{
				Type: m.kind, Severity: entity.SeverityError, Utilization: m.m.Utilization,
				Message: fmt.Sprintf("%s excede el límite: %.2f de %.2f (%.0f%%)", label(m.kind), m.m.Total, m.m.Limit, m.m.Utilization*100),
			})
		case m.m.Utilization > opts.NearCapacity:
			msg := fmt.Sprintf("%s cerca de la capacidad (%.0f%%)", label(m.kind), m.m.Utilization*100)
			res.Violations = append(res.Violations, entity.Violation{
				Type: m.kind, Severity: entity.SeverityWarning, Utilization: m.m.Utilization, Message: msg,
			})
			res.Warnings = append(res.Warnings, msg)
		}
	}

	res.Efficiency = Efficiency(res.Weight.Utilization, res.Volume.Utilization, res.Height.Utilization)
	res.IsValid = !overLimit && !badQuantity
	if res.Efficiency < opts.LowEfficiency {
		res.Warnings = append(res.Warnings, fmt.Sprintf("eficiencia baja (%.0f%%)", res.Efficiency*100))
	}
	res.Recommendations = recommend(res, opts)
	return res
}

// Efficiency 0.4·peso + 0.4·volumen + 0.2·altura, cada utilización acotada a [0, 1].
func Efficiency(weight, volume, height float64) float64 {
	e := weightShare*clamp01(weight) + volumeShare*clamp01(volume) + heightShare*clamp01(height)
	return math.Round(clamp01(e)*10000) / 10000
}

// Rating calificación cualitativa de una eficiencia.
func Rating(efficiency, lowThreshold float64) string {
	switch {
	case efficiency >= EfficiencyExcellent:
		return "excellent"
	case efficiency >= EfficiencyGood:
		return "good"
	case efficiency >= lowThreshold:
		return "fair"
	default:
		return "low"
	}
}

// arrange agrega posiciones hasta el tope; devuelve true si tuvo que truncar.
// Las posiciones de una capa recorren una grilla cols × rows dentro de la huella del pallet; cuando la
// capacidad por área supera la grilla, las posiciones se repiten (la distribución es orientativa).
func arrange(layout *entity.Layout, g *group, p entity.Pallet, layerOffset int, zBase float64, limit int) bool {
	cols := gridSlots(p.Width, g.item.Width)
	rows := gridSlots(p.Length, g.item.Length)
	for i := int64(0); i < g.count; i++ {
		if len(layout.Arrangement) >= limit {
			return true
		}
		local := int(i / int64(g.itemsPerLayer))
		slot := int(i%int64(g.itemsPerLayer)) % (cols * rows)
		layout.Arrangement = append(layout.Arrangement, entity.ArrangedItem{
			ProductID: g.spec.ProductID,
			Layer:     layerOffset + local,
			X:         float64(slot%cols) * g.item.Width,
			Y:         float64(slot/cols) * g.item.Length,
			Z:         zBase + float64(local)*g.item.Height,
		})
	}
	return false
}

func recommend(res *entity.CompositionResult, opts Options) []string {
	out := []string{}
	if res.Weight.Utilization > 1 {
		out = append(out, fmt.Sprintf("reducir peso o dividir la carga en %d pallets", int(math.Ceil(res.Weight.Utilization))))
	}
	if res.Height.Utilization > 1 {
		out = append(out, "reducir el número de capas o usar un pallet con mayor altura de carga")
	}
	if res.Volume.Utilization > 1 {
		out = append(out, "el volumen no cabe en el pallet: dividir la composición")
	}
	switch {
	case !res.IsValid:
	case res.Efficiency >= EfficiencyExcellent:
		out = append(out, "aprovechamiento excelente del pallet")
	case res.Efficiency >= EfficiencyGood:
		out = append(out, "buen aprovechamiento del pallet")
	case res.Efficiency < opts.LowEfficiency:
		out = append(out, "agregar productos o usar un pallet más pequeño para mejorar la eficiencia")
	}
	if res.IsValid && res.Weight.Utilization > opts.NearCapacity && res.Volume.Utilization < opts.LowEfficiency {
		out = append(out, "carga limitada por peso: combinar con productos livianos de mayor volumen")
	}
	return out
}

func metric(total, limit float64) entity.Metric {
	m := entity.Metric{Total: total, Limit: limit}
	if limit > 0 {
		m.Utilization = math.Min(total/limit, math.MaxFloat64)
	}
	return m
}

func quantityViolation(productID, severity, msg string) entity.Violation {
	return entity.Violation{
		Type:      entity.ViolationQuantity,
		Severity:  severity,
		ProductID: productID,
		Message:   fmt.Sprintf("producto %s: %s", productID, msg),
	}
}

func validDimensions(d entity.Dimensions) bool {
	for _, v := range []float64{d.Width, d.Length, d.Height, d.Weight} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return true
}

// gridSlots cuántos ítems de largo item caben a lo largo de side (mínimo 1).
func gridSlots(side, item float64) int {
	if item <= 0 || side <= 0 {
		return 1
	}
	const maxSlots = 1 << 24
	n := math.Floor(side / item)
	switch {
	case n < 1:
		return 1
	case n > maxSlots:
		return maxSlots
	}
	return int(n)
}

// outOfRange true si algún total del producto no es representable: conteo de ítems mayor que
// maxPlannedItems o peso, volumen o altura que superan maxProductTotal (incluye Inf y NaN).
func outOfRange(items float64, totals ...float64) bool {
	if !(items <= maxPlannedItems) {
		return true
	}
	for _, v := range totals {
		if !(math.Abs(v) <= maxProductTotal) {
			return true
		}
	}
	return false
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func packagingID(p *entity.PackagingType) string {
	if p == nil {
		return ""
	}
	return p.ID
}

func label(kind string) string {
	switch kind {
	case entity.ViolationWeight:
		return "peso"
	case entity.ViolationVolume:
		return "volumen"
	case entity.ViolationHeight:
		return "altura"
	}
	return kind
}
