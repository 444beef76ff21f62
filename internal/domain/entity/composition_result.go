package entity

// Tipos y severidades de violación.
const (
	ViolationWeight   = "weight"
	ViolationVolume   = "volume"
	ViolationHeight   = "height"
	ViolationQuantity = "quantity"

	SeverityError   = "error"
	SeverityWarning = "warning"
)

// CompositionResult snapshot del cálculo de una composición. Se persiste como JSON junto a la composición.
type CompositionResult struct {
	IsValid         bool               `json:"is_valid"`
	Efficiency      float64            `json:"efficiency"`
	PalletID        string             `json:"pallet_id"`
	Layout          *Layout            `json:"layout"`
	Weight          Metric             `json:"weight"`
	Volume          Metric             `json:"volume"`
	Height          Metric             `json:"height"`
	Violations      []Violation        `json:"violations"`
	Recommendations []string           `json:"recommendations"`
	Warnings        []string           `json:"warnings"`
	Products        []ProductBreakdown `json:"products"`
}

// Metric total, límite efectivo y utilización (total/límite) de una dimensión física.
type Metric struct {
	Total       float64 `json:"total"`
	Limit       float64 `json:"limit"`
	Utilization float64 `json:"utilization"`
}

// Layout resultado de la heurística por capas. No es un empaquetador geométrico: no verifica colisiones.
type Layout struct {
	Layers        int            `json:"layers"`
	ItemsPerLayer int            `json:"items_per_layer"`
	TotalItems    int64          `json:"total_items"`
	Truncated     bool           `json:"truncated"`
	Arrangement   []ArrangedItem `json:"arrangement"`
}

// ArrangedItem posición asignada a un ítem: capa y esquina (x, y, z) en cm.
type ArrangedItem struct {
	ProductID string  `json:"product_id"`
	Layer     int     `json:"layer"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// Violation límite excedido o cerca de excederse.
type Violation struct {
	Type        string  `json:"type"`
	Severity    string  `json:"severity"`
	ProductID   string  `json:"product_id,omitempty"`
	Utilization float64 `json:"utilization,omitempty"`
	Message     string  `json:"message"`
}

// ProductBreakdown aporte de cada producto a la composición.
type ProductBreakdown struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	PackagingTypeID string  `json:"packaging_type_id,omitempty"`
	Quantity        float64 `json:"quantity"`
	Packages        float64 `json:"packages,omitempty"`
	Items           int64   `json:"items"`
	UnitWeight      float64 `json:"unit_weight"`
	TotalWeight     float64 `json:"total_weight"`
	TotalVolume     float64 `json:"total_volume"`
	ItemsPerLayer   int     `json:"items_per_layer"`
	Layers          int     `json:"layers"`
	StackHeight     float64 `json:"stack_height"`
}

// Usable indica si el snapshot tiene la estructura mínima para derivar un reporte.
func (r *CompositionResult) Usable() bool {
	if r == nil || r.Layout == nil {
		return false
	}
	return r.Weight.Limit > 0 || r.Volume.Limit > 0 || r.Height.Limit > 0
}
