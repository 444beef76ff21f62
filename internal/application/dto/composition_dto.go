package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// CompositionItemRequest producto a componer; quantity en unidades base.
type CompositionItemRequest struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	PackagingTypeID *string         `json:"packaging_type_id,omitempty"`
}

// CompositionConstraints límites opcionales; se aplica el más restrictivo frente al pallet.
type CompositionConstraints struct {
	MaxWeight *float64 `json:"max_weight,omitempty"`
	MaxHeight *float64 `json:"max_height,omitempty"`
	MaxVolume *float64 `json:"max_volume,omitempty"`
}

// CalculateCompositionRequest body para calcular o validar una composición.
// Si pallet_id se omite se usa el primer pallet disponible.
type CalculateCompositionRequest struct {
	Products    []CompositionItemRequest `json:"products"`
	PalletID    string                   `json:"pallet_id,omitempty"`
	Constraints *CompositionConstraints  `json:"constraints,omitempty"`
}

// CreateCompositionRequest body para POST /api/compositions.
type CreateCompositionRequest struct {
	Name string `json:"name"`
	CalculateCompositionRequest
}

// ValidationMetrics métricas resumidas devueltas por la validación.
type ValidationMetrics struct {
	Efficiency float64       `json:"efficiency"`
	Weight     entity.Metric `json:"weight"`
	Volume     entity.Metric `json:"volume"`
	Height     entity.Metric `json:"height"`
	Layers     int           `json:"layers"`
	TotalItems int64         `json:"total_items"`
}

// ValidateCompositionResponse resultado de validar restricciones sin persistir.
type ValidateCompositionResponse struct {
	IsValid    bool               `json:"is_valid"`
	PalletID   string             `json:"pallet_id"`
	Violations []entity.Violation `json:"violations"`
	Warnings   []string           `json:"warnings"`
	Metrics    ValidationMetrics  `json:"metrics"`
}

// CompositionItemResponse ítem de una composición.
type CompositionItemResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	PackagingTypeID *string         `json:"packaging_type_id,omitempty"`
}

// CompositionResponse salida de una composición.
type CompositionResponse struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	Status     string                    `json:"status"`
	PalletID   string                    `json:"pallet_id"`
	Items      []CompositionItemResponse `json:"items"`
	Result     *entity.CompositionResult `json:"result"`
	Assembly   *entity.Assembly          `json:"assembly,omitempty"`
	CreatedBy  string                    `json:"created_by"`
	CreatedAt  time.Time                 `json:"created_at"`
	ApprovedBy *string                   `json:"approved_by,omitempty"`
	ApprovedAt *time.Time                `json:"approved_at,omitempty"`
	ExecutedBy *string                   `json:"executed_by,omitempty"`
	ExecutedAt *time.Time                `json:"executed_at,omitempty"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// CompositionListResponse lista paginada de composiciones.
type CompositionListResponse struct {
	Items []CompositionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// AssembleRequest body para armar una composición aprobada.
// Multiplier copias a armar (por defecto 1); LocationID restringe el origen del stock (vacío = cualquiera).
type AssembleRequest struct {
	Multiplier int64  `json:"multiplier,omitempty"`
	LocationID string `json:"location_id,omitempty"`
}

// TargetAllocation destino del stock al desarmar.
type TargetAllocation struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	LocationID      string          `json:"location_id"`
	PackagingTypeID string          `json:"packaging_type_id,omitempty"`
}

// DisassembleRequest body para desarmar una composición ejecutada.
type DisassembleRequest struct {
	TargetAllocations []TargetAllocation `json:"target_allocations"`
}

// ReportOptions opciones de GET /api/compositions/:id/report.
type ReportOptions struct {
	Format             string `query:"format"` // json | pdf
	IncludeArrangement bool   `query:"arrangement"`
}

// ReportSummary resumen ejecutivo del reporte.
type ReportSummary struct {
	Efficiency       float64 `json:"efficiency"`
	EfficiencyRating string  `json:"efficiency_rating"`
	IsValid          bool    `json:"is_valid"`
	Layers           int     `json:"layers"`
	ItemsPerLayer    int     `json:"items_per_layer"`
	TotalItems       int64   `json:"total_items"`
	Products         int     `json:"products"`
	Errors           int     `json:"errors"`
	Warnings         int     `json:"warnings"`
}

// CompositionReport reporte derivado del resultado almacenado.
type CompositionReport struct {
	CompositionID   string                    `json:"composition_id"`
	Name            string                    `json:"name"`
	Status          string                    `json:"status"`
	PalletID        string                    `json:"pallet_id"`
	GeneratedAt     time.Time                 `json:"generated_at"`
	Summary         ReportSummary             `json:"summary"`
	Weight          entity.Metric             `json:"weight"`
	Volume          entity.Metric             `json:"volume"`
	Height          entity.Metric             `json:"height"`
	Products        []entity.ProductBreakdown `json:"products"`
	Violations      []entity.Violation        `json:"violations"`
	Recommendations []string                  `json:"recommendations"`
	Warnings        []string                  `json:"warnings"`
	Arrangement     []entity.ArrangedItem     `json:"arrangement,omitempty"`
}
