package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DimensionsDTO medidas en cm y peso en kg.
type DimensionsDTO struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// CreatePackagingTypeRequest entrada para registrar un nivel de empaque.
type CreatePackagingTypeRequest struct {
	ProductID         string          `json:"product_id" validate:"required"`
	Name              string          `json:"name" validate:"required,min=1,max=100"`
	Level             int             `json:"level" validate:"min=0"`
	BaseUnitQuantity  decimal.Decimal `json:"base_unit_quantity"`
	IsBaseUnit        bool            `json:"is_base_unit"`
	ParentPackagingID *string         `json:"parent_packaging_id,omitempty"`
	Barcode           *string         `json:"barcode,omitempty"`
	Dimensions        *DimensionsDTO  `json:"dimensions,omitempty"`
}

// PackagingTypeResponse salida de un tipo de empaque.
type PackagingTypeResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	Name              string          `json:"name"`
	Level             int             `json:"level"`
	BaseUnitQuantity  decimal.Decimal `json:"base_unit_quantity"`
	IsBaseUnit        bool            `json:"is_base_unit"`
	ParentPackagingID *string         `json:"parent_packaging_id,omitempty"`
	Barcode           *string         `json:"barcode,omitempty"`
	Dimensions        *DimensionsDTO  `json:"dimensions,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
}

// PackagingNodeResponse nodo del árbol de empaques.
type PackagingNodeResponse struct {
	PackagingTypeResponse
	Children []PackagingNodeResponse `json:"children"`
}

// PackagingHierarchyResponse árbol completo de un producto.
type PackagingHierarchyResponse struct {
	ProductID string                  `json:"product_id"`
	Total     int                     `json:"total"`
	Roots     []PackagingNodeResponse `json:"roots"`
}

// ConvertRequest body para POST /api/packaging/convert.
// Con solo from_packaging_id convierte a unidades base; con solo to_packaging_id convierte desde unidades base;
// con ambos devuelve la cantidad destino y el factor de conversión.
type ConvertRequest struct {
	Quantity        decimal.Decimal `json:"quantity"`
	FromPackagingID string          `json:"from_packaging_id,omitempty"`
	ToPackagingID   string          `json:"to_packaging_id,omitempty"`
}

// ConvertResponse resultado de una conversión.
type ConvertResponse struct {
	Quantity        decimal.Decimal  `json:"quantity"`
	FromPackagingID string           `json:"from_packaging_id,omitempty"`
	ToPackagingID   string           `json:"to_packaging_id,omitempty"`
	BaseUnits       decimal.Decimal  `json:"base_units"`
	Result          decimal.Decimal  `json:"result"`
	Factor          *decimal.Decimal `json:"factor,omitempty"`
}

// ConsolidatedStockResponse stock total de un producto en unidades base.
type ConsolidatedStockResponse struct {
	ProductID      string                     `json:"product_id"`
	TotalBaseUnits decimal.Decimal            `json:"total_base_units"`
	Locations      int                        `json:"locations"`
	Records        int                        `json:"records"`
	ByLocation     map[string]decimal.Decimal `json:"by_location"`
}

// StockByPackagingDTO paquetes completos disponibles de un tipo.
type StockByPackagingDTO struct {
	PackagingTypeID   string          `json:"packaging_type_id"`
	PackagingName     string          `json:"packaging_name"`
	Level             int             `json:"level"`
	BaseUnitQuantity  decimal.Decimal `json:"base_unit_quantity"`
	AvailablePackages int64           `json:"available_packages"`
	BaseUnits         decimal.Decimal `json:"base_units"`
}

// StockByPackagingResponse stock por empaque de un producto.
type StockByPackagingResponse struct {
	ProductID string                `json:"product_id"`
	Items     []StockByPackagingDTO `json:"items"`
}

// OptimizePickingRequest body para POST /api/picking/optimize.
type OptimizePickingRequest struct {
	ProductID          string          `json:"product_id"`
	RequestedBaseUnits decimal.Decimal `json:"requested_base_units"`
}

// PickingPlanItemDTO un pick del plan.
type PickingPlanItemDTO struct {
	PackagingTypeID  string          `json:"packaging_type_id"`
	PackagingName    string          `json:"packaging_name"`
	Level            int             `json:"level"`
	Quantity         int64           `json:"quantity"`
	BaseUnitQuantity decimal.Decimal `json:"base_unit_quantity"`
	BaseUnits        decimal.Decimal `json:"base_units"`
}

// PickingPlanResponse plan de picking por empaque.
type PickingPlanResponse struct {
	ProductID          string               `json:"product_id"`
	RequestedBaseUnits decimal.Decimal      `json:"requested_base_units"`
	PickingPlan        []PickingPlanItemDTO `json:"picking_plan"`
	TotalPlanned       decimal.Decimal      `json:"total_planned"`
	Remaining          decimal.Decimal      `json:"remaining"`
	TotalAvailable     decimal.Decimal      `json:"total_available"`
	CanFulfill         bool                 `json:"can_fulfill"`
}
