package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord stock vivo de un producto en una ubicación, registrado en un nivel de empaque.
// Quantity está siempre expresada en unidades base.
type InventoryRecord struct {
	ID              string
	ProductID       string
	PackagingTypeID string
	LocationID      string
	Quantity        decimal.Decimal
	IsActive        bool
	UpdatedAt       time.Time
}

// ConsolidatedStock total en unidades base de un producto, sin importar el empaque registrado.
type ConsolidatedStock struct {
	ProductID      string
	TotalBaseUnits decimal.Decimal
	Locations      int
	Records        int
	ByLocation     map[string]decimal.Decimal
}
