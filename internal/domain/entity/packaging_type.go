package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingType es un nivel del árbol de empaques de un producto (unidad, caja, corrugado...).
// BaseUnitQuantity indica cuántas unidades base contiene un paquete de este tipo.
type PackagingType struct {
	ID                string
	ProductID         string
	Name              string
	Level             int             // 0 = unidad base; mayor nivel = empaque más grande
	BaseUnitQuantity  decimal.Decimal // siempre > 0; 1 para la unidad base
	IsBaseUnit        bool
	ParentPackagingID *string
	Barcode           *string // único entre tipos activos
	Dimensions        *Dimensions
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Dimensions medidas físicas de un paquete o unidad: centímetros y kilogramos.
type Dimensions struct {
	Width  float64
	Length float64
	Height float64
	Weight float64
}

// Footprint área de apoyo (ancho × largo).
func (d Dimensions) Footprint() float64 { return d.Width * d.Length }

// Volume volumen (ancho × largo × alto).
func (d Dimensions) Volume() float64 { return d.Width * d.Length * d.Height }

// StockByPackaging proyección de solo lectura: paquetes completos disponibles de un tipo de empaque.
type StockByPackaging struct {
	Packaging         *PackagingType
	AvailablePackages int64
	BaseUnits         decimal.Decimal // AvailablePackages × BaseUnitQuantity
}
