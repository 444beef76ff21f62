package entity

import "time"

// Product vista de catálogo necesaria para planificar: peso y medidas de la unidad base.
type Product struct {
	ID         string
	SKU        string
	Name       string
	Dimensions Dimensions
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
