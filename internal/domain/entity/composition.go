package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de una composición.
const (
	CompositionStatusDraft    = "draft"
	CompositionStatusApproved = "approved"
	CompositionStatusExecuted = "executed"
)

// Composition asignación planificada (o ejecutada) de productos sobre un pallet.
// Las transiciones de Status solo las realiza el caso de uso de ciclo de vida.
type Composition struct {
	ID         string
	Name       string
	Status     string
	PalletID   string
	Items      []CompositionItem
	Result     *CompositionResult
	Assembly   *Assembly // retiros de stock del último armado; nil si no está ejecutada
	IsActive   bool
	CreatedBy  string
	CreatedAt  time.Time
	ApprovedBy *string
	ApprovedAt *time.Time
	ExecutedBy *string
	ExecutedAt *time.Time
	UpdatedAt  time.Time
}

// CompositionItem producto y cantidad (en unidades base) dentro de una composición.
type CompositionItem struct {
	ID              string
	CompositionID   string
	ProductID       string
	Quantity        decimal.Decimal
	PackagingTypeID *string
	IsActive        bool
}

// QuantityByProduct suma las cantidades de los ítems activos por producto.
func (c *Composition) QuantityByProduct() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.Items))
	for _, it := range c.Items {
		if !it.IsActive {
			continue
		}
		out[it.ProductID] = out[it.ProductID].Add(it.Quantity)
	}
	return out
}

// Assembly registro de un armado: cuántas copias se armaron y de qué registros salió el stock.
type Assembly struct {
	Multiplier  int64             `json:"multiplier"`
	Withdrawals []StockWithdrawal `json:"withdrawals"`
}

// StockWithdrawal unidades base retiradas de un registro de inventario.
type StockWithdrawal struct {
	RecordID        string          `json:"record_id"`
	ProductID       string          `json:"product_id"`
	PackagingTypeID string          `json:"packaging_type_id"`
	LocationID      string          `json:"location_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}
