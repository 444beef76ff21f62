package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// InventoryRepository puerto del stock vivo por producto + empaque + ubicación.
// Los métodos *ForUpdate bloquean las filas leídas; usarlos dentro de TxRunner.Run.
type InventoryRepository interface {
	ListActiveByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error)
	ListActiveByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryRecord, error)
	// Decrement resta unidades base de un registro solo si alcanza; si no, devuelve ErrInsufficientStock.
	Decrement(ctx context.Context, recordID string, quantity decimal.Decimal) error
	// Increment suma unidades base en producto+empaque+ubicación, creando el registro si no existe.
	Increment(ctx context.Context, productID, packagingTypeID, locationID string, quantity decimal.Decimal) error
}
