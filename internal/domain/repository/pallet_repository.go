package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// PalletRepository puerto de lectura del catálogo de pallets.
type PalletRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Pallet, error)
	// GetFirstAvailable devuelve el primer pallet con estado "available" o nil.
	GetFirstAvailable(ctx context.Context) (*entity.Pallet, error)
}
