package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// PackagingTypeRepository puerto del catálogo de tipos de empaque (DIP).
type PackagingTypeRepository interface {
	Create(ctx context.Context, p *entity.PackagingType) error
	GetByID(ctx context.Context, id string) (*entity.PackagingType, error)
	// GetByBarcode busca solo entre tipos activos.
	GetByBarcode(ctx context.Context, barcode string) (*entity.PackagingType, error)
	ListActiveByProduct(ctx context.Context, productID string) ([]*entity.PackagingType, error)
}
