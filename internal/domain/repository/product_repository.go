package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo de productos (peso y medidas).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
