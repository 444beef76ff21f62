package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// CompositionRepository puerto de persistencia de composiciones e ítems.
// Las lecturas ignoran composiciones con borrado lógico.
type CompositionRepository interface {
	Create(ctx context.Context, c *entity.Composition) error
	GetByID(ctx context.Context, id string) (*entity.Composition, error)
	// GetByIDForUpdate bloquea la fila de la composición hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Composition, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.Composition, error)
	UpdateStatus(ctx context.Context, c *entity.Composition) error
	// SoftDelete marca la composición y sus ítems como inactivos.
	SoftDelete(ctx context.Context, id string) error
}
