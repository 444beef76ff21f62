package composition

import (
	"context"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// El chequeo de stock y su descuento (o reintegro) ocurren dentro de la misma llamada, por lo que
// dos armados concurrentes sobre el mismo stock no pueden confirmarse ambos si solo alcanza para uno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		compRepo repository.CompositionRepository,
		invRepo repository.InventoryRepository,
	) error) error
}

// ReportRenderer genera la representación binaria (PDF) de un reporte de composición.
type ReportRenderer interface {
	RenderCompositionReport(ctx context.Context, report *dto.CompositionReport) ([]byte, error)
}
