package packaging

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	dompackaging "github.com/jhoicas/Inventario-pallets/internal/domain/packaging"
)

// PickingUseCase arma planes de picking por empaque sobre el stock consolidado.
type PickingUseCase struct {
	stock *StockUseCase
}

// NewPickingUseCase construye el caso de uso.
func NewPickingUseCase(stock *StockUseCase) *PickingUseCase {
	return &PickingUseCase{stock: stock}
}

// OptimizePickingByPackaging lee el stock por empaque y aplica el algoritmo "empaque más grande primero".
// Un producto sin tipos de empaque activos es ErrNotFound.
func (uc *PickingUseCase) OptimizePickingByPackaging(ctx context.Context, productID string, requestedBaseUnits decimal.Decimal) (*dto.PickingPlanResponse, error) {
	if productID == "" {
		return nil, fmt.Errorf("product_id requerido: %w", domain.ErrInvalidInput)
	}
	stock, err := uc.stock.GetStockByPackaging(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(stock) == 0 {
		return nil, fmt.Errorf("empaques del producto %s: %w", productID, domain.ErrNotFound)
	}
	plan := dompackaging.OptimizePicking(stock, requestedBaseUnits)

	out := &dto.PickingPlanResponse{
		ProductID:          productID,
		RequestedBaseUnits: plan.Requested,
		PickingPlan:        make([]dto.PickingPlanItemDTO, 0, len(plan.Items)),
		TotalPlanned:       plan.TotalPlanned,
		Remaining:          plan.Remaining,
		TotalAvailable:     plan.TotalAvailable,
		CanFulfill:         plan.CanFulfill,
	}
	for _, it := range plan.Items {
		out.PickingPlan = append(out.PickingPlan, dto.PickingPlanItemDTO{
			PackagingTypeID:  it.PackagingTypeID,
			PackagingName:    it.PackagingName,
			Level:            it.Level,
			Quantity:         it.Quantity,
			BaseUnitQuantity: it.BaseUnitQuantity,
			BaseUnits:        it.BaseUnits,
		})
	}
	return out, nil
}
