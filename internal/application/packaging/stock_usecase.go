package packaging

import (
	"context"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	dompackaging "github.com/jhoicas/Inventario-pallets/internal/domain/packaging"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

// StockUseCase consolida el stock vivo de un producto. Cada llamada es una lectura puntual; no cachea.
type StockUseCase struct {
	packRepo repository.PackagingTypeRepository
	invRepo  repository.InventoryRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(packRepo repository.PackagingTypeRepository, invRepo repository.InventoryRepository) *StockUseCase {
	return &StockUseCase{packRepo: packRepo, invRepo: invRepo}
}

// GetStockConsolidated total en unidades base, ubicaciones y registros que aportan.
func (uc *StockUseCase) GetStockConsolidated(ctx context.Context, productID string) (*dto.ConsolidatedStockResponse, error) {
	records, err := uc.invRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	c := dompackaging.Consolidate(productID, records)
	return &dto.ConsolidatedStockResponse{
		ProductID:      c.ProductID,
		TotalBaseUnits: c.TotalBaseUnits,
		Locations:      c.Locations,
		Records:        c.Records,
		ByLocation:     c.ByLocation,
	}, nil
}

// GetStockByPackaging paquetes completos disponibles por tipo de empaque activo.
func (uc *StockUseCase) GetStockByPackaging(ctx context.Context, productID string) ([]entity.StockByPackaging, error) {
	types, err := uc.packRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	records, err := uc.invRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return dompackaging.ByPackaging(types, records), nil
}

// GetStockByPackagingResponse versión DTO de GetStockByPackaging.
func (uc *StockUseCase) GetStockByPackagingResponse(ctx context.Context, productID string) (*dto.StockByPackagingResponse, error) {
	stock, err := uc.GetStockByPackaging(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockByPackagingResponse{ProductID: productID, Items: make([]dto.StockByPackagingDTO, 0, len(stock))}
	for _, s := range stock {
		out.Items = append(out.Items, dto.StockByPackagingDTO{
			PackagingTypeID:   s.Packaging.ID,
			PackagingName:     s.Packaging.Name,
			Level:             s.Packaging.Level,
			BaseUnitQuantity:  s.Packaging.BaseUnitQuantity,
			AvailablePackages: s.AvailablePackages,
			BaseUnits:         s.BaseUnits,
		})
	}
	return out, nil
}
