package composition

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	domcomposition "github.com/jhoicas/Inventario-pallets/internal/domain/composition"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
	"github.com/jhoicas/Inventario-pallets/pkg/metrics"
)

// PlannerUseCase resuelve pallet, productos y empaques contra los catálogos y ejecuta el planificador puro.
type PlannerUseCase struct {
	productRepo   repository.ProductRepository
	palletRepo    repository.PalletRepository
	packagingRepo repository.PackagingTypeRepository
	opts          domcomposition.Options
	metrics       *metrics.Recorder
}

// NewPlannerUseCase construye el caso de uso. metrics puede ser nil.
func NewPlannerUseCase(
	productRepo repository.ProductRepository,
	palletRepo repository.PalletRepository,
	packagingRepo repository.PackagingTypeRepository,
	opts domcomposition.Options,
	rec *metrics.Recorder,
) *PlannerUseCase {
	return &PlannerUseCase{
		productRepo:   productRepo,
		palletRepo:    palletRepo,
		packagingRepo: packagingRepo,
		opts:          opts,
		metrics:       rec,
	}
}

// CalculateOptimalComposition calcula el resultado completo (métricas, capas, distribución, recomendaciones).
func (uc *PlannerUseCase) CalculateOptimalComposition(ctx context.Context, in dto.CalculateCompositionRequest) (*entity.CompositionResult, error) {
	started := time.Now()
	input, err := uc.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	res := domcomposition.Plan(*input)
	uc.metrics.Plan(started, res.Efficiency, res.IsValid)
	return res, nil
}

// ValidateCompositionConstraints versión de solo lectura: validez, violaciones, advertencias y métricas.
func (uc *PlannerUseCase) ValidateCompositionConstraints(ctx context.Context, in dto.CalculateCompositionRequest) (*dto.ValidateCompositionResponse, error) {
	res, err := uc.CalculateOptimalComposition(ctx, in)
	if err != nil {
		return nil, err
	}
	return &dto.ValidateCompositionResponse{
		IsValid:    res.IsValid,
		PalletID:   res.PalletID,
		Violations: res.Violations,
		Warnings:   res.Warnings,
		Metrics: dto.ValidationMetrics{
			Efficiency: res.Efficiency,
			Weight:     res.Weight,
			Volume:     res.Volume,
			Height:     res.Height,
			Layers:     res.Layout.Layers,
			TotalItems: res.Layout.TotalItems,
		},
	}, nil
}

func (uc *PlannerUseCase) resolve(ctx context.Context, in dto.CalculateCompositionRequest) (*domcomposition.Input, error) {
	if len(in.Products) == 0 {
		return nil, fmt.Errorf("products no puede estar vacío: %w", domain.ErrInvalidInput)
	}

	pallet, err := uc.resolvePallet(ctx, in.PalletID)
	if err != nil {
		return nil, err
	}

	input := &domcomposition.Input{Pallet: *pallet, Options: uc.opts, Items: make([]domcomposition.ItemSpec, 0, len(in.Products))}
	if in.Constraints != nil {
		input.Constraints = domcomposition.Constraints{
			MaxWeight: in.Constraints.MaxWeight,
			MaxHeight: in.Constraints.MaxHeight,
			MaxVolume: in.Constraints.MaxVolume,
		}
	}

	for _, item := range in.Products {
		if item.ProductID == "" {
			return nil, fmt.Errorf("product_id requerido: %w", domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("producto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		spec := domcomposition.ItemSpec{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			Unit:        product.Dimensions,
		}
		if item.PackagingTypeID != nil && *item.PackagingTypeID != "" {
			p, err := uc.packagingRepo.GetByID(ctx, *item.PackagingTypeID)
			if err != nil {
				return nil, err
			}
			if p == nil || !p.IsActive {
				return nil, fmt.Errorf("tipo de empaque %s: %w", *item.PackagingTypeID, domain.ErrNotFound)
			}
			if p.ProductID != product.ID {
				return nil, fmt.Errorf("el empaque %s no pertenece al producto %s: %w", p.ID, product.ID, domain.ErrInvalidInput)
			}
			spec.Packaging = p
		}
		input.Items = append(input.Items, spec)
	}
	return input, nil
}

func (uc *PlannerUseCase) resolvePallet(ctx context.Context, palletID string) (*entity.Pallet, error) {
	if palletID != "" {
		p, err := uc.palletRepo.GetByID(ctx, palletID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("pallet %s: %w", palletID, domain.ErrNotFound)
		}
		return p, nil
	}
	p, err := uc.palletRepo.GetFirstAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("no hay pallets disponibles: %w", domain.ErrNotFound)
	}
	return p, nil
}
