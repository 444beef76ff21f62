package packaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	dompackaging "github.com/jhoicas/Inventario-pallets/internal/domain/packaging"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

// PackagingUseCase jerarquía de empaques y conversión de unidades.
type PackagingUseCase struct {
	repo repository.PackagingTypeRepository
}

// NewPackagingUseCase construye el caso de uso.
func NewPackagingUseCase(repo repository.PackagingTypeRepository) *PackagingUseCase {
	return &PackagingUseCase{repo: repo}
}

// Create registra un tipo de empaque verificando las invariantes del árbol:
// una sola unidad base por producto, código de barras único entre activos, nivel mayor que el del padre.
func (uc *PackagingUseCase) Create(ctx context.Context, in dto.CreatePackagingTypeRequest) (*dto.PackagingTypeResponse, error) {
	existing, err := uc.repo.ListActiveByProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.PackagingType{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		Name:              strings.TrimSpace(in.Name),
		Level:             in.Level,
		BaseUnitQuantity:  in.BaseUnitQuantity,
		IsBaseUnit:        in.IsBaseUnit,
		ParentPackagingID: emptyToNil(in.ParentPackagingID),
		Barcode:           emptyToNil(in.Barcode),
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.Dimensions != nil {
		p.Dimensions = &entity.Dimensions{
			Width: in.Dimensions.Width, Length: in.Dimensions.Length,
			Height: in.Dimensions.Height, Weight: in.Dimensions.Weight,
		}
	}
	if err := dompackaging.ValidateNewPackaging(p, existing); err != nil {
		return nil, err
	}
	if p.Barcode != nil {
		other, err := uc.repo.GetByBarcode(ctx, *p.Barcode)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("código de barras %s ya usado por %s: %w", *p.Barcode, other.ID, domain.ErrConflict)
		}
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("tipo de empaque duplicado: %w", domain.ErrConflict)
		}
		return nil, err
	}
	return toPackagingResponse(p), nil
}

// GetHierarchy arma el árbol de empaques activos del producto.
func (uc *PackagingUseCase) GetHierarchy(ctx context.Context, productID string) (*dto.PackagingHierarchyResponse, error) {
	types, err := uc.repo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	h := dompackaging.BuildHierarchy(productID, types)
	out := &dto.PackagingHierarchyResponse{ProductID: productID, Total: h.Len(), Roots: make([]dto.PackagingNodeResponse, 0, len(h.Roots))}
	for _, r := range h.Roots {
		out.Roots = append(out.Roots, toNodeResponse(r))
	}
	return out, nil
}

// GetBaseUnit devuelve la unidad base del producto o ErrNotFound.
func (uc *PackagingUseCase) GetBaseUnit(ctx context.Context, productID string) (*entity.PackagingType, error) {
	types, err := uc.repo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	base := dompackaging.BuildHierarchy(productID, types).BaseUnit()
	if base == nil {
		return nil, fmt.Errorf("unidad base del producto %s: %w", productID, domain.ErrNotFound)
	}
	return base, nil
}

// GetBaseUnitResponse igual que GetBaseUnit, como DTO.
func (uc *PackagingUseCase) GetBaseUnitResponse(ctx context.Context, productID string) (*dto.PackagingTypeResponse, error) {
	base, err := uc.GetBaseUnit(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toPackagingResponse(base), nil
}

// GetByBarcode busca un tipo de empaque activo por código de barras.
func (uc *PackagingUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.PackagingTypeResponse, error) {
	p, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("código de barras %s: %w", barcode, domain.ErrNotFound)
	}
	return toPackagingResponse(p), nil
}

// ConvertToBaseUnits quantity × multiplicador del tipo de empaque.
func (uc *PackagingUseCase) ConvertToBaseUnits(ctx context.Context, quantity decimal.Decimal, packagingTypeID string) (decimal.Decimal, error) {
	p, err := uc.packagingType(ctx, packagingTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	return dompackaging.ToBaseUnits(quantity, p)
}

// ConvertFromBaseUnits unidades base / multiplicador del tipo destino.
func (uc *PackagingUseCase) ConvertFromBaseUnits(ctx context.Context, baseQuantity decimal.Decimal, targetPackagingID string) (decimal.Decimal, error) {
	p, err := uc.packagingType(ctx, targetPackagingID)
	if err != nil {
		return decimal.Zero, err
	}
	return dompackaging.FromBaseUnits(baseQuantity, p)
}

// CalculateConversionFactor multiplicador(from) / multiplicador(to).
func (uc *PackagingUseCase) CalculateConversionFactor(ctx context.Context, fromID, toID string) (decimal.Decimal, error) {
	from, err := uc.packagingType(ctx, fromID)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := uc.packagingType(ctx, toID)
	if err != nil {
		return decimal.Zero, err
	}
	return dompackaging.ConversionFactor(from, to)
}

// Convert resuelve un ConvertRequest del API (a base, desde base o entre dos empaques).
func (uc *PackagingUseCase) Convert(ctx context.Context, in dto.ConvertRequest) (*dto.ConvertResponse, error) {
	out := &dto.ConvertResponse{Quantity: in.Quantity, FromPackagingID: in.FromPackagingID, ToPackagingID: in.ToPackagingID}
	switch {
	case in.FromPackagingID != "" && in.ToPackagingID != "":
		base, err := uc.ConvertToBaseUnits(ctx, in.Quantity, in.FromPackagingID)
		if err != nil {
			return nil, err
		}
		result, err := uc.ConvertFromBaseUnits(ctx, base, in.ToPackagingID)
		if err != nil {
			return nil, err
		}
		factor, err := uc.CalculateConversionFactor(ctx, in.FromPackagingID, in.ToPackagingID)
		if err != nil {
			return nil, err
		}
		out.BaseUnits, out.Result, out.Factor = base, result, &factor
	case in.FromPackagingID != "":
		base, err := uc.ConvertToBaseUnits(ctx, in.Quantity, in.FromPackagingID)
		if err != nil {
			return nil, err
		}
		out.BaseUnits, out.Result = base, base
	case in.ToPackagingID != "":
		result, err := uc.ConvertFromBaseUnits(ctx, in.Quantity, in.ToPackagingID)
		if err != nil {
			return nil, err
		}
		out.BaseUnits, out.Result = in.Quantity, result
	default:
		return nil, fmt.Errorf("from_packaging_id o to_packaging_id requerido: %w", domain.ErrInvalidInput)
	}
	return out, nil
}

func (uc *PackagingUseCase) packagingType(ctx context.Context, id string) (*entity.PackagingType, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, fmt.Errorf("tipo de empaque %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toNodeResponse(n *dompackaging.Node) dto.PackagingNodeResponse {
	out := dto.PackagingNodeResponse{PackagingTypeResponse: *toPackagingResponse(n.Packaging), Children: make([]dto.PackagingNodeResponse, 0, len(n.Children))}
	for _, c := range n.Children {
		out.Children = append(out.Children, toNodeResponse(c))
	}
	return out
}

func toPackagingResponse(p *entity.PackagingType) *dto.PackagingTypeResponse {
	if p == nil {
		return nil
	}
	out := &dto.PackagingTypeResponse{
		ID:                p.ID,
		ProductID:         p.ProductID,
		Name:              p.Name,
		Level:             p.Level,
		BaseUnitQuantity:  p.BaseUnitQuantity,
		IsBaseUnit:        p.IsBaseUnit,
		ParentPackagingID: p.ParentPackagingID,
		Barcode:           p.Barcode,
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
	}
	if p.Dimensions != nil {
		out.Dimensions = &dto.DimensionsDTO{Width: p.Dimensions.Width, Length: p.Dimensions.Length, Height: p.Dimensions.Height, Weight: p.Dimensions.Weight}
	}
	return out
}
