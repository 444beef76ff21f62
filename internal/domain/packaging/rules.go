package packaging

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// ValidateNewPackaging verifica las invariantes del árbol antes de crear un tipo de empaque.
// existing son los tipos activos del mismo producto. La unicidad de código de barras entre productos
// la resuelve el caller contra el repositorio.
func ValidateNewPackaging(candidate *entity.PackagingType, existing []*entity.PackagingType) error {
	if candidate == nil || candidate.ProductID == "" || strings.TrimSpace(candidate.Name) == "" {
		return fmt.Errorf("product_id y name son requeridos: %w", domain.ErrInvalidInput)
	}
	if !candidate.BaseUnitQuantity.IsPositive() {
		return fmt.Errorf("base_unit_quantity debe ser > 0: %w", domain.ErrInvalidInput)
	}
	if candidate.Level < 0 {
		return fmt.Errorf("level debe ser >= 0: %w", domain.ErrInvalidInput)
	}
	if candidate.IsBaseUnit {
		if !candidate.BaseUnitQuantity.Equal(decimal.NewFromInt(1)) {
			return fmt.Errorf("la unidad base debe tener base_unit_quantity = 1: %w", domain.ErrInvalidInput)
		}
		if candidate.ParentPackagingID != nil {
			return fmt.Errorf("la unidad base no puede tener padre: %w", domain.ErrInvalidInput)
		}
	}

	byID := make(map[string]*entity.PackagingType, len(existing))
	for _, e := range existing {
		if e == nil || !e.IsActive {
			continue
		}
		byID[e.ID] = e
		if candidate.IsBaseUnit && e.IsBaseUnit {
			return fmt.Errorf("el producto %s ya tiene unidad base (%s): %w", candidate.ProductID, e.ID, domain.ErrConflict)
		}
		if candidate.Barcode != nil && e.Barcode != nil && *candidate.Barcode == *e.Barcode {
			return fmt.Errorf("código de barras %s ya registrado: %w", *candidate.Barcode, domain.ErrConflict)
		}
	}

	if candidate.ParentPackagingID != nil {
		parent, ok := byID[*candidate.ParentPackagingID]
		if !ok {
			return fmt.Errorf("empaque padre %s no existe para el producto: %w", *candidate.ParentPackagingID, domain.ErrInvalidInput)
		}
		if candidate.Level <= parent.Level {
			return fmt.Errorf("level %d debe ser mayor que el del padre (%d): %w", candidate.Level, parent.Level, domain.ErrInvalidInput)
		}
	}
	return nil
}
