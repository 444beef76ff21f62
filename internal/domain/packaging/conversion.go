package packaging

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// DivisionPrecision dígitos decimales usados al dividir por un multiplicador.
const DivisionPrecision int32 = 16

// ToBaseUnits convierte paquetes de un tipo a unidades base: quantity × BaseUnitQuantity.
func ToBaseUnits(quantity decimal.Decimal, p *entity.PackagingType) (decimal.Decimal, error) {
	if err := checkMultiplier(p); err != nil {
		return decimal.Zero, err
	}
	return quantity.Mul(p.BaseUnitQuantity), nil
}

// FromBaseUnits convierte unidades base a paquetes del tipo destino: base / BaseUnitQuantity.
func FromBaseUnits(base decimal.Decimal, p *entity.PackagingType) (decimal.Decimal, error) {
	if err := checkMultiplier(p); err != nil {
		return decimal.Zero, err
	}
	return base.DivRound(p.BaseUnitQuantity, DivisionPrecision), nil
}

// ConversionFactor cuántos paquetes "to" equivalen a un paquete "from".
func ConversionFactor(from, to *entity.PackagingType) (decimal.Decimal, error) {
	if err := checkMultiplier(from); err != nil {
		return decimal.Zero, err
	}
	if err := checkMultiplier(to); err != nil {
		return decimal.Zero, err
	}
	return from.BaseUnitQuantity.DivRound(to.BaseUnitQuantity, DivisionPrecision), nil
}

// WholePackages paquetes completos del tipo p que caben en base unidades (división entera, hacia abajo).
func WholePackages(base decimal.Decimal, p *entity.PackagingType) int64 {
	if p == nil || !p.BaseUnitQuantity.IsPositive() || !base.IsPositive() {
		return 0
	}
	q, _ := base.QuoRem(p.BaseUnitQuantity, 0)
	return q.IntPart()
}

func checkMultiplier(p *entity.PackagingType) error {
	if p == nil {
		return fmt.Errorf("tipo de empaque: %w", domain.ErrNotFound)
	}
	if !p.BaseUnitQuantity.IsPositive() {
		return fmt.Errorf("tipo de empaque %s con multiplicador %s: %w", p.ID, p.BaseUnitQuantity, domain.ErrInvalidInput)
	}
	return nil
}
