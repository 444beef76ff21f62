package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

var _ repository.PackagingTypeRepository = (*PackagingTypeRepo)(nil)

// PackagingTypeRepo implementación de PackagingTypeRepository sobre PostgreSQL.
// Las medidas del paquete son opcionales: columnas NULL => Dimensions nil.
type PackagingTypeRepo struct {
	q Querier
}

// NewPackagingTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPackagingTypeRepository(q Querier) *PackagingTypeRepo {
	return &PackagingTypeRepo{q: q}
}

const packagingColumns = `id, product_id, name, level, base_unit_quantity, is_base_unit, parent_packaging_id, barcode,
		width, length, height, weight, is_active, created_at, updated_at`

// Create persiste un tipo de empaque. Los índices únicos parciales (una unidad base activa por
// producto, barcode activo único) se traducen a ErrDuplicate.
func (r *PackagingTypeRepo) Create(ctx context.Context, p *entity.PackagingType) error {
	query := `
		INSERT INTO packaging_types (` + packagingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	var width, length, height, weight *float64
	if d := p.Dimensions; d != nil {
		width, length, height, weight = &d.Width, &d.Length, &d.Height, &d.Weight
	}
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ProductID, p.Name, p.Level, p.BaseUnitQuantity, p.IsBaseUnit, p.ParentPackagingID, p.Barcode,
		width, length, height, weight, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto o empaque padre inexistente: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert packaging type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo de empaque (activo o no). nil si no existe.
func (r *PackagingTypeRepo) GetByID(ctx context.Context, id string) (*entity.PackagingType, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanPackaging(r.q.QueryRow(ctx, `SELECT `+packagingColumns+` FROM packaging_types WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get packaging type: %w", err)
	}
	return p, nil
}

// GetByBarcode busca un tipo activo por código de barras. nil si no existe.
func (r *PackagingTypeRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.PackagingType, error) {
	query := `SELECT ` + packagingColumns + ` FROM packaging_types WHERE barcode = $1 AND is_active`
	p, err := scanPackaging(r.q.QueryRow(ctx, query, barcode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get packaging type by barcode: %w", err)
	}
	return p, nil
}

// ListActiveByProduct lista los tipos activos de un producto por nivel.
func (r *PackagingTypeRepo) ListActiveByProduct(ctx context.Context, productID string) ([]*entity.PackagingType, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	query := `
		SELECT ` + packagingColumns + `
		FROM packaging_types WHERE product_id = $1 AND is_active
		ORDER BY level, id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list packaging types: %w", err)
	}
	defer rows.Close()
	var list []*entity.PackagingType
	for rows.Next() {
		p, err := scanPackaging(rows)
		if err != nil {
			return nil, fmt.Errorf("scan packaging type: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPackaging(row pgx.Row) (*entity.PackagingType, error) {
	var p entity.PackagingType
	var width, length, height, weight *float64
	if err := row.Scan(
		&p.ID, &p.ProductID, &p.Name, &p.Level, &p.BaseUnitQuantity, &p.IsBaseUnit, &p.ParentPackagingID, &p.Barcode,
		&width, &length, &height, &weight, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if width != nil && length != nil && height != nil {
		p.Dimensions = &entity.Dimensions{Width: *width, Length: *length, Height: *height}
		if weight != nil {
			p.Dimensions.Weight = *weight
		}
	}
	return &p, nil
}
