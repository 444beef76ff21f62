package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo stock vivo sobre PostgreSQL (usable con pool o tx).
// quantity está en unidades base; un CHECK (quantity >= 0) respalda la guarda de Decrement.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, product_id, packaging_type_id, location_id, quantity, is_active, updated_at`

// ListActiveByProduct registros activos de un producto.
func (r *InventoryRepo) ListActiveByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	return r.list(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_records WHERE product_id = $1 AND is_active
		ORDER BY location_id, id`, productID)
}

// ListActiveByProductForUpdate igual que ListActiveByProduct pero bloquea las filas (SELECT FOR UPDATE).
func (r *InventoryRepo) ListActiveByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	return r.list(ctx, `
		SELECT `+inventoryColumns+`
		FROM inventory_records WHERE product_id = $1 AND is_active
		ORDER BY location_id, id
		FOR UPDATE`, productID)
}

// Decrement resta en un solo UPDATE condicionado a que alcance; 0 filas => ErrInsufficientStock.
func (r *InventoryRepo) Decrement(ctx context.Context, recordID string, quantity decimal.Decimal) error {
	query := `
		UPDATE inventory_records SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND is_active AND quantity >= $2`
	cmd, err := r.q.Exec(ctx, query, recordID, quantity)
	if err != nil {
		return fmt.Errorf("decrement inventory: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("registro %s: %w", recordID, domain.ErrInsufficientStock)
	}
	return nil
}

// Increment suma unidades base en producto+empaque+ubicación (upsert). Reactiva el registro si estaba inactivo.
func (r *InventoryRepo) Increment(ctx context.Context, productID, packagingTypeID, locationID string, quantity decimal.Decimal) error {
	query := `
		INSERT INTO inventory_records (id, product_id, packaging_type_id, location_id, quantity, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, now())
		ON CONFLICT (product_id, packaging_type_id, location_id)
		DO UPDATE SET quantity = inventory_records.quantity + EXCLUDED.quantity, is_active = true, updated_at = now()`
	_, err := r.q.Exec(ctx, query, uuid.New().String(), productID, packagingTypeID, locationID, quantity)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto o empaque inexistente: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("increment inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) list(ctx context.Context, query, productID string) ([]*entity.InventoryRecord, error) {
	if !isUUID(productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.PackagingTypeID, &rec.LocationID,
			&rec.Quantity, &rec.IsActive, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
