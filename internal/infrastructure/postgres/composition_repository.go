package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

var _ repository.CompositionRepository = (*CompositionRepo)(nil)

// CompositionRepo composiciones (result y assembly como JSONB) e ítems sobre PostgreSQL.
type CompositionRepo struct {
	q Querier
}

// NewCompositionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompositionRepository(q Querier) *CompositionRepo {
	return &CompositionRepo{q: q}
}

const compositionColumns = `id, name, status, pallet_id, result, assembly, is_active, created_by, created_at,
		approved_by, approved_at, executed_by, executed_at, updated_at`

// Create inserta la composición y sus ítems en una transacción (savepoint si ya se está en una).
func (r *CompositionRepo) Create(ctx context.Context, c *entity.Composition) error {
	result, err := marshalNullable(c.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	assembly, err := marshalNullable(c.Assembly)
	if err != nil {
		return fmt.Errorf("marshal assembly: %w", err)
	}

	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO compositions (`+compositionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			c.ID, c.Name, c.Status, c.PalletID, result, assembly, c.IsActive, c.CreatedBy, c.CreatedAt,
			c.ApprovedBy, c.ApprovedAt, c.ExecutedBy, c.ExecutedAt, c.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			if isForeignKeyViolation(err) {
				return fmt.Errorf("pallet %s: %w", c.PalletID, domain.ErrNotFound)
			}
			return fmt.Errorf("insert composition: %w", err)
		}
		for _, it := range c.Items {
			_, err := tx.Exec(ctx, `
				INSERT INTO composition_items (id, composition_id, product_id, quantity, packaging_type_id, is_active)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				it.ID, c.ID, it.ProductID, it.Quantity, it.PackagingTypeID, it.IsActive,
			)
			if err != nil {
				if isForeignKeyViolation(err) {
					return fmt.Errorf("producto %s: %w", it.ProductID, domain.ErrNotFound)
				}
				return fmt.Errorf("insert composition item: %w", err)
			}
		}
		return nil
	})
}

// GetByID composición activa con sus ítems activos. nil si no existe o está eliminada.
func (r *CompositionRepo) GetByID(ctx context.Context, id string) (*entity.Composition, error) {
	return r.get(ctx, `SELECT `+compositionColumns+` FROM compositions WHERE id = $1 AND is_active`, id)
}

// GetByIDForUpdate igual que GetByID bloqueando la fila de la composición.
func (r *CompositionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Composition, error) {
	return r.get(ctx, `SELECT `+compositionColumns+` FROM compositions WHERE id = $1 AND is_active FOR UPDATE`, id)
}

// List composiciones activas, más recientes primero; status vacío = todas.
func (r *CompositionRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.Composition, error) {
	query := `
		SELECT ` + compositionColumns + `
		FROM compositions WHERE is_active AND ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	var list []*entity.Composition
	for rows.Next() {
		c, err := scanComposition(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan composition: %w", err)
		}
		list = append(list, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compositions: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	ids := make([]string, len(list))
	byID := make(map[string]*entity.Composition, len(list))
	for i, c := range list {
		ids[i] = c.ID
		byID[c.ID] = c
	}
	items, err := r.items(ctx, `composition_id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		c := byID[it.CompositionID]
		c.Items = append(c.Items, it)
	}
	return list, nil
}

// UpdateStatus persiste el estado, los datos de aprobación/ejecución y el registro de armado.
func (r *CompositionRepo) UpdateStatus(ctx context.Context, c *entity.Composition) error {
	assembly, err := marshalNullable(c.Assembly)
	if err != nil {
		return fmt.Errorf("marshal assembly: %w", err)
	}
	query := `
		UPDATE compositions SET status = $2, approved_by = $3, approved_at = $4, executed_by = $5,
			executed_at = $6, assembly = $7, updated_at = $8
		WHERE id = $1 AND is_active`
	cmd, err := r.q.Exec(ctx, query, c.ID, c.Status, c.ApprovedBy, c.ApprovedAt, c.ExecutedBy,
		c.ExecutedAt, assembly, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update composition status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("composición %s: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

// SoftDelete marca la composición y sus ítems como inactivos.
func (r *CompositionRepo) SoftDelete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `UPDATE compositions SET is_active = false, updated_at = now() WHERE id = $1 AND is_active`, id)
		if err != nil {
			return fmt.Errorf("soft delete composition: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return fmt.Errorf("composición %s: %w", id, domain.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, `UPDATE composition_items SET is_active = false WHERE composition_id = $1`, id); err != nil {
			return fmt.Errorf("soft delete composition items: %w", err)
		}
		return nil
	})
}

func (r *CompositionRepo) get(ctx context.Context, query, id string) (*entity.Composition, error) {
	if !isUUID(id) {
		return nil, nil
	}
	c, err := scanComposition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get composition: %w", err)
	}
	c.Items, err = r.items(ctx, `composition_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CompositionRepo) items(ctx context.Context, where string, arg any) ([]entity.CompositionItem, error) {
	query := `
		SELECT id, composition_id, product_id, quantity, packaging_type_id, is_active
		FROM composition_items WHERE ` + where + ` AND is_active
		ORDER BY composition_id, product_id, id`
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list composition items: %w", err)
	}
	defer rows.Close()
	var list []entity.CompositionItem
	for rows.Next() {
		var it entity.CompositionItem
		if err := rows.Scan(&it.ID, &it.CompositionID, &it.ProductID, &it.Quantity, &it.PackagingTypeID, &it.IsActive); err != nil {
			return nil, fmt.Errorf("scan composition item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanComposition(row pgx.Row) (*entity.Composition, error) {
	var c entity.Composition
	var result, assembly []byte
	if err := row.Scan(
		&c.ID, &c.Name, &c.Status, &c.PalletID, &result, &assembly, &c.IsActive, &c.CreatedBy, &c.CreatedAt,
		&c.ApprovedBy, &c.ApprovedAt, &c.ExecutedBy, &c.ExecutedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	// Un JSON corrupto deja Result en nil; el reporte lo trata como resultado no utilizable.
	if len(result) > 0 {
		var res entity.CompositionResult
		if json.Unmarshal(result, &res) == nil {
			c.Result = &res
		}
	}
	if len(assembly) > 0 {
		var a entity.Assembly
		if err := json.Unmarshal(assembly, &a); err != nil {
			return nil, fmt.Errorf("unmarshal assembly: %w", err)
		}
		c.Assembly = &a
	}
	return &c, nil
}

// marshalNullable JSON del valor o nil (NULL en la columna) si el puntero es nil.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
