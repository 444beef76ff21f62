package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
)

var _ repository.PalletRepository = (*PalletRepo)(nil)

// PalletRepo lectura del catálogo de pallets sobre PostgreSQL.
type PalletRepo struct {
	q Querier
}

// NewPalletRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPalletRepository(q Querier) *PalletRepo {
	return &PalletRepo{q: q}
}

const palletColumns = `id, name, status, width, length, height, max_weight, created_at`

// GetByID obtiene un pallet por ID. nil si no existe.
func (r *PalletRepo) GetByID(ctx context.Context, id string) (*entity.Pallet, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanPallet(r.q.QueryRow(ctx, `SELECT `+palletColumns+` FROM pallets WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get pallet: %w", err)
	}
	return p, nil
}

// GetFirstAvailable primer pallet disponible (orden de alta, luego id).
func (r *PalletRepo) GetFirstAvailable(ctx context.Context) (*entity.Pallet, error) {
	query := `SELECT ` + palletColumns + ` FROM pallets WHERE status = $1 ORDER BY created_at, id LIMIT 1`
	p, err := scanPallet(r.q.QueryRow(ctx, query, entity.PalletStatusAvailable))
	if err != nil {
		return nil, fmt.Errorf("get first available pallet: %w", err)
	}
	return p, nil
}

func scanPallet(row pgx.Row) (*entity.Pallet, error) {
	var p entity.Pallet
	err := row.Scan(&p.ID, &p.Name, &p.Status, &p.Width, &p.Length, &p.Height, &p.MaxWeight, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
