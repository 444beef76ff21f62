package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

func TestPgErrorCodes(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("3f1c2a8e-6d0b-4b8e-9a57-2f4c1d9e7b10"))
	assert.False(t, isUUID("abc"))
	assert.False(t, isUUID(""))
}

func TestMarshalNullable(t *testing.T) {
	var none *entity.Assembly
	b, err := marshalNullable(none)
	require.NoError(t, err)
	assert.Nil(t, b, "nil se guarda como NULL")

	b, err = marshalNullable(&entity.Assembly{Multiplier: 2, Withdrawals: []entity.StockWithdrawal{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"multiplier":2,"withdrawals":[]}`, string(b))
}
