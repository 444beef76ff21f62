package packaging_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/packaging"
)

func strPtr(s string) *string { return &s }

func pkg(id string, level int, qty int64, parent string) *entity.PackagingType {
	p := &entity.PackagingType{
		ID:               id,
		ProductID:        "prod-1",
		Name:             id,
		Level:            level,
		BaseUnitQuantity: decimal.NewFromInt(qty),
		IsBaseUnit:       level == 0,
		IsActive:         true,
	}
	if parent != "" {
		p.ParentPackagingID = strPtr(parent)
	}
	return p
}

// unidad(×1) / caja(×12) / corrugado(×144)
func standardTree() []*entity.PackagingType {
	return []*entity.PackagingType{
		pkg("case", 2, 144, "box"),
		pkg("unit", 0, 1, ""),
		pkg("box", 1, 12, "unit"),
	}
}

func TestBuildHierarchy(t *testing.T) {
	h := packaging.BuildHierarchy("prod-1", standardTree())

	require.Len(t, h.Roots, 1)
	assert.Equal(t, "unit", h.Roots[0].Packaging.ID)
	require.Len(t, h.Roots[0].Children, 1)
	assert.Equal(t, "box", h.Roots[0].Children[0].Packaging.ID)
	require.Len(t, h.Roots[0].Children[0].Children, 1)
	assert.Equal(t, "case", h.Roots[0].Children[0].Children[0].Packaging.ID)

	assert.Equal(t, 3, h.Len())
	require.NotNil(t, h.BaseUnit())
	assert.Equal(t, "unit", h.BaseUnit().ID)
	assert.NotNil(t, h.Find("box"))
	assert.Nil(t, h.Find("nope"))

	flat := h.Flatten()
	require.Len(t, flat, 3)
	assert.Equal(t, []string{"unit", "box", "case"}, []string{flat[0].ID, flat[1].ID, flat[2].ID})
}

func TestBuildHierarchy_IgnoraInactivosYPadresInvalidos(t *testing.T) {
	types := standardTree()
	types[2].IsActive = false // box inactiva: case queda huérfana
	// ciclo: dos nodos que se apuntan entre sí con el mismo nivel
	a := pkg("a", 3, 10, "b")
	b := pkg("b", 3, 10, "a")
	types = append(types, a, b)

	h := packaging.BuildHierarchy("prod-1", types)

	assert.Nil(t, h.Find("box"))
	ids := []string{}
	for _, r := range h.Roots {
		ids = append(ids, r.Packaging.ID)
	}
	assert.ElementsMatch(t, []string{"unit", "case", "a", "b"}, ids)
}

func TestBuildHierarchy_SinUnidadBase(t *testing.T) {
	h := packaging.BuildHierarchy("prod-1", []*entity.PackagingType{pkg("box", 1, 12, "")})
	assert.Nil(t, h.BaseUnit())
}

func TestConversion_RoundTrip(t *testing.T) {
	odd := pkg("odd", 1, 1, "")
	odd.BaseUnitQuantity = decimal.RequireFromString("7.3")
	types := append(standardTree(), odd)

	quantities := []string{"0", "1", "3", "10.5", "123456.789", "0.001"}
	for _, p := range types {
		for _, qs := range quantities {
			q := decimal.RequireFromString(qs)
			base, err := packaging.ToBaseUnits(q, p)
			require.NoError(t, err)
			back, err := packaging.FromBaseUnits(base, p)
			require.NoError(t, err)
			diff := back.Sub(q).Abs()
			tol := decimal.RequireFromString("0.001").Mul(decimal.Max(q.Abs(), decimal.NewFromInt(1)))
			assert.True(t, diff.LessThanOrEqual(tol), "round trip %s en %s dio %s", qs, p.ID, back)
		}
	}
}

func TestConversionFactor_Reciproco(t *testing.T) {
	third := pkg("third", 1, 3, "")
	types := append(standardTree(), third)
	one := decimal.NewFromInt(1)
	tol := decimal.RequireFromString("0.001")

	for _, a := range types {
		for _, b := range types {
			ab, err := packaging.ConversionFactor(a, b)
			require.NoError(t, err)
			ba, err := packaging.ConversionFactor(b, a)
			require.NoError(t, err)
			assert.True(t, ab.Mul(ba).Sub(one).Abs().LessThanOrEqual(tol), "%s/%s", a.ID, b.ID)
		}
	}

	f, err := packaging.ConversionFactor(types[0], types[2]) // case -> box
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.NewFromInt(12)))
}

func TestConversion_Errores(t *testing.T) {
	_, err := packaging.ToBaseUnits(decimal.NewFromInt(1), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := pkg("bad", 1, 0, "")
	_, err = packaging.FromBaseUnits(decimal.NewFromInt(1), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWholePackages(t *testing.T) {
	box := pkg("box", 1, 12, "")
	assert.Equal(t, int64(8), packaging.WholePackages(decimal.NewFromInt(106), box))
	assert.Equal(t, int64(0), packaging.WholePackages(decimal.NewFromInt(11), box))
	assert.Equal(t, int64(0), packaging.WholePackages(decimal.NewFromInt(-24), box))
}

func TestValidateNewPackaging(t *testing.T) {
	existing := standardTree()

	cases := []struct {
		name    string
		cand    *entity.PackagingType
		wantErr error
	}{
		{"pallet válido", pkg("pallet", 3, 1440, "case"), nil},
		{"segunda unidad base", pkg("unit2", 0, 1, ""), domain.ErrConflict},
		{"multiplicador cero", pkg("x", 3, 0, "case"), domain.ErrInvalidInput},
		{"nivel no mayor que el padre", pkg("x", 1, 24, "box"), domain.ErrInvalidInput},
		{"padre inexistente", pkg("x", 3, 24, "ghost"), domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := packaging.ValidateNewPackaging(tc.cand, existing)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("unidad base con multiplicador distinto de 1", func(t *testing.T) {
		cand := pkg("u", 0, 2, "")
		assert.ErrorIs(t, packaging.ValidateNewPackaging(cand, nil), domain.ErrInvalidInput)
	})

	t.Run("código de barras duplicado", func(t *testing.T) {
		withCode := standardTree()
		withCode[2].Barcode = strPtr("7701234567890")
		cand := pkg("pallet", 3, 1440, "case")
		cand.Barcode = strPtr("7701234567890")
		assert.ErrorIs(t, packaging.ValidateNewPackaging(cand, withCode), domain.ErrConflict)
	})
}
