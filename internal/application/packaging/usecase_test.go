package packaging_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	apppackaging "github.com/jhoicas/Inventario-pallets/internal/application/packaging"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakePackagingRepo struct {
	mu    sync.Mutex
	items map[string]*entity.PackagingType
}

func newFakePackagingRepo(types ...*entity.PackagingType) *fakePackagingRepo {
	r := &fakePackagingRepo{items: map[string]*entity.PackagingType{}}
	for _, t := range types {
		r.items[t.ID] = t
	}
	return r
}

func (r *fakePackagingRepo) Create(_ context.Context, p *entity.PackagingType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[p.ID] = p
	return nil
}

func (r *fakePackagingRepo) GetByID(_ context.Context, id string) (*entity.PackagingType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *fakePackagingRepo) GetByBarcode(_ context.Context, barcode string) (*entity.PackagingType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.IsActive && p.Barcode != nil && *p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakePackagingRepo) ListActiveByProduct(_ context.Context, productID string) ([]*entity.PackagingType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PackagingType
	for _, p := range r.items {
		if p.IsActive && p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeInventoryRepo struct {
	records []*entity.InventoryRecord
}

func (r *fakeInventoryRepo) ListActiveByProduct(_ context.Context, productID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.records {
		if rec.IsActive && rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) ListActiveByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	return r.ListActiveByProduct(ctx, productID)
}

func (r *fakeInventoryRepo) Decrement(context.Context, string, decimal.Decimal) error { return nil }

func (r *fakeInventoryRepo) Increment(context.Context, string, string, string, decimal.Decimal) error {
	return nil
}

func strPtr(s string) *string { return &s }

func packagingType(id string, level int, qty int64, parent string) *entity.PackagingType {
	p := &entity.PackagingType{
		ID: id, ProductID: "prod-1", Name: id, Level: level,
		BaseUnitQuantity: decimal.NewFromInt(qty), IsBaseUnit: level == 0, IsActive: true,
	}
	if parent != "" {
		p.ParentPackagingID = strPtr(parent)
	}
	return p
}

func seededRepo() *fakePackagingRepo {
	return newFakePackagingRepo(
		packagingType("unit", 0, 1, ""),
		packagingType("box", 1, 12, "unit"),
		packagingType("case", 2, 144, "box"),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// PackagingUseCase
// ──────────────────────────────────────────────────────────────────────────────

func TestPackagingUseCase_GetHierarchy(t *testing.T) {
	uc := apppackaging.NewPackagingUseCase(seededRepo())

	out, err := uc.GetHierarchy(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	require.Len(t, out.Roots, 1)
	assert.Equal(t, "unit", out.Roots[0].ID)
	require.Len(t, out.Roots[0].Children, 1)
	assert.Equal(t, "case", out.Roots[0].Children[0].Children[0].ID)
}

func TestPackagingUseCase_GetBaseUnit(t *testing.T) {
	uc := apppackaging.NewPackagingUseCase(seededRepo())

	base, err := uc.GetBaseUnit(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, "unit", base.ID)

	_, err = uc.GetBaseUnit(context.Background(), "sin-empaques")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPackagingUseCase_Conversiones(t *testing.T) {
	uc := apppackaging.NewPackagingUseCase(seededRepo())
	ctx := context.Background()

	base, err := uc.ConvertToBaseUnits(ctx, decimal.NewFromInt(3), "case")
	require.NoError(t, err)
	assert.True(t, base.Equal(decimal.NewFromInt(432)))

	boxes, err := uc.ConvertFromBaseUnits(ctx, decimal.NewFromInt(30), "box")
	require.NoError(t, err)
	assert.True(t, boxes.Equal(decimal.RequireFromString("2.5")))

	factor, err := uc.CalculateConversionFactor(ctx, "box", "case")
	require.NoError(t, err)
	assert.True(t, factor.Mul(decimal.NewFromInt(12)).Sub(decimal.NewFromInt(1)).Abs().LessThan(decimal.RequireFromString("0.001")))

	_, err = uc.ConvertToBaseUnits(ctx, decimal.NewFromInt(1), "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPackagingUseCase_Convert(t *testing.T) {
	uc := apppackaging.NewPackagingUseCase(seededRepo())
	ctx := context.Background()

	out, err := uc.Convert(ctx, dto.ConvertRequest{Quantity: decimal.NewFromInt(2), FromPackagingID: "case", ToPackagingID: "box"})
	require.NoError(t, err)
	assert.True(t, out.BaseUnits.Equal(decimal.NewFromInt(288)))
	assert.True(t, out.Result.Equal(decimal.NewFromInt(24)))
	require.NotNil(t, out.Factor)
	assert.True(t, out.Factor.Equal(decimal.NewFromInt(12)))

	_, err = uc.Convert(ctx, dto.ConvertRequest{Quantity: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPackagingUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("segunda unidad base es conflicto", func(t *testing.T) {
		uc := apppackaging.NewPackagingUseCase(seededRepo())
		_, err := uc.Create(ctx, dto.CreatePackagingTypeRequest{
			ProductID: "prod-1", Name: "Unidad 2", Level: 0,
			BaseUnitQuantity: decimal.NewFromInt(1), IsBaseUnit: true,
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("código de barras usado por otro producto", func(t *testing.T) {
		other := packagingType("other-unit", 0, 1, "")
		other.ProductID = "prod-2"
		other.Barcode = strPtr("7700000000017")
		repo := seededRepo()
		repo.items[other.ID] = other
		uc := apppackaging.NewPackagingUseCase(repo)

		_, err := uc.Create(ctx, dto.CreatePackagingTypeRequest{
			ProductID: "prod-1", Name: "Pallet", Level: 3, BaseUnitQuantity: decimal.NewFromInt(1440),
			ParentPackagingID: strPtr("case"), Barcode: strPtr("7700000000017"),
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("válido", func(t *testing.T) {
		repo := seededRepo()
		uc := apppackaging.NewPackagingUseCase(repo)
		out, err := uc.Create(ctx, dto.CreatePackagingTypeRequest{
			ProductID: "prod-1", Name: " Pallet ", Level: 3, BaseUnitQuantity: decimal.NewFromInt(1440),
			ParentPackagingID: strPtr("case"), Barcode: strPtr(""),
			Dimensions: &dto.DimensionsDTO{Width: 120, Length: 100, Height: 140, Weight: 600},
		})
		require.NoError(t, err)
		assert.Equal(t, "Pallet", out.Name)
		assert.Nil(t, out.Barcode)
		assert.True(t, out.IsActive)
		require.NotNil(t, out.Dimensions)
		assert.Len(t, repo.items, 4)
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// StockUseCase + PickingUseCase
// ──────────────────────────────────────────────────────────────────────────────

func rec(id, packagingID, location string, qty int64) *entity.InventoryRecord {
	return &entity.InventoryRecord{ID: id, ProductID: "prod-1", PackagingTypeID: packagingID, LocationID: location, Quantity: decimal.NewFromInt(qty), IsActive: true}
}

func TestStockUseCase(t *testing.T) {
	inv := &fakeInventoryRepo{records: []*entity.InventoryRecord{
		rec("r1", "unit", "A-01", 1000),
		rec("r2", "box", "A-01", 240),
		rec("r3", "case", "B-01", 288),
	}}
	uc := apppackaging.NewStockUseCase(seededRepo(), inv)

	cons, err := uc.GetStockConsolidated(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.True(t, cons.TotalBaseUnits.Equal(decimal.NewFromInt(1528)))
	assert.Equal(t, 2, cons.Locations)
	assert.Equal(t, 3, cons.Records)

	byPkg, err := uc.GetStockByPackagingResponse(context.Background(), "prod-1")
	require.NoError(t, err)
	require.Len(t, byPkg.Items, 3)
	assert.Equal(t, int64(1000), byPkg.Items[0].AvailablePackages)
	assert.Equal(t, int64(20), byPkg.Items[1].AvailablePackages)
	assert.Equal(t, int64(2), byPkg.Items[2].AvailablePackages)
}

func TestPickingUseCase_OptimizePickingByPackaging(t *testing.T) {
	inv := &fakeInventoryRepo{records: []*entity.InventoryRecord{
		rec("r1", "unit", "A-01", 1000),
		rec("r2", "box", "A-01", 240),
		rec("r3", "case", "B-01", 288),
	}}
	uc := apppackaging.NewPickingUseCase(apppackaging.NewStockUseCase(seededRepo(), inv))
	ctx := context.Background()

	plan, err := uc.OptimizePickingByPackaging(ctx, "prod-1", decimal.NewFromInt(250))
	require.NoError(t, err)
	require.Len(t, plan.PickingPlan, 3)
	assert.Equal(t, "case", plan.PickingPlan[0].PackagingTypeID)
	assert.Equal(t, int64(1), plan.PickingPlan[0].Quantity)
	assert.Equal(t, int64(8), plan.PickingPlan[1].Quantity)
	assert.Equal(t, int64(10), plan.PickingPlan[2].Quantity)
	assert.True(t, plan.CanFulfill)

	again, err := uc.OptimizePickingByPackaging(ctx, "prod-1", decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.Equal(t, plan, again)

	zero, err := uc.OptimizePickingByPackaging(ctx, "prod-1", decimal.Zero)
	require.NoError(t, err)
	assert.Empty(t, zero.PickingPlan)
	assert.True(t, zero.CanFulfill)
	assert.True(t, zero.Remaining.IsZero())

	_, err = uc.OptimizePickingByPackaging(ctx, "sin-empaques", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
