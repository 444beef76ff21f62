package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pallets/internal/application/composition"
	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/application/packaging"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	domcomposition "github.com/jhoicas/Inventario-pallets/internal/domain/composition"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
	apphttp "github.com/jhoicas/Inventario-pallets/internal/interfaces/http"
	"github.com/jhoicas/Inventario-pallets/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria (un solo store para catálogo, stock y composiciones)
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu           sync.Mutex
	products     map[string]*entity.Product
	pallets      map[string]*entity.Pallet
	packaging    map[string]*entity.PackagingType
	records      []*entity.InventoryRecord
	compositions map[string]*entity.Composition
}

type productRepo struct{ s *memStore }

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.s.products[id], nil
}

type palletRepo struct{ s *memStore }

func (r palletRepo) GetByID(_ context.Context, id string) (*entity.Pallet, error) {
	return r.s.pallets[id], nil
}

func (r palletRepo) GetFirstAvailable(_ context.Context) (*entity.Pallet, error) {
	for _, p := range r.s.pallets {
		if p.Status == entity.PalletStatusAvailable {
			return p, nil
		}
	}
	return nil, nil
}

type packagingRepo struct{ s *memStore }

func (r packagingRepo) Create(_ context.Context, p *entity.PackagingType) error {
	r.s.packaging[p.ID] = p
	return nil
}

func (r packagingRepo) GetByID(_ context.Context, id string) (*entity.PackagingType, error) {
	return r.s.packaging[id], nil
}

func (r packagingRepo) GetByBarcode(_ context.Context, barcode string) (*entity.PackagingType, error) {
	for _, p := range r.s.packaging {
		if p.IsActive && p.Barcode != nil && *p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (r packagingRepo) ListActiveByProduct(_ context.Context, productID string) ([]*entity.PackagingType, error) {
	var out []*entity.PackagingType
	for _, p := range r.s.packaging {
		if p.IsActive && p.ProductID == productID {
			out = append(out, p)
		}
	}
	return out, nil
}

type inventoryRepo struct{ s *memStore }

func (r inventoryRepo) ListActiveByProduct(_ context.Context, productID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.s.records {
		if rec.IsActive && rec.ProductID == productID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r inventoryRepo) ListActiveByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	return r.ListActiveByProduct(ctx, productID)
}

func (r inventoryRepo) Decrement(_ context.Context, recordID string, qty decimal.Decimal) error {
	for _, rec := range r.s.records {
		if rec.ID == recordID {
			if rec.Quantity.LessThan(qty) {
				return domain.ErrInsufficientStock
			}
			rec.Quantity = rec.Quantity.Sub(qty)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r inventoryRepo) Increment(_ context.Context, productID, packagingTypeID, locationID string, qty decimal.Decimal) error {
	for _, rec := range r.s.records {
		if rec.ProductID == productID && rec.PackagingTypeID == packagingTypeID && rec.LocationID == locationID {
			rec.Quantity = rec.Quantity.Add(qty)
			return nil
		}
	}
	r.s.records = append(r.s.records, &entity.InventoryRecord{
		ID: "new", ProductID: productID, PackagingTypeID: packagingTypeID, LocationID: locationID, Quantity: qty, IsActive: true,
	})
	return nil
}

type compositionRepo struct{ s *memStore }

func (r compositionRepo) Create(_ context.Context, c *entity.Composition) error {
	cp := *c
	r.s.compositions[c.ID] = &cp
	return nil
}

func (r compositionRepo) GetByID(_ context.Context, id string) (*entity.Composition, error) {
	c, ok := r.s.compositions[id]
	if !ok || !c.IsActive {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r compositionRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Composition, error) {
	return r.GetByID(ctx, id)
}

func (r compositionRepo) List(_ context.Context, status string, _, _ int) ([]*entity.Composition, error) {
	var out []*entity.Composition
	for _, c := range r.s.compositions {
		if c.IsActive && (status == "" || c.Status == status) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r compositionRepo) UpdateStatus(_ context.Context, c *entity.Composition) error {
	cp := *c
	r.s.compositions[c.ID] = &cp
	return nil
}

func (r compositionRepo) SoftDelete(_ context.Context, id string) error {
	r.s.compositions[id].IsActive = false
	return nil
}

// Run sin rollback: los tests de handlers solo verifican el contrato HTTP.
func (s *memStore) Run(_ context.Context, fn func(repository.CompositionRepository, repository.InventoryRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(compositionRepo{s}, inventoryRepo{s})
}

// ──────────────────────────────────────────────────────────────────────────────
// App de test
// ──────────────────────────────────────────────────────────────────────────────

func newStore() *memStore {
	one := decimal.NewFromInt(1)
	unitParent, boxParent := "unit", "box"
	return &memStore{
		products: map[string]*entity.Product{
			"p1": {ID: "p1", Name: "Caja galletas", Dimensions: entity.Dimensions{Width: 40, Length: 30, Height: 25, Weight: 10}},
		},
		pallets: map[string]*entity.Pallet{
			"pal-1": {ID: "pal-1", Status: entity.PalletStatusAvailable, Width: 120, Length: 100, Height: 150, MaxWeight: 1000},
		},
		packaging: map[string]*entity.PackagingType{
			"unit": {ID: "unit", ProductID: "p1", Name: "Unidad", Level: 0, BaseUnitQuantity: one, IsBaseUnit: true, IsActive: true},
			"box":  {ID: "box", ProductID: "p1", Name: "Caja", Level: 1, BaseUnitQuantity: decimal.NewFromInt(12), ParentPackagingID: &unitParent, IsActive: true},
			"case": {ID: "case", ProductID: "p1", Name: "Corrugado", Level: 2, BaseUnitQuantity: decimal.NewFromInt(144), ParentPackagingID: &boxParent, IsActive: true},
		},
		records: []*entity.InventoryRecord{
			{ID: "r-unit", ProductID: "p1", PackagingTypeID: "unit", LocationID: "A1", Quantity: decimal.NewFromInt(1000), IsActive: true},
			{ID: "r-box", ProductID: "p1", PackagingTypeID: "box", LocationID: "A1", Quantity: decimal.NewFromInt(240), IsActive: true},
			{ID: "r-case", ProductID: "p1", PackagingTypeID: "case", LocationID: "B1", Quantity: decimal.NewFromInt(288), IsActive: true},
		},
		compositions: map[string]*entity.Composition{},
	}
}

func newTestApp(s *memStore) *fiber.App {
	log := logger.Nop()
	packagingUC := packaging.NewPackagingUseCase(packagingRepo{s})
	stockUC := packaging.NewStockUseCase(packagingRepo{s}, inventoryRepo{s})
	plannerUC := composition.NewPlannerUseCase(productRepo{s}, palletRepo{s}, packagingRepo{s}, domcomposition.DefaultOptions(), nil)
	lifecycleUC := composition.NewLifecycleUseCase(plannerUC, compositionRepo{s}, packagingRepo{s}, s, nil, log, nil)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		PackagingUC: packagingUC,
		StockUC:     stockUC,
		PickingUC:   packaging.NewPickingUseCase(stockUC),
		PlannerUC:   plannerUC,
		LifecycleUC: lifecycleUC,
		Logger:      log,
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRoutes_RequierenToken(t *testing.T) {
	app := newTestApp(newStore())
	resp, _ := call(t, app, http.MethodGet, "/api/products/p1/stock", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHierarchyYBaseUnit(t *testing.T) {
	app := newTestApp(newStore())

	resp, body := call(t, app, http.MethodGet, "/api/products/p1/packaging/hierarchy", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var h dto.PackagingHierarchyResponse
	require.NoError(t, json.Unmarshal(body, &h))
	require.Len(t, h.Roots, 1)
	assert.Equal(t, "unit", h.Roots[0].ID)

	resp, _ = call(t, app, http.MethodGet, "/api/products/p1/packaging/base-unit", "vendedor", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/products/nope/packaging/base-unit", "vendedor", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), domain.KindNotFound)
}

func TestOptimizePicking(t *testing.T) {
	app := newTestApp(newStore())
	resp, body := call(t, app, http.MethodPost, "/api/picking/optimize", "bodeguero", dto.OptimizePickingRequest{
		ProductID: "p1", RequestedBaseUnits: decimal.NewFromInt(250),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var plan dto.PickingPlanResponse
	require.NoError(t, json.Unmarshal(body, &plan))
	assert.True(t, plan.CanFulfill)
	require.Len(t, plan.PickingPlan, 3)
	assert.Equal(t, "case", plan.PickingPlan[0].PackagingTypeID)
	assert.EqualValues(t, 1, plan.PickingPlan[0].Quantity)
	assert.EqualValues(t, 8, plan.PickingPlan[1].Quantity)
	assert.EqualValues(t, 10, plan.PickingPlan[2].Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(plan.TotalPlanned))
}

func TestConvert(t *testing.T) {
	app := newTestApp(newStore())
	resp, body := call(t, app, http.MethodPost, "/api/packaging/convert", "vendedor", dto.ConvertRequest{
		Quantity: decimal.NewFromInt(2), FromPackagingID: "case", ToPackagingID: "box",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ConvertResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, decimal.NewFromInt(24).Equal(out.Result))

	resp, _ = call(t, app, http.MethodPost, "/api/packaging/convert", "vendedor", dto.ConvertRequest{Quantity: decimal.NewFromInt(1)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompositionLifecycle_HTTP(t *testing.T) {
	s := newStore()
	app := newTestApp(s)

	req := dto.CreateCompositionRequest{
		Name: "Pallet galletas",
		CalculateCompositionRequest: dto.CalculateCompositionRequest{
			Products: []dto.CompositionItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(20)}},
		},
	}
	resp, body := call(t, app, http.MethodPost, "/api/compositions", "vendedor", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.CompositionResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, entity.CompositionStatusDraft, created.Status)

	base := "/api/compositions/" + created.ID

	resp, _ = call(t, app, http.MethodPost, base+"/approve", "vendedor", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "vendedor no aprueba")

	resp, _ = call(t, app, http.MethodPost, base+"/approve", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, base+"/approve", "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), domain.KindConflict)

	resp, _ = call(t, app, http.MethodPost, base+"/assemble", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodDelete, base, "admin", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "executed no se elimina")

	resp, body = call(t, app, http.MethodPost, base+"/disassemble", "bodeguero", dto.DisassembleRequest{
		TargetAllocations: []dto.TargetAllocation{{ProductID: "p1", Quantity: decimal.NewFromInt(50), LocationID: "A1"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), domain.KindValidation)

	resp, _ = call(t, app, http.MethodPost, base+"/disassemble", "bodeguero", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, base+"/report?arrangement=true", "vendedor", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report dto.CompositionReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 2, report.Summary.Layers)
	assert.Len(t, report.Arrangement, 20)

	resp, _ = call(t, app, http.MethodGet, base+"/report?format=xml", "vendedor", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodDelete, base, "admin", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, base, "admin", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssemble_StockInsuficiente_HTTP(t *testing.T) {
	s := newStore()
	s.records = []*entity.InventoryRecord{
		{ID: "r1", ProductID: "p1", PackagingTypeID: "unit", LocationID: "A1", Quantity: decimal.NewFromInt(5), IsActive: true},
	}
	app := newTestApp(s)

	resp, body := call(t, app, http.MethodPost, "/api/compositions", "admin", dto.CreateCompositionRequest{
		Name: "Corto",
		CalculateCompositionRequest: dto.CalculateCompositionRequest{
			Products: []dto.CompositionItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(20)}},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.CompositionResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = call(t, app, http.MethodPost, "/api/compositions/"+created.ID+"/approve", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = call(t, app, http.MethodPost, "/api/compositions/"+created.ID+"/assemble", "admin", dto.AssembleRequest{})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), domain.KindInsufficientStock)
	assert.Equal(t, entity.CompositionStatusApproved, s.compositions[created.ID].Status)
}

func TestValidate_HTTP(t *testing.T) {
	app := newTestApp(newStore())
	weight := 100.0
	resp, body := call(t, app, http.MethodPost, "/api/compositions/validate", "vendedor", dto.CalculateCompositionRequest{
		Products:    []dto.CompositionItemRequest{{ProductID: "p1", Quantity: decimal.NewFromInt(20)}},
		Constraints: &dto.CompositionConstraints{MaxWeight: &weight},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ValidateCompositionResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.IsValid)
	assert.Equal(t, "pal-1", out.PalletID)
}
