package composition

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
	"github.com/jhoicas/Inventario-pallets/internal/domain/repository"
	"github.com/jhoicas/Inventario-pallets/pkg/logger"
	"github.com/jhoicas/Inventario-pallets/pkg/metrics"
)

const statusDeleted = "deleted"

// LifecycleUseCase máquina de estados de composiciones: draft → approved → executed, y executed → approved al desarmar.
// Toda transición lee la composición con bloqueo dentro de TxRunner.Run.
type LifecycleUseCase struct {
	planner       *PlannerUseCase
	compRepo      repository.CompositionRepository
	packagingRepo repository.PackagingTypeRepository
	tx            TxRunner
	renderer      ReportRenderer
	log           *logger.Logger
	metrics       *metrics.Recorder
	lowEfficiency float64
	now           func() time.Time
}

// NewLifecycleUseCase construye el caso de uso. renderer y rec pueden ser nil.
func NewLifecycleUseCase(
	planner *PlannerUseCase,
	compRepo repository.CompositionRepository,
	packagingRepo repository.PackagingTypeRepository,
	tx TxRunner,
	renderer ReportRenderer,
	log *logger.Logger,
	rec *metrics.Recorder,
) *LifecycleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LifecycleUseCase{
		planner:       planner,
		compRepo:      compRepo,
		packagingRepo: packagingRepo,
		tx:            tx,
		renderer:      renderer,
		log:           log,
		metrics:       rec,
		lowEfficiency: planner.opts.LowEfficiency,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create calcula el resultado y persiste la composición en draft con ese snapshot.
func (uc *LifecycleUseCase) Create(ctx context.Context, in dto.CreateCompositionRequest, userID string) (*dto.CompositionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name requerido: %w", domain.ErrInvalidInput)
	}
	res, err := uc.planner.CalculateOptimalComposition(ctx, in.CalculateCompositionRequest)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	c := &entity.Composition{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    entity.CompositionStatusDraft,
		PalletID:  res.PalletID,
		Result:    res,
		IsActive:  true,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, p := range in.Products {
		item := entity.CompositionItem{
			ID:            uuid.New().String(),
			CompositionID: c.ID,
			ProductID:     p.ProductID,
			Quantity:      p.Quantity,
			IsActive:      true,
		}
		if p.PackagingTypeID != nil && *p.PackagingTypeID != "" {
			id := *p.PackagingTypeID
			item.PackagingTypeID = &id
		}
		c.Items = append(c.Items, item)
	}

	if err := uc.compRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	uc.transitioned(c.ID, "", entity.CompositionStatusDraft, userID)
	return toCompositionResponse(c), nil
}

// Approve draft → approved. Un resultado inválido (excede límites o cantidades erróneas) no se aprueba.
func (uc *LifecycleUseCase) Approve(ctx context.Context, id, userID string) (*dto.CompositionResponse, error) {
	var out *entity.Composition
	err := uc.tx.Run(ctx, func(compRepo repository.CompositionRepository, _ repository.InventoryRepository) error {
		c, err := lockComposition(ctx, compRepo, id)
		if err != nil {
			return err
		}
		if c.Status != entity.CompositionStatusDraft {
			return illegalTransition(c, entity.CompositionStatusApproved)
		}
		if c.Result == nil || !c.Result.IsValid {
			return fmt.Errorf("la composición %s no cumple las restricciones del pallet: %w", c.ID, domain.ErrInvalidInput)
		}
		now := uc.now()
		c.Status = entity.CompositionStatusApproved
		c.ApprovedBy = &userID
		c.ApprovedAt = &now
		c.UpdatedAt = now
		if err := compRepo.UpdateStatus(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transitioned(out.ID, entity.CompositionStatusDraft, entity.CompositionStatusApproved, userID)
	return toCompositionResponse(out), nil
}

// Assemble approved → executed. Bloquea el stock de cada producto, verifica que alcance para
// cantidad × multiplier y lo retira en la misma transacción. Si falta stock no cambia nada.
func (uc *LifecycleUseCase) Assemble(ctx context.Context, id string, in dto.AssembleRequest, userID string) (*dto.CompositionResponse, error) {
	multiplier := in.Multiplier
	if multiplier == 0 {
		multiplier = 1
	}
	if multiplier < 0 {
		return nil, fmt.Errorf("multiplier debe ser positivo: %w", domain.ErrInvalidInput)
	}

	var out *entity.Composition
	err := uc.tx.Run(ctx, func(compRepo repository.CompositionRepository, invRepo repository.InventoryRepository) error {
		c, err := lockComposition(ctx, compRepo, id)
		if err != nil {
			return err
		}
		if c.Status != entity.CompositionStatusApproved {
			return illegalTransition(c, entity.CompositionStatusExecuted)
		}

		preferred := preferredPackaging(c)
		required := c.QuantityByProduct()
		productIDs := sortedKeys(required)

		assembly := &entity.Assembly{Multiplier: multiplier, Withdrawals: []entity.StockWithdrawal{}}
		for _, productID := range productIDs {
			need := required[productID].Mul(decimal.NewFromInt(multiplier))
			if !need.IsPositive() {
				continue
			}
			records, err := invRepo.ListActiveByProductForUpdate(ctx, productID)
			if err != nil {
				return err
			}
			ordered, err := uc.withdrawalOrder(ctx, productID, records, preferred[productID], in.LocationID)
			if err != nil {
				return err
			}
			available := decimal.Zero
			for _, r := range ordered {
				available = available.Add(r.Quantity)
			}
			if available.LessThan(need) {
				uc.metrics.InsufficientStock()
				return fmt.Errorf("producto %s: requiere %s unidades base, disponibles %s: %w",
					productID, need.String(), available.String(), domain.ErrInsufficientStock)
			}

			pending := need
			for _, r := range ordered {
				if !pending.IsPositive() {
					break
				}
				take := decimal.Min(pending, r.Quantity)
				if err := invRepo.Decrement(ctx, r.ID, take); err != nil {
					return err
				}
				assembly.Withdrawals = append(assembly.Withdrawals, entity.StockWithdrawal{
					RecordID:        r.ID,
					ProductID:       productID,
					PackagingTypeID: r.PackagingTypeID,
					LocationID:      r.LocationID,
					Quantity:        take,
				})
				pending = pending.Sub(take)
			}
		}

		now := uc.now()
		c.Status = entity.CompositionStatusExecuted
		c.Assembly = assembly
		c.ExecutedBy = &userID
		c.ExecutedAt = &now
		c.UpdatedAt = now
		if err := compRepo.UpdateStatus(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transitioned(out.ID, entity.CompositionStatusApproved, entity.CompositionStatusExecuted, userID)
	return toCompositionResponse(out), nil
}

// Disassemble executed → approved. Cada asignación debe referir un producto de la composición y no
// exceder lo compuesto (cantidad × multiplier del armado). Sin asignaciones el stock vuelve a los
// registros de donde se retiró.
func (uc *LifecycleUseCase) Disassemble(ctx context.Context, id string, in dto.DisassembleRequest, userID string) (*dto.CompositionResponse, error) {
	var out *entity.Composition
	err := uc.tx.Run(ctx, func(compRepo repository.CompositionRepository, invRepo repository.InventoryRepository) error {
		c, err := lockComposition(ctx, compRepo, id)
		if err != nil {
			return err
		}
		if c.Status != entity.CompositionStatusExecuted {
			return illegalTransition(c, entity.CompositionStatusApproved)
		}

		allocations := in.TargetAllocations
		explicit := len(allocations) > 0
		if !explicit {
			allocations = returnToOrigin(c.Assembly)
		}
		if err := validateAllocations(c, allocations); err != nil {
			return err
		}

		// Se resuelven todos los empaques antes de tocar stock.
		types := map[string][]*entity.PackagingType{}
		packagingIDs := make([]string, len(allocations))
		for i, a := range allocations {
			packagingIDs[i] = a.PackagingTypeID
			if !explicit && a.PackagingTypeID != "" {
				continue
			}
			active, err := uc.activePackaging(ctx, a.ProductID, types)
			if err != nil {
				return err
			}
			if a.PackagingTypeID == "" {
				base := findPackaging(active, func(t *entity.PackagingType) bool { return t.IsBaseUnit })
				if base == nil {
					return fmt.Errorf("unidad base del producto %s: %w", a.ProductID, domain.ErrNotFound)
				}
				packagingIDs[i] = base.ID
				continue
			}
			if findPackaging(active, func(t *entity.PackagingType) bool { return t.ID == a.PackagingTypeID }) == nil {
				return fmt.Errorf("el empaque %s no es un empaque activo del producto %s: %w", a.PackagingTypeID, a.ProductID, domain.ErrInvalidInput)
			}
		}

		for i, a := range allocations {
			if err := invRepo.Increment(ctx, a.ProductID, packagingIDs[i], a.LocationID, a.Quantity); err != nil {
				return err
			}
		}

		c.Status = entity.CompositionStatusApproved
		c.Assembly = nil
		c.ExecutedBy = nil
		c.ExecutedAt = nil
		c.UpdatedAt = uc.now()
		if err := compRepo.UpdateStatus(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.transitioned(out.ID, entity.CompositionStatusExecuted, entity.CompositionStatusApproved, userID)
	return toCompositionResponse(out), nil
}

// Delete borrado lógico (composición e ítems). No se permite mientras esté executed.
func (uc *LifecycleUseCase) Delete(ctx context.Context, id, userID string) error {
	var from string
	err := uc.tx.Run(ctx, func(compRepo repository.CompositionRepository, _ repository.InventoryRepository) error {
		c, err := lockComposition(ctx, compRepo, id)
		if err != nil {
			return err
		}
		if c.Status == entity.CompositionStatusExecuted {
			return fmt.Errorf("la composición %s está armada, desarmar antes de eliminar: %w", c.ID, domain.ErrConflict)
		}
		from = c.Status
		return compRepo.SoftDelete(ctx, c.ID)
	})
	if err != nil {
		return err
	}
	uc.transitioned(id, from, statusDeleted, userID)
	return nil
}

// Get devuelve una composición activa.
func (uc *LifecycleUseCase) Get(ctx context.Context, id string) (*dto.CompositionResponse, error) {
	c, err := uc.compRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("composición %s: %w", id, domain.ErrNotFound)
	}
	return toCompositionResponse(c), nil
}

// List lista composiciones activas, opcionalmente filtradas por estado.
func (uc *LifecycleUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.CompositionListResponse, error) {
	switch status {
	case "", entity.CompositionStatusDraft, entity.CompositionStatusApproved, entity.CompositionStatusExecuted:
	default:
		return nil, fmt.Errorf("estado %q no válido: %w", status, domain.ErrInvalidInput)
	}
	page.Normalize()
	list, err := uc.compRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.CompositionListResponse{
		Items: make([]dto.CompositionResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, c := range list {
		out.Items = append(out.Items, *toCompositionResponse(c))
	}
	return out, nil
}

func (uc *LifecycleUseCase) transitioned(id, from, to, userID string) {
	uc.log.Info().
		Str("composition_id", id).
		Str("from", from).
		Str("to", to).
		Str("user_id", userID).
		Msg("transición de composición")
	uc.metrics.Transition(from, to)
}

// withdrawalOrder registros con stock (opcionalmente de una sola ubicación) en el orden en que se consumen:
// primero el empaque indicado en la composición, luego por nivel ascendente, ubicación e id.
func (uc *LifecycleUseCase) withdrawalOrder(ctx context.Context, productID string, records []*entity.InventoryRecord, preferred, locationID string) ([]*entity.InventoryRecord, error) {
	types, err := uc.packagingRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	levels := make(map[string]int, len(types))
	for _, t := range types {
		levels[t.ID] = t.Level
	}

	out := make([]*entity.InventoryRecord, 0, len(records))
	for _, r := range records {
		if !r.IsActive || !r.Quantity.IsPositive() {
			continue
		}
		if locationID != "" && r.LocationID != locationID {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if pa, pb := a.PackagingTypeID == preferred, b.PackagingTypeID == preferred; pa != pb {
			return pa
		}
		if la, lb := levels[a.PackagingTypeID], levels[b.PackagingTypeID]; la != lb {
			return la < lb
		}
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (uc *LifecycleUseCase) activePackaging(ctx context.Context, productID string, cache map[string][]*entity.PackagingType) ([]*entity.PackagingType, error) {
	if types, ok := cache[productID]; ok {
		return types, nil
	}
	types, err := uc.packagingRepo.ListActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	cache[productID] = types
	return types, nil
}

func findPackaging(types []*entity.PackagingType, match func(*entity.PackagingType) bool) *entity.PackagingType {
	for _, t := range types {
		if match(t) {
			return t
		}
	}
	return nil
}

func lockComposition(ctx context.Context, repo repository.CompositionRepository, id string) (*entity.Composition, error) {
	c, err := repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("composición %s: %w", id, domain.ErrNotFound)
	}
	return c, nil
}

func illegalTransition(c *entity.Composition, to string) error {
	return fmt.Errorf("transición %s → %s no permitida para la composición %s: %w", c.Status, to, c.ID, domain.ErrConflict)
}

// validateAllocations cada asignación y la suma por producto deben quedar dentro de lo compuesto.
func validateAllocations(c *entity.Composition, allocations []dto.TargetAllocation) error {
	multiplier := int64(1)
	if c.Assembly != nil && c.Assembly.Multiplier > 0 {
		multiplier = c.Assembly.Multiplier
	}
	composed := c.QuantityByProduct()
	factor := decimal.NewFromInt(multiplier)

	totals := map[string]decimal.Decimal{}
	for i, a := range allocations {
		qty, ok := composed[a.ProductID]
		if !ok {
			return fmt.Errorf("asignación %d: el producto %s no pertenece a la composición: %w", i, a.ProductID, domain.ErrInvalidInput)
		}
		if !a.Quantity.IsPositive() {
			return fmt.Errorf("asignación %d: la cantidad debe ser positiva: %w", i, domain.ErrInvalidInput)
		}
		if strings.TrimSpace(a.LocationID) == "" {
			return fmt.Errorf("asignación %d: location_id requerido: %w", i, domain.ErrInvalidInput)
		}
		limit := qty.Mul(factor)
		if a.Quantity.GreaterThan(limit) {
			return fmt.Errorf("asignación %d: %s excede la cantidad compuesta %s del producto %s: %w",
				i, a.Quantity.String(), limit.String(), a.ProductID, domain.ErrInvalidInput)
		}
		totals[a.ProductID] = totals[a.ProductID].Add(a.Quantity)
		if totals[a.ProductID].GreaterThan(limit) {
			return fmt.Errorf("las asignaciones del producto %s suman %s y exceden la cantidad compuesta %s: %w",
				a.ProductID, totals[a.ProductID].String(), limit.String(), domain.ErrInvalidInput)
		}
	}
	return nil
}

func returnToOrigin(a *entity.Assembly) []dto.TargetAllocation {
	if a == nil {
		return nil
	}
	out := make([]dto.TargetAllocation, 0, len(a.Withdrawals))
	for _, w := range a.Withdrawals {
		out = append(out, dto.TargetAllocation{
			ProductID:       w.ProductID,
			Quantity:        w.Quantity,
			LocationID:      w.LocationID,
			PackagingTypeID: w.PackagingTypeID,
		})
	}
	return out
}

func preferredPackaging(c *entity.Composition) map[string]string {
	out := map[string]string{}
	for _, it := range c.Items {
		if !it.IsActive || it.PackagingTypeID == nil {
			continue
		}
		if _, ok := out[it.ProductID]; !ok {
			out[it.ProductID] = *it.PackagingTypeID
		}
	}
	return out
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toCompositionResponse(c *entity.Composition) *dto.CompositionResponse {
	out := &dto.CompositionResponse{
		ID:         c.ID,
		Name:       c.Name,
		Status:     c.Status,
		PalletID:   c.PalletID,
		Items:      make([]dto.CompositionItemResponse, 0, len(c.Items)),
		Result:     c.Result,
		Assembly:   c.Assembly,
		CreatedBy:  c.CreatedBy,
		CreatedAt:  c.CreatedAt,
		ApprovedBy: c.ApprovedBy,
		ApprovedAt: c.ApprovedAt,
		ExecutedBy: c.ExecutedBy,
		ExecutedAt: c.ExecutedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	for _, it := range c.Items {
		if !it.IsActive {
			continue
		}
		out.Items = append(out.Items, dto.CompositionItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PackagingTypeID: it.PackagingTypeID,
		})
	}
	return out
}
