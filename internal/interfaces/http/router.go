package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pallets/internal/application/composition"
	"github.com/jhoicas/Inventario-pallets/internal/application/packaging"
	"github.com/jhoicas/Inventario-pallets/pkg/logger"
)

// Roles que pueden aprobar una composición.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PackagingUC *packaging.PackagingUseCase
	StockUC     *packaging.StockUseCase
	PickingUC   *packaging.PickingUseCase
	PlannerUC   *composition.PlannerUseCase
	LifecycleUC *composition.LifecycleUseCase
	Logger      *logger.Logger
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Empaques, stock y picking
	packagingHandler := NewPackagingHandler(deps.PackagingUC, deps.StockUC, deps.PickingUC, deps.Logger)
	products := protected.Group("/products")
	products.Get("/:id/packaging/hierarchy", packagingHandler.GetHierarchy)
	products.Get("/:id/packaging/base-unit", packagingHandler.GetBaseUnit)
	products.Get("/:id/stock", packagingHandler.GetStock)
	products.Get("/:id/stock/by-packaging", packagingHandler.GetStockByPackaging)

	packagingTypes := protected.Group("/packaging-types")
	packagingTypes.Post("/", packagingHandler.Create)
	packagingTypes.Get("/barcode/:barcode", packagingHandler.GetByBarcode)

	protected.Post("/packaging/convert", packagingHandler.Convert)
	protected.Post("/picking/optimize", packagingHandler.OptimizePicking)

	// Composiciones
	compositionHandler := NewCompositionHandler(deps.PlannerUC, deps.LifecycleUC, deps.Logger)
	compositions := protected.Group("/compositions")
	compositions.Post("/calculate", compositionHandler.Calculate)
	compositions.Post("/validate", compositionHandler.Validate)
	compositions.Post("/", compositionHandler.Create)
	compositions.Get("/", compositionHandler.List)
	compositions.Get("/:id", compositionHandler.GetByID)
	compositions.Post("/:id/approve", RequireRole(RoleAdmin, RoleBodeguero), compositionHandler.Approve)
	compositions.Post("/:id/assemble", compositionHandler.Assemble)
	compositions.Post("/:id/disassemble", compositionHandler.Disassemble)
	compositions.Delete("/:id", compositionHandler.Delete)
	compositions.Get("/:id/report", compositionHandler.Report)
}
