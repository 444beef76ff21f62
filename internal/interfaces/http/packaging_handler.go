package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/application/packaging"
	"github.com/jhoicas/Inventario-pallets/pkg/logger"
)

type handlerBase struct {
	log *logger.Logger
}

// PackagingHandler jerarquía de empaques, conversiones, stock y picking (protegido).
type PackagingHandler struct {
	handlerBase
	packaging *packaging.PackagingUseCase
	stock     *packaging.StockUseCase
	picking   *packaging.PickingUseCase
}

// NewPackagingHandler construye el handler.
func NewPackagingHandler(uc *packaging.PackagingUseCase, stock *packaging.StockUseCase, picking *packaging.PickingUseCase, log *logger.Logger) *PackagingHandler {
	return &PackagingHandler{handlerBase: handlerBase{log: log}, packaging: uc, stock: stock, picking: picking}
}

// GetHierarchy godoc
// @Summary      Árbol de empaques de un producto
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.PackagingHierarchyResponse
// @Router       /api/products/{id}/packaging/hierarchy [get]
func (h *PackagingHandler) GetHierarchy(c *fiber.Ctx) error {
	out, err := h.packaging.GetHierarchy(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetBaseUnit godoc
// @Summary      Unidad base de un producto
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.PackagingTypeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/packaging/base-unit [get]
func (h *PackagingHandler) GetBaseUnit(c *fiber.Ctx) error {
	out, err := h.packaging.GetBaseUnitResponse(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear tipo de empaque
// @Description  Valida unidad base única, barcode único y nivel mayor que el del padre.
// @Tags         packaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePackagingTypeRequest  true  "Tipo de empaque"
// @Success      201   {object}  dto.PackagingTypeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/packaging-types [post]
func (h *PackagingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePackagingTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.packaging.Create(c.Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByBarcode godoc
// @Summary      Buscar tipo de empaque por código de barras
// @Tags         packaging
// @Security     Bearer
// @Produce      json
// @Param        barcode  path      string  true  "Código de barras"
// @Success      200      {object}  dto.PackagingTypeResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/packaging-types/barcode/{barcode} [get]
func (h *PackagingHandler) GetByBarcode(c *fiber.Ctx) error {
	out, err := h.packaging.GetByBarcode(c.Context(), c.Params("barcode"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir cantidades entre empaques
// @Tags         packaging
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConvertRequest  true  "quantity + from_packaging_id y/o to_packaging_id"
// @Success      200   {object}  dto.ConvertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/packaging/convert [post]
func (h *PackagingHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.packaging.Convert(c.Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Stock consolidado en unidades base
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.ConsolidatedStockResponse
// @Router       /api/products/{id}/stock [get]
func (h *PackagingHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.stock.GetStockConsolidated(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetStockByPackaging godoc
// @Summary      Paquetes completos disponibles por tipo de empaque
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  dto.StockByPackagingResponse
// @Router       /api/products/{id}/stock/by-packaging [get]
func (h *PackagingHandler) GetStockByPackaging(c *fiber.Ctx) error {
	out, err := h.stock.GetStockByPackagingResponse(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// OptimizePicking godoc
// @Summary      Plan de picking por empaque (mayor empaque primero)
// @Tags         picking
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.OptimizePickingRequest  true  "product_id y requested_base_units"
// @Success      200   {object}  dto.PickingPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/picking/optimize [post]
func (h *PackagingHandler) OptimizePicking(c *fiber.Ctx) error {
	var in dto.OptimizePickingRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.picking.OptimizePickingByPackaging(c.Context(), in.ProductID, in.RequestedBaseUnits)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}
