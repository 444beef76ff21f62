package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pallets/internal/application/composition"
	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/pkg/logger"
)

// CompositionHandler cálculo, validación y ciclo de vida de composiciones de pallet (protegido).
type CompositionHandler struct {
	handlerBase
	planner   *composition.PlannerUseCase
	lifecycle *composition.LifecycleUseCase
}

// NewCompositionHandler construye el handler.
func NewCompositionHandler(planner *composition.PlannerUseCase, lifecycle *composition.LifecycleUseCase, log *logger.Logger) *CompositionHandler {
	return &CompositionHandler{handlerBase: handlerBase{log: log}, planner: planner, lifecycle: lifecycle}
}

// Calculate godoc
// @Summary      Calcular composición óptima (sin persistir)
// @Tags         compositions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CalculateCompositionRequest  true  "products, pallet_id opcional, constraints opcionales"
// @Success      200   {object}  entity.CompositionResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/compositions/calculate [post]
func (h *CompositionHandler) Calculate(c *fiber.Ctx) error {
	var in dto.CalculateCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.planner.CalculateOptimalComposition(c.Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Validate godoc
// @Summary      Validar restricciones de una composición
// @Tags         compositions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CalculateCompositionRequest  true  "products, pallet_id opcional, constraints opcionales"
// @Success      200   {object}  dto.ValidateCompositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/compositions/validate [post]
func (h *CompositionHandler) Validate(c *fiber.Ctx) error {
	var in dto.CalculateCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.planner.ValidateCompositionConstraints(c.Context(), in)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear composición en borrador
// @Tags         compositions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCompositionRequest  true  "name + products"
// @Success      201   {object}  dto.CompositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/compositions [post]
func (h *CompositionHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateCompositionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.lifecycle.Create(c.Context(), in, userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar composiciones
// @Tags         compositions
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "draft | approved | executed"
// @Param        limit   query     int     false  "Límite (máx. 100)"
// @Param        offset  query     int     false  "Offset"
// @Success      200     {object}  dto.CompositionListResponse
// @Router       /api/compositions [get]
func (h *CompositionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.lifecycle.List(c.Context(), c.Query("status"), page)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener composición
// @Tags         compositions
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Composition ID"
// @Success      200  {object}  dto.CompositionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/compositions/{id} [get]
func (h *CompositionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.lifecycle.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar composición (draft → approved)
// @Tags         compositions
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Composition ID"
// @Success      200  {object}  dto.CompositionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/compositions/{id}/approve [post]
func (h *CompositionHandler) Approve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.lifecycle.Approve(c.Context(), c.Params("id"), userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Assemble godoc
// @Summary      Armar composición (approved → executed)
// @Description  Verifica y descuenta el stock en la misma transacción. 409 INSUFFICIENT_STOCK si no alcanza.
// @Tags         compositions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true   "Composition ID"
// @Param        body  body      dto.AssembleRequest  false  "multiplier, location_id"
// @Success      200   {object}  dto.CompositionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/compositions/{id}/assemble [post]
func (h *CompositionHandler) Assemble(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.AssembleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.lifecycle.Assemble(c.Context(), c.Params("id"), in, userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Disassemble godoc
// @Summary      Desarmar composición (executed → approved)
// @Description  Sin target_allocations el stock vuelve a los registros de origen.
// @Tags         compositions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true   "Composition ID"
// @Param        body  body      dto.DisassembleRequest  false  "target_allocations"
// @Success      200   {object}  dto.CompositionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/compositions/{id}/disassemble [post]
func (h *CompositionHandler) Disassemble(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.DisassembleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.lifecycle.Disassemble(c.Context(), c.Params("id"), in, userID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar composición (borrado lógico)
// @Tags         compositions
// @Security     Bearer
// @Param        id   path  string  true  "Composition ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/compositions/{id} [delete]
func (h *CompositionHandler) Delete(c *fiber.Ctx) error {
	if err := h.lifecycle.Delete(c.Context(), c.Params("id"), GetUserID(c)); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Report godoc
// @Summary      Reporte de la composición
// @Tags         compositions
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        id           path   string  true   "Composition ID"
// @Param        format       query  string  false  "json (por defecto) | pdf"
// @Param        arrangement  query  bool    false  "Incluir la distribución por posición"
// @Success      200  {object}  dto.CompositionReport
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/compositions/{id}/report [get]
func (h *CompositionHandler) Report(c *fiber.Ctx) error {
	var opts dto.ReportOptions
	if err := c.QueryParser(&opts); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros del reporte inválidos"})
	}
	id := c.Params("id")
	switch opts.Format {
	case "", "json":
		out, err := h.lifecycle.GenerateReport(c.Context(), id, opts)
		if err != nil {
			return h.writeError(c, err)
		}
		return c.JSON(out)
	case "pdf":
		pdfBytes, err := h.lifecycle.GenerateReportPDF(c.Context(), id, opts)
		if err != nil {
			return h.writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="composicion-%s.pdf"`, id))
		return c.Send(pdfBytes)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "format debe ser json o pdf"})
	}
}
