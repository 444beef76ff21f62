package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain"
)

// statusByKind traduce el código de dominio a HTTP.
var statusByKind = map[string]int{
	domain.KindNotFound:          fiber.StatusNotFound,
	domain.KindValidation:        fiber.StatusBadRequest,
	domain.KindConflict:          fiber.StatusConflict,
	domain.KindInsufficientStock: fiber.StatusConflict,
	domain.KindUnauthorized:      fiber.StatusUnauthorized,
	domain.KindForbidden:         fiber.StatusForbidden,
}

// writeError responde {code, message} según el tipo de error de dominio. Los errores internos
// se registran pero no exponen el detalle al cliente.
func (h *handlerBase) writeError(c *fiber.Ctx, err error) error {
	kind := domain.Kind(err)
	status, ok := statusByKind[kind]
	if !ok {
		h.log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: domain.KindInternal, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: kind, Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
