package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. Un error no
// reconocido es 500; el detalle queda en el log, no en la respuesta.
func writeError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d",
				insufficient.Available, insufficient.Requested),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return badRequest(c, "INVALID_QUANTITY", "la cantidad debe ser un entero positivo")
	case errors.Is(err, domain.ErrInvalidReason):
		return badRequest(c, "INVALID_REASON", "motivo de movimiento desconocido")
	case errors.Is(err, domain.ErrMissingLocation):
		return badRequest(c, "MISSING_LOCATION", "el motivo requiere una ubicación que no fue enviada")
	case errors.Is(err, domain.ErrSameLocation):
		return badRequest(c, "SAME_LOCATION", "la transferencia requiere ubicaciones distintas")
	case errors.Is(err, domain.ErrInvalidInput):
		return badRequest(c, "VALIDATION", "datos inválidos")
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Code: "NOT_FOUND", Message: "recurso no encontrado",
		})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "DUPLICATE", Message: "el recurso ya existe",
		})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "EMAIL_EXISTS", Message: "el email ya está registrado",
		})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "CONFLICT", Message: "conflicto de concurrencia al persistir; reintente la operación",
		})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Code: "UNAUTHORIZED", Message: "credenciales inválidas",
		})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "acceso denegado al recurso",
		})
	case errors.Is(err, domain.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Code: "STORAGE_UNAVAILABLE", Message: "almacenamiento no disponible; reintente más tarde",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: "error interno",
		})
	}
}

func badRequest(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: message})
}
