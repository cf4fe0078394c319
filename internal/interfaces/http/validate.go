package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validate instancia compartida; los tags viven en los DTOs.
var validate = validator.New()

// parseBody decodifica y valida el body JSON. Devuelve false si ya escribió
// la respuesta de error.
func parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		_ = badRequest(c, "INVALID_BODY", "cuerpo inválido")
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = badRequest(c, "VALIDATION", err.Error())
		return false
	}
	return true
}
