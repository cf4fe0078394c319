package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
)

// BrandingHandler expone la identidad visual configurada (público: el
// frontend la necesita antes del login).
type BrandingHandler struct {
	branding dto.BrandingResponse
}

// NewBrandingHandler construye el handler.
func NewBrandingHandler(branding dto.BrandingResponse) *BrandingHandler {
	return &BrandingHandler{branding: branding}
}

// Get godoc
// @Summary      Identidad visual de la aplicación
// @Tags         branding
// @Produce      json
// @Success      200  {object}  dto.BrandingResponse
// @Router       /api/branding [get]
func (h *BrandingHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.branding)
}
