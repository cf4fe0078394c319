package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// AuditHandler consulta del log de auditoría (solo admin).
type AuditHandler struct {
	repo repository.AuditRepository
}

// NewAuditHandler construye el handler.
func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List godoc
// @Summary      Listar entradas de auditoría
// @Description  Más recientes primero. Requiere rol admin.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (desde 1)"
// @Param        limit  query  int  false  "Elementos por página (máx 100)"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "VALIDATION", "paginación inválida")
	}
	page.Normalize()
	entries, err := h.repo.List(page.Limit, page.Offset())
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.AuditEntryResponse{
			ID:        e.ID,
			Action:    e.Action,
			Entity:    e.Entity,
			EntityID:  e.EntityID,
			UserID:    e.UserID,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}
	return c.JSON(items)
}
