package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/movement"
	"github.com/tu-usuario/almacen-api/internal/auditlog"
	"github.com/tu-usuario/almacen-api/internal/domain/entity"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del motor de movimientos
// (protegido).
type MovementHandler struct {
	record *movement.RecordMovementUseCase
	query  *movement.QueryUseCase
	report *movement.ReportUseCase
	audit  *auditlog.Sink
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	record *movement.RecordMovementUseCase,
	query *movement.QueryUseCase,
	report *movement.ReportUseCase,
	audit *auditlog.Sink,
) *MovementHandler {
	return &MovementHandler{record: record, query: query, report: report, audit: audit}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Valida y aplica el movimiento de forma atómica: asiento en el
// @Description  libro + delta de balance, o nada. Las ubicaciones requeridas
// @Description  dependen del motivo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Movimiento a registrar"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if !parseBody(c, &in) {
		return nil
	}

	req := movement.Request{
		ProductID:       in.ProductID,
		FromLocationID:  in.FromLocationID,
		ToLocationID:    in.ToLocationID,
		Quantity:        in.Quantity,
		Reason:          entity.Reason(in.Reason),
		OrderID:         in.OrderID,
		ReferenceNumber: in.ReferenceNumber,
		CostPerUnit:     in.CostPerUnit,
		Notes:           in.Notes,
		UserID:          userID,
	}
	recorded, err := h.record.Record(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	h.audit.Record("stock_movement", "stock_movement", recorded.Movement.ID, userID, map[string]any{
		"reason":     string(recorded.Movement.Reason),
		"product_id": recorded.Movement.ProductID,
		"quantity":   recorded.Movement.Quantity,
	})

	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(recorded.Movement, recorded.Product, recorded.From, recorded.To))
}

// List godoc
// @Summary      Historial de movimientos
// @Description  Paginado, más recientes primero. Filtros opcionales por
// @Description  producto, ubicación (origen o destino), motivo y rango de fechas.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto (UUID)"
// @Param        location_id  query  string  false  "Filtrar por ubicación, origen o destino (UUID)"
// @Param        reason       query  string  false  "Filtrar por motivo"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Param        page         query  int     false  "Página (desde 1)"
// @Param        limit        query  int     false  "Elementos por página (máx 100)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	filter, ok := parseMovementFilter(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "VALIDATION", "paginación inválida")
	}

	list, meta, err := h.query.ListMovements(filter, page)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, mov := range list {
		items = append(items, toMovementResponse(mov, nil, nil, nil))
	}
	return c.JSON(dto.MovementListResponse{Data: items, Meta: meta})
}

// Get godoc
// @Summary      Obtener un movimiento por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *MovementHandler) Get(c *fiber.Ctx) error {
	mov, err := h.query.GetMovement(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toMovementResponse(mov, nil, nil, nil))
}

// Report godoc
// @Summary      Reporte PDF del historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        product_id   query  string  false  "Filtrar por producto (UUID)"
// @Param        location_id  query  string  false  "Filtrar por ubicación (UUID)"
// @Param        reason       query  string  false  "Filtrar por motivo"
// @Param        from         query  string  false  "Desde (RFC3339)"
// @Param        to           query  string  false  "Hasta (RFC3339)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/report [get]
func (h *MovementHandler) Report(c *fiber.Ctx) error {
	filter, ok := parseMovementFilter(c)
	if !ok {
		return nil
	}
	pdfBytes, err := h.report.BuildMovementReport(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="movimientos.pdf"`)
	return c.Send(pdfBytes)
}

// GetBalance godoc
// @Summary      Balance actual de un producto en una ubicación
// @Description  Devuelve cantidad cero si la coordenada nunca tuvo stock.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "Producto (UUID)"
// @Param        location_id  query  string  true  "Ubicación (UUID)"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balance [get]
func (h *MovementHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	locationID := c.Query("location_id")
	if productID == "" || locationID == "" {
		return badRequest(c, "VALIDATION", "product_id y location_id son requeridos")
	}
	balance, err := h.query.GetBalance(productID, locationID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toBalanceResponse(balance))
}

// StockSummary godoc
// @Summary      Resumen de stock
// @Description  Balances de un producto en todas sus ubicaciones, o de una
// @Description  ubicación para todos sus productos. Exactamente uno de los filtros.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto (UUID)"
// @Param        location_id  query  string  false  "Ubicación (UUID)"
// @Success      200  {array}   dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *MovementHandler) StockSummary(c *fiber.Ctx) error {
	balances, err := h.query.StockSummary(c.Query("product_id"), c.Query("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		items = append(items, toBalanceResponse(b))
	}
	return c.JSON(items)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// parseMovementFilter lee los filtros de query. Devuelve false si ya escribió
// la respuesta de error.
func parseMovementFilter(c *fiber.Ctx) (repository.MovementFilter, bool) {
	filter := repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Reason:     entity.Reason(c.Query("reason")),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = badRequest(c, "VALIDATION", "from: fecha inválida, use RFC3339")
			return repository.MovementFilter{}, false
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			_ = badRequest(c, "VALIDATION", "to: fecha inválida, use RFC3339")
			return repository.MovementFilter{}, false
		}
		filter.To = &t
	}
	return filter, true
}

func toMovementResponse(mov *entity.StockMovement, product *entity.Product, from, to *entity.Location) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:              mov.ID,
		ProductID:       mov.ProductID,
		FromLocationID:  mov.FromLocationID,
		ToLocationID:    mov.ToLocationID,
		Quantity:        mov.Quantity,
		Reason:          string(mov.Reason),
		OrderID:         mov.OrderID,
		ReferenceNumber: mov.ReferenceNumber,
		CostPerUnit:     mov.CostPerUnit,
		Notes:           mov.Notes,
		CreatedBy:       mov.CreatedBy,
		CreatedAt:       mov.CreatedAt,
	}
	if product != nil {
		resp.ProductName = product.Name
		resp.ProductSKU = product.SKU
	}
	if from != nil {
		resp.FromLocation = &dto.LocationSummary{ID: from.ID, Code: from.Code, Name: from.Name}
	}
	if to != nil {
		resp.ToLocation = &dto.LocationSummary{ID: to.ID, Code: to.Code, Name: to.Name}
	}
	return resp
}

func toBalanceResponse(b *entity.Balance) dto.BalanceResponse {
	return dto.BalanceResponse{
		ProductID:   b.ProductID,
		LocationID:  b.LocationID,
		Quantity:    b.Quantity,
		BatchNumber: b.BatchNumber,
		ExpiryDate:  b.ExpiryDate,
		CostPerUnit: b.CostPerUnit,
		UpdatedAt:   b.UpdatedAt,
	}
}
