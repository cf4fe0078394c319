package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-api/internal/application/auth"
	"github.com/tu-usuario/almacen-api/internal/application/dto"
	"github.com/tu-usuario/almacen-api/internal/application/movement"
	"github.com/tu-usuario/almacen-api/internal/application/usecase"
	"github.com/tu-usuario/almacen-api/internal/auditlog"
	"github.com/tu-usuario/almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	LocationUC     *usecase.LocationUseCase
	RecordMovement *movement.RecordMovementUseCase
	MovementQuery  *movement.QueryUseCase
	MovementReport *movement.ReportUseCase
	AuthUC         *auth.AuthUseCase
	AuditRepo      repository.AuditRepository
	AuditSink      *auditlog.Sink
	Branding       dto.BrandingResponse
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Branding (público)
	brandingHandler := NewBrandingHandler(deps.Branding)
	api.Get("/branding", brandingHandler.Get)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.AuditSink)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", RequireAdmin(), productHandler.Delete)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.AuditSink)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", RequireAdmin(), categoryHandler.Delete)

	// Locations (protegido)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.AuditSink)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.Get)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", RequireAdmin(), locationHandler.Delete)

	// Inventory: movimientos, balances y reporte (protegido)
	invGroup := protected.Group("/inventory")
	movementHandler := NewMovementHandler(deps.RecordMovement, deps.MovementQuery, deps.MovementReport, deps.AuditSink)
	invGroup.Post("/movements", movementHandler.Register)
	invGroup.Get("/movements", movementHandler.List)
	invGroup.Get("/movements/report", movementHandler.Report)
	invGroup.Get("/movements/:id", movementHandler.Get)
	invGroup.Get("/balance", movementHandler.GetBalance)
	invGroup.Get("/stock", movementHandler.StockSummary)

	// Audit log (solo admin)
	auditHandler := NewAuditHandler(deps.AuditRepo)
	protected.Get("/audit", RequireAdmin(), auditHandler.List)
}
