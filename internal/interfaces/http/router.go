package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Marketsync-api/internal/application/auth"
	"github.com/jhoicas/Marketsync-api/internal/application/reporting"
	"github.com/jhoicas/Marketsync-api/internal/application/usecase"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	ListingUC *usecase.ListingUseCase
	ReportUC  *reporting.ReportUseCase
	Refresher ListingRefresher
	Runner    ExportEnqueuer
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Listings (protegido)
	listingHandler := NewListingHandler(deps.ListingUC, deps.ReportUC, deps.Refresher)
	listings := protected.Group("/listings")
	listings.Get("/:id", listingHandler.GetByID)
	listings.Get("/:id/history", listingHandler.PriceHistory)
	listings.Get("/:id/history/report", listingHandler.PriceHistoryReport)
	listings.Post("/:id/refresh", listingHandler.Refresh)

	// Backends y sincronización (protegido; exportar solo admin)
	backends := protected.Group("/backends")
	backends.Get("/:id/listings", listingHandler.ListByBackend)
	syncHandler := NewSyncHandler(deps.Runner)
	backends.Post("/:id/export", RequireRole(entity.RoleAdmin), syncHandler.Export)
}
