package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/biashara-api/internal/application/admin"
	"github.com/jhoicas/biashara-api/internal/application/auth"
	"github.com/jhoicas/biashara-api/internal/application/listing"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ListingUC *listing.ListingUseCase
	AdminUC   *admin.AdminUseCase
	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
// Fiber no usa StrictRouting, así que /api/listings y /api/listings/ resuelven igual.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/", Home)
	app.Get("/health", Health)

	api := app.Group("/api")
	api.Get("/", Home)

	authn := AuthMiddleware(deps.JWTSecret)
	sellerOnly := RequireRole(entity.RoleSeller)
	buyerOnly := RequireRole(entity.RoleBuyer)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log.Named("auth"))
	authGroup.Post("/register/buyer", authHandler.RegisterBuyer)
	authGroup.Post("/register/seller", authHandler.RegisterSeller)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/token/refresh", authHandler.Refresh)

	// Listings: las rutas fijas van antes de /:id
	listings := api.Group("/listings")
	listingHandler := NewListingHandler(deps.ListingUC, log.Named("listings"))
	listings.Get("/", listingHandler.List)
	listings.Post("/create", authn, sellerOnly, listingHandler.Create)
	listings.Get("/mine", authn, sellerOnly, listingHandler.Mine)
	listings.Get("/saved", authn, buyerOnly, listingHandler.Saved)
	listings.Get("/:id", listingHandler.Get)
	listings.Post("/:id/activate", authn, sellerOnly, listingHandler.Activate)
	listings.Post("/:id/deactivate", authn, sellerOnly, listingHandler.Deactivate)
	listings.Post("/:id/delete", authn, sellerOnly, listingHandler.Delete)
	listings.Post("/:id/toggle-save", authn, buyerOnly, listingHandler.ToggleSave)

	// Admin (protegido, solo admin)
	adminGroup := api.Group("/admin", authn, RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AdminUC, log.Named("admin"))
	adminGroup.Patch("/sellers/:id/verify", adminHandler.VerifySeller)
	adminGroup.Patch("/sellers/:id/unverify", adminHandler.UnverifySeller)
}
