package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/biashara-api/docs"
	"github.com/jhoicas/biashara-api/internal/application/admin"
	"github.com/jhoicas/biashara-api/internal/application/auth"
	"github.com/jhoicas/biashara-api/internal/application/listing"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/infrastructure/postgres"
	"github.com/jhoicas/biashara-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/biashara-api/internal/infrastructure/storage"
	"github.com/jhoicas/biashara-api/internal/infrastructure/token"
	httpRouter "github.com/jhoicas/biashara-api/internal/interfaces/http"
	"github.com/jhoicas/biashara-api/pkg/config"
	"github.com/jhoicas/biashara-api/pkg/logger"
	"github.com/swaggo/swag"
)

// @title                       Biashara Connect API
// @version                     1.0
// @description                 API del marketplace Biashara Connect: registro, login, publicaciones y verificación de vendedores.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <access token>
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.App.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool, log.Named("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage")
	}

	// Throttle de login: Redis si está configurado (compartido entre instancias), si no en memoria.
	var throttle ports.LoginThrottle
	if cfg.Redis.Addr != "" {
		client, err := ratelimit.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		throttle = ratelimit.NewRedisThrottle(client, cfg.Throttle.Attempts, cfg.Throttle.Window())
	} else {
		throttle = ratelimit.NewMemoryThrottle(cfg.Throttle.Attempts, cfg.Throttle.Window())
	}

	userRepo := postgres.NewUserRepository(pool)
	buyerRepo := postgres.NewBuyerProfileRepository(pool)
	sellerRepo := postgres.NewSellerProfileRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	savedRepo := postgres.NewSavedListingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	issuer := token.NewJWTIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())

	authUC := auth.NewAuthUseCase(txRunner, userRepo, images, issuer, throttle, log.Named("auth"))
	listingUC := listing.NewListingUseCase(txRunner, listingRepo, savedRepo, buyerRepo, sellerRepo, images, log.Named("listings"))
	adminUC := admin.NewAdminUseCase(txRunner, log.Named("admin"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Biashara Connect API",
	}))
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Get("/api/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	if cfg.Storage.Driver == "local" || cfg.Storage.Driver == "" {
		app.Static("/media", cfg.Storage.LocalDir)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ListingUC: listingUC,
		AdminUC:   adminUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
