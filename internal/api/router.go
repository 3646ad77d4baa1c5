package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/momento/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/momento/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/momento/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/momento/internal/database"
)

// multipart framing on top of the raw file
const bodyLimitMargin = 1 << 20

type Dependencies struct {
	DB     database.Pinger
	Tokens middleware.TokenValidator

	Events handler.EventService
	Media  handler.MediaService
	Faces  handler.FaceService

	Version          string
	MaxUploadBytes   int64
	MatchThreshold   float64
	RateLimitPerUser int
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	bodyLimit := fiber.DefaultBodyLimit
	if deps != nil && deps.MaxUploadBytes > 0 {
		bodyLimit = int(deps.MaxUploadBytes) + bodyLimitMargin
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Momento API",
		BodyLimit:    bodyLimit,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	var (
		db      database.Pinger
		version string
	)
	if r.deps != nil {
		db = r.deps.DB
		version = r.deps.Version
	}

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler(db, version)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	v1 := r.app.Group("/v1")
	v1.Use(middleware.Auth(r.deps.Tokens, r.logger))

	// Per user; must come after auth
	limiterConfig := middleware.DefaultRateLimiterConfig()
	if r.deps.RateLimitPerUser > 0 {
		limiterConfig.Max = r.deps.RateLimitPerUser
	}
	v1.Use(middleware.RateLimiter(limiterConfig))

	eventHandler := handler.NewEventHandler(r.deps.Events, r.logger)
	mediaHandler := handler.NewMediaHandler(r.deps.Media, r.deps.MaxUploadBytes, r.logger)
	faceHandler := handler.NewFaceHandler(r.deps.Faces, r.deps.MatchThreshold, r.logger)

	v1.Post("/events", eventHandler.Create)
	// registered before /:event_id so "slug" is never parsed as an id
	v1.Get("/events/slug/:slug", eventHandler.GetBySlug)
	v1.Get("/events/:event_id", eventHandler.Get)
	v1.Delete("/events/:event_id", eventHandler.Deactivate)

	v1.Post("/events/:event_id/media", mediaHandler.Upload)
	v1.Get("/events/:event_id/media", mediaHandler.List)
	v1.Delete("/events/:event_id/media/:media_id", mediaHandler.Delete)

	v1.Post("/events/:event_id/face-profile", faceHandler.EnrollProfile)
	v1.Get("/events/:event_id/face-profile", faceHandler.GetProfile)
	v1.Delete("/events/:event_id/face-profile", faceHandler.DeleteProfile)
	v1.Get("/events/:event_id/face-matches", faceHandler.Matches)
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
