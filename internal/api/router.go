package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/greenloop/greenloop/internal/admin"
	"github.com/greenloop/greenloop/internal/api/handlers"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/catalog"
	"github.com/greenloop/greenloop/internal/chat"
	"github.com/greenloop/greenloop/internal/notify"
	"github.com/greenloop/greenloop/internal/recommend"
	"github.com/greenloop/greenloop/internal/storage"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	AdminStore     *admin.CredentialStore
	BlobStore      storage.BlobStore
	Generator      recommend.TextGenerator // nil disables recommendations
	AsynqClient    *asynq.Client
	AllowedOrigins []string
	RateLimitReqs  int
	RateLimitSecs  int
	MaxUploadBytes int64
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	notifyService := notify.NewService(cfg.DB, cfg.Logger)
	catalogService := catalog.NewService(cfg.DB, cfg.BlobStore, notifyService, cfg.Logger, cfg.MaxUploadBytes)
	chatService := chat.NewService(cfg.DB, notifyService, cfg.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	adminHandler := handlers.NewAdminHandler(cfg.AdminStore, cfg.JWTService, cfg.AsynqClient, cfg.Logger)
	itemHandler := handlers.NewItemHandler(catalogService)
	moderationHandler := handlers.NewModerationHandler(catalogService)
	chatHandler := handlers.NewChatHandler(chatService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	locationHandler := handlers.NewLocationHandler(cfg.DB)
	userHandler := handlers.NewUserHandler(cfg.DB)
	recommendationHandler := handlers.NewRecommendationHandler(catalogService, cfg.AuthService, cfg.Generator)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/session", authHandler.Session)
		r.Get("/items", itemHandler.List)
		r.Get("/items/{id}", itemHandler.Get)
		r.Get("/locations", locationHandler.List)
		r.Get("/categories", locationHandler.Categories)
		r.Get("/terms", locationHandler.Terms)

		// Admin credential endpoints (public by necessity)
		r.Get("/admin/setup-status", adminHandler.SetupStatus)
		r.Post("/admin/setup", adminHandler.Setup)
		r.Post("/admin/login", adminHandler.Login)
		r.Post("/admin/forgot-password", adminHandler.ForgotPassword)
		r.Post("/admin/reset-password", adminHandler.ResetPassword)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", authHandler.Me)
			r.Get("/recommendations", recommendationHandler.Get)

			r.Route("/items", func(r chi.Router) {
				r.Get("/mine", itemHandler.MyItems)
				r.Get("/claimed", itemHandler.MyClaims)
				r.Post("/", itemHandler.Create)
				r.Put("/{id}", itemHandler.Update)
				r.Delete("/{id}", itemHandler.Delete)
				r.Post("/{id}/claim", itemHandler.Claim)
				r.Post("/{id}/complete", itemHandler.Complete)
				r.Get("/{id}/messages", chatHandler.List)
				r.Post("/{id}/messages", chatHandler.Post)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})

			// Admin-only routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/profile", adminHandler.GetProfile)
				r.Put("/profile", adminHandler.UpdateProfile)
				r.Post("/verify-password", adminHandler.VerifyPassword)

				r.Get("/items/pending", moderationHandler.Pending)
				r.Get("/items/approved", moderationHandler.Approved)
				r.Get("/items/rejected", moderationHandler.Rejected)
				r.Post("/items/{id}/approve", moderationHandler.Approve)
				r.Post("/items/{id}/reject", moderationHandler.Reject)

				r.Get("/users", userHandler.List)
				r.Post("/users/{id}/suspend", userHandler.Suspend)
				r.Post("/users/{id}/activate", userHandler.Activate)
				r.Delete("/users/{id}", userHandler.Delete)

				r.Post("/locations", locationHandler.Create)
				r.Delete("/locations/{id}", locationHandler.Delete)
				r.Put("/terms", locationHandler.UpdateTerms)
			})
		})
	})

	return &Router{r}
}
