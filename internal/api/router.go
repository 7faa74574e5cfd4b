package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorny/user-api/internal/api/handler"
	"github.com/mentorny/user-api/internal/api/middleware"
	"github.com/mentorny/user-api/internal/core/domain"
	"github.com/mentorny/user-api/internal/core/ports"
	"github.com/mentorny/user-api/internal/core/service"
	"github.com/mentorny/user-api/internal/infrastructure/config"
	mongodb "github.com/mentorny/user-api/internal/infrastructure/db/mongo"
	"github.com/mentorny/user-api/internal/pkg/hash"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userapi"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	skillRepo := mongodb.NewSkillRepository(db)
	hasher := hash.NewBcrypt(cfg.BcryptCost)
	issuer := service.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL())
	authService := service.NewAuthService(userRepo, hasher, issuer, cfg.RefreshTTL(), audit, log)
	userService := service.NewUserService(userRepo, skillRepo, hasher, audit, log)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	superAdminOnly := middleware.RBAC(string(domain.RoleSuperAdmin))

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)
	e.GET("/auth/profile", authHandler.Profile, authMiddleware)
	e.PATCH("/auth/users/:id/roles", authHandler.UpdateRoles, authMiddleware, superAdminOnly)

	// --- User routes ---
	e.GET("/users", userHandler.List, authMiddleware, superAdminOnly)
	e.GET("/users/:id", userHandler.Get, authMiddleware)
	e.PATCH("/users/:id", userHandler.Update, authMiddleware)
	e.DELETE("/users/:id", userHandler.Delete, authMiddleware, superAdminOnly)
	e.POST("/users/:id/skills", userHandler.AddSkills, authMiddleware)
	e.GET("/skills", userHandler.ListSkills, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
