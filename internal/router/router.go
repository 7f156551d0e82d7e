package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/AmpolStack/AccessControlPlatform/internal/config"
	"github.com/AmpolStack/AccessControlPlatform/internal/handler"
	"github.com/AmpolStack/AccessControlPlatform/internal/hashing"
	"github.com/AmpolStack/AccessControlPlatform/internal/infra"
	"github.com/AmpolStack/AccessControlPlatform/internal/middleware"
	"github.com/AmpolStack/AccessControlPlatform/internal/model"
	"github.com/AmpolStack/AccessControlPlatform/internal/repository"
	"github.com/AmpolStack/AccessControlPlatform/internal/service"
	"github.com/AmpolStack/AccessControlPlatform/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	hasher := hashing.New(cfg.BcryptCost)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	estabRepo := repository.NewEstablishmentRepository(db)
	accessRepo := repository.NewAccessRepository(db)
	openingRepo := repository.NewOpeningRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, estabRepo, hasher, cfg)
	accessSvc := service.NewAccessService(accessRepo, userRepo, estabRepo, dispatcher)
	estabSvc := service.NewEstablishmentService(estabRepo, userRepo, openingRepo, hasher)
	reportSvc := service.NewReportService(accessRepo, estabRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUserHandler(authSvc)
	accessH := handler.NewAccessHandler(accessSvc)
	estabsH := handler.NewEstablishmentHandler(estabSvc)
	reportsH := handler.NewReportHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleEmployee)
	staff := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		v1.PUT("/auth/password", anyRole, authH.ChangePassword)

		// Entry/exit registration — any authenticated role can operate a terminal
		access := v1.Group("/access", anyRole)
		{
			access.POST("/entry", accessH.RegisterEntry)
			access.POST("/entry/by-document", accessH.RegisterEntryByDocument)
			access.POST("/exit", accessH.RegisterExit)
		}

		// Establishments — reads for staff, writes for admins
		v1.GET("/establishments", staff, estabsH.List)
		v1.GET("/establishments/:id", staff, estabsH.Get)
		v1.GET("/establishments/:id/openings", staff, estabsH.ListOpenings)
		v1.POST("/establishments/:id/open", staff, estabsH.Open)
		v1.POST("/establishments/:id/close", staff, estabsH.Close)
		estabs := v1.Group("/establishments", adminOnly)
		{
			estabs.POST("", estabsH.Create)
			estabs.PUT("/:id", estabsH.Update)
			estabs.DELETE("/:id", estabsH.Deactivate)
			estabs.POST("/:id/reactivate", estabsH.Reactivate)
		}

		// Reports — staff only
		reports := v1.Group("/reports/establishments/:id", staff)
		{
			reports.GET("/capacity", reportsH.CurrentCapacity)
			reports.GET("/history", reportsH.AccessHistory)
			reports.GET("/history.pdf", reportsH.AccessHistoryPDF)
			reports.GET("/hourly", reportsH.HourlyAverages)
		}

		// User administration — admins only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.POST("/:id/reactivate", usersH.Reactivate)
			users.DELETE("/:id/purge", usersH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
