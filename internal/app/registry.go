package app

import (
	"net/http"
	"time"

	"go-kintai/internal/attendance"
	"go-kintai/internal/auth"
	"go-kintai/internal/bulletin"
	"go-kintai/internal/calendar"
	"go-kintai/internal/event"
	"go-kintai/internal/holiday"
	"go-kintai/internal/middleware"
	"go-kintai/internal/rbac"
	"go-kintai/internal/shared/response"
	"go-kintai/internal/staff"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func registerModules(router *gin.Engine, a *App) error {
	cfg := a.Config
	logger := a.Logger

	// --- Repositories ---
	staffRepo := staff.NewRepository(a.Store)
	attendanceRepo := attendance.NewRepository(a.Store)
	eventRepo := event.NewRepository(a.Store)
	bulletinRepo := bulletin.NewRepository(a.Store, cfg.Location())

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer(rbac.DefaultPolicies())
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	staffService := staff.NewService(staffRepo, logger)
	authService := auth.NewService(auth.Config{
		Secret:            cfg.Auth.JWTSecret,
		AccessTTL:         cfg.Auth.AccessTTL,
		AdminName:         cfg.Auth.AdminName,
		AdminPasswordHash: cfg.Auth.AdminPasswordHash,
	}, staffService, logger)
	attendanceService := attendance.NewService(attendanceRepo, a.Rules, a.Idempotency, a.Publisher, logger)
	eventService := event.NewService(eventRepo, a.Publisher, logger)
	bulletinService := bulletin.NewService(bulletinRepo, a.Publisher, logger)
	calendarService := calendar.NewService(attendanceRepo, eventRepo, holiday.NewJapan(), logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, cfg.Server.SecureCookies)
	staffHandler := staff.NewHandler(staffService, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	eventHandler := event.NewHandler(eventService, logger)
	bulletinHandler := bulletin.NewHandler(bulletinService, logger)
	calendarHandler := calendar.NewHandler(calendarService, logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	if len(cfg.Server.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	}
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"store": a.Store.ID()}, nil)
	})

	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecret)
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW)
		staff.RegisterRoutes(api, staffHandler, authMW, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, authMW, rbacService)
		event.RegisterRoutes(api, eventHandler, authMW, rbacService)
		bulletin.RegisterRoutes(api, bulletinHandler, authMW, rbacService)
		calendar.RegisterRoutes(api, calendarHandler, authMW, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, authMW, rbacService)
	}

	return nil
}

// corsConfig allows credentials only for an explicit origin list; "*"
// opens every origin without cookies.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.IdempotencyHeader, "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
