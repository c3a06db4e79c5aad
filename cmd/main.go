package main

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"healthhub/internal/caching"
	"healthhub/internal/config"
	"healthhub/internal/handlers"
	"healthhub/internal/jobs/background"
	"healthhub/internal/middleware"
	"healthhub/internal/repositories"
	"healthhub/internal/services"
	"healthhub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Repositories
	tenantRepo := repositories.NewTenantRepo(pool)
	adminUserRepo := repositories.NewAdminUserRepo(pool)
	grantRepo := repositories.NewGrantRepo(pool)
	sessionRepo := repositories.NewSessionRepo(pool)
	patientRepo := repositories.NewPatientRepo(pool)
	referralRepo := repositories.NewReferralRepo(pool)
	bookingRepo := repositories.NewBookingRepo(pool)
	auditRepo := repositories.NewAccessAuditRepo(pool)

	// Tenant directory with redis read-through cache
	tenantCache := caching.NewRedisTenantCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	directory := services.NewTenantDirectory(tenantRepo, tenantCache, logger)

	// Core services
	resolver := services.NewTenantResolver(directory, logger)
	authService := services.NewAuthService(adminUserRepo, sessionRepo, cfg.SessionTTL(), logger)
	guard := services.NewAccessGuard(grantRepo, adminUserRepo, auditRepo, directory, logger)
	referralService := services.NewReferralService(referralRepo)
	bookingService := services.NewBookingService(pool, patientRepo, referralRepo, bookingRepo, logger)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(resolver, authService, guard, logger)

	// Handlers
	healthHandlers := handlers.NewHealthHandlers(pool)
	authHandlers := handlers.NewAuthHandlers(authService, adminUserRepo, logger)
	bookingHandlers := handlers.NewBookingHandlers(bookingService, logger)
	referralHandlers := handlers.NewReferralHandlers(referralService, logger)
	tenantHandlers := handlers.NewTenantHandlers(directory, grantRepo, logger)
	auditHandlers := handlers.NewAuditHandlers(auditRepo, logger)

	// Background jobs
	scheduler, err := background.NewJobScheduler(sessionRepo, directory, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create job scheduler")
	}
	scheduler.Start()
	defer scheduler.Stop()

	warmCtx, warmCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := directory.WarmCache(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("initial tenant cache warm failed")
	}
	warmCancel()

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)

	v1 := e.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)

	// Public routes: an unresolved tenant falls back to the configured default
	public := v1.Group("")
	public.Use(authMiddleware.ResolveTenant(cfg.DefaultTenantCode))
	public.POST("/bookings", bookingHandlers.CreateBooking)
	public.POST("/referrals/validate", referralHandlers.ValidateReferral)

	// Admin routes: tenant resolution is fatal, session and grant required
	admin := v1.Group("")
	admin.Use(authMiddleware.RequireAdminTenant())
	admin.GET("/me", authHandlers.Me)
	admin.GET("/admin/bookings", bookingHandlers.ListBookings)
	admin.GET("/admin/bookings/:id", bookingHandlers.GetBooking)
	admin.PUT("/admin/bookings/:id/status", bookingHandlers.UpdateBookingStatus)
	admin.GET("/admin/tenants", tenantHandlers.ListMyTenants)
	admin.PUT("/admin/tenants/:id/active", tenantHandlers.SetTenantActive)
	admin.POST("/admin/grants", tenantHandlers.CreateGrant)
	admin.DELETE("/admin/grants/:user_id", tenantHandlers.DeleteGrant)
	admin.GET("/admin/audit", auditHandlers.ListAuditEntries)

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
