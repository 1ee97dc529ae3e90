package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campus-spark/events-api/api/swagger"
	"github.com/campus-spark/events-api/internal/handler"
	"github.com/campus-spark/events-api/internal/middleware"
	"github.com/campus-spark/events-api/internal/models"
	"github.com/campus-spark/events-api/internal/repository"
	"github.com/campus-spark/events-api/internal/service"
	"github.com/campus-spark/events-api/internal/store"
	"github.com/campus-spark/events-api/pkg/cache"
	"github.com/campus-spark/events-api/pkg/config"
	"github.com/campus-spark/events-api/pkg/logger"
	corsmiddleware "github.com/campus-spark/events-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campus-spark/events-api/pkg/middleware/requestid"
)

// @title Campus Spark Events API
// @version 1.0.0
// @description Event and registration management for campus events
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsService := service.NewMetricsService()

	var statsCache *cache.Cache
	var kv store.KV
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		kv = store.NewRedis(client)
		statsCache = cache.New(client)
	case config.StoreDriverMemory:
		kv = store.NewMemory()
	default:
		fileStore, err := store.NewFile(cfg.Store.DataDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to open file store", "error", err, "dir", cfg.Store.DataDir)
		}
		kv = fileStore
	}
	kv = store.NewInstrumented(kv, metricsService)

	validate := validator.New()

	eventRepo := repository.NewEventRepository(kv, logr)
	regRepo := repository.NewRegistrationRepository(kv, logr)
	userRepo := repository.NewUserRepository(kv, logr)
	activityRepo := repository.NewActivityRepository(kv, logr)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      "campus-spark",
	})
	statsService := service.NewStatsService(eventRepo, regRepo, statsCacheOrNil(statsCache), cfg.Stats.CacheTTL, logr)
	ledgerService := service.NewLedgerService(eventRepo, regRepo, activityRepo, statsService, validate, logr)
	notificationService := service.NewNotificationService(eventRepo, regRepo, logr)
	exportService := service.NewExportService(eventRepo, regRepo, nil, nil, logr)

	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(ledgerService)
	regHandler := handler.NewRegistrationHandler(ledgerService)
	dashboardHandler := handler.NewDashboardHandler(statsService, activityRepo)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	reportHandler := handler.NewReportHandler(exportService)
	metricsHandler := handler.NewMetricsHandler(metricsService, kv)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/events", middleware.OptionalJWT(authService), eventHandler.List)
	api.GET("/events/:id", middleware.OptionalJWT(authService), eventHandler.Get)

	student := api.Group("")
	student.Use(middleware.JWT(authService), middleware.RequireRoles(models.RoleStudent))
	{
		student.POST("/events/:id/register", regHandler.Register)
		student.DELETE("/registrations/:id", regHandler.Cancel)
		student.POST("/registrations/:id/feedback", regHandler.SubmitFeedback)
		student.GET("/me/registrations", regHandler.MyRegistrations)
		student.GET("/me/events/history", eventHandler.History)
		student.GET("/me/stats", dashboardHandler.StudentStats)
		student.GET("/me/notifications", notificationHandler.StudentNotifications)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/events", eventHandler.Create)
		admin.PUT("/events/:id", eventHandler.Update)
		admin.DELETE("/events/:id", eventHandler.Delete)
		admin.GET("/events/:id/registrations", regHandler.EventRegistrations)
		admin.POST("/registrations/:id/checkin", regHandler.CheckIn)
		admin.DELETE("/registrations/:id", regHandler.Cancel)
		admin.GET("/students", authHandler.Students)
		admin.GET("/feedback", regHandler.AllFeedback)
		admin.GET("/dashboard", dashboardHandler.Dashboard)
		admin.GET("/stats", dashboardHandler.AdminStats)
		admin.GET("/activities", dashboardHandler.Activities)
		admin.GET("/notifications", notificationHandler.AdminNotifications)
		admin.GET("/reports/events", reportHandler.EventsReport)
		admin.GET("/reports/events/:id/roster", reportHandler.EventRoster)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Driver)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// statsCacheOrNil keeps the typed-nil pitfall out of the stats service; the
// file and memory drivers run without a dashboard cache.
func statsCacheOrNil(c *cache.Cache) service.StatsCache {
	if c == nil {
		return nil
	}
	return c
}
