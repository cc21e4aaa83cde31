package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartapp "github.com/estore/backend/internal/application/cart"
	catalogapp "github.com/estore/backend/internal/application/catalog"
	checkoutapp "github.com/estore/backend/internal/application/checkout"
	identityapp "github.com/estore/backend/internal/application/identity"
	"github.com/estore/backend/internal/infrastructure/auth"
	"github.com/estore/backend/internal/infrastructure/config"
	"github.com/estore/backend/internal/infrastructure/event"
	"github.com/estore/backend/internal/infrastructure/logger"
	"github.com/estore/backend/internal/infrastructure/persistence"
	"github.com/estore/backend/internal/infrastructure/session"
	"github.com/estore/backend/internal/interfaces/http/handler"
	"github.com/estore/backend/internal/interfaces/http/middleware"
	"github.com/estore/backend/internal/interfaces/http/router"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Online store backend: catalog browsing, shopping carts, checkout and order management.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs shopping sessions and the token blacklist. When it
	// is unreachable both fall back to in-process stores, which is
	// enough for a single instance.
	var (
		sessionStore   session.Store
		tokenBlacklist auth.TokenBlacklist
	)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory session store and token blacklist",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(err))
		sessionStore = session.NewInMemoryStore(cfg.Session.TTL)
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		sessionStore = session.NewRedisStore(redisClient, cfg.Session.TTL)
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}
	cancelPing()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	checkoutScope := persistence.NewGormCheckoutScope(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	productService := catalogapp.NewProductService(productRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	checkoutService := checkoutapp.NewCheckoutService(checkoutScope, cartRepo)
	orderService := checkoutapp.NewOrderService(orderRepo)
	authService := identityapp.NewAuthService(userRepo, profileRepo, jwtService, tokenBlacklist, log)
	profileService := identityapp.NewProfileService(userRepo, profileRepo)

	// Event bus wires checkout to post-commit reactions such as low
	// stock warnings
	eventBus := event.NewInMemoryEventBus(log)
	orderPlacedHandler := checkoutapp.NewOrderPlacedHandler(productRepo, log)
	eventBus.Subscribe(orderPlacedHandler)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	productService.SetEventPublisher(eventBus)
	checkoutService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(db)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(checkoutService, orderService)
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := router.RegisterCustomValidators(); err != nil {
		log.Fatal("Failed to register custom validators", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}
	sessionConfig := middleware.SessionMiddlewareConfig{
		Store:   sessionStore,
		Session: cfg.Session,
		Cookie:  cfg.Cookie,
		Logger:  log,
	}

	// Liveness probe outside API versioning
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Public routes: catalog browsing, account creation, login,
	// token refresh and health probes
	r.Register(systemHandler)
	r.Register(productHandler)
	r.Register(authHandler)

	// Storefront routes: carts work for both guests (anonymous
	// session) and signed-in users (JWT)
	r.Register(router.RegistrarFunc(func(api *gin.RouterGroup) {
		storefront := api.Group("")
		storefront.Use(middleware.OptionalJWTAuthMiddleware(jwtConfig))
		storefront.Use(middleware.SessionMiddleware(sessionConfig))
		cartHandler.RegisterRoutes(storefront)
	}))

	// Protected routes: checkout, order history, profile, logout and
	// the admin surface all require a valid access token
	r.Register(router.RegistrarFunc(func(api *gin.RouterGroup) {
		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))
		orderHandler.RegisterRoutes(protected)
		profileHandler.RegisterRoutes(protected)
		authHandler.RegisterProtectedRoutes(protected)
		productHandler.RegisterAdminRoutes(protected)
		orderHandler.RegisterAdminRoutes(protected)
	}))

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
