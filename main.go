package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"todo-dapp/client/internal/config"
	"todo-dapp/client/internal/engine"
	"todo-dapp/client/internal/handlers"
	"todo-dapp/client/internal/ledger"
	"todo-dapp/client/internal/middleware"
	"todo-dapp/client/internal/monitoring"
	"todo-dapp/client/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	snapshot := store.NewSnapshotStore(&store.SnapshotConfig{
		Addr:         cfg.GetSnapshotAddr(),
		Password:     cfg.Snapshot.Password,
		DB:           cfg.Snapshot.DB,
		PoolSize:     cfg.Snapshot.PoolSize,
		MinIdleConns: cfg.Snapshot.MinIdleConns,
		MaxRetries:   cfg.Snapshot.MaxRetries,
		DialTimeout:  cfg.Snapshot.DialTimeout,
		ReadTimeout:  cfg.Snapshot.ReadTimeout,
		WriteTimeout: cfg.Snapshot.WriteTimeout,
		TasksKey:     cfg.Snapshot.TasksKey,
	})
	defer snapshot.Close()

	local := store.NewLocal(snapshot)

	bridge := ledger.NewHTTPProvider(ledger.HTTPProviderConfig{
		BaseURL:        cfg.Ledger.BridgeURL,
		RequestTimeout: cfg.Ledger.RequestTimeout,
	})
	provider := ledger.NewGuardedProvider(bridge, ledger.NewBreaker(&ledger.BreakerConfig{
		MaxFailures:      cfg.Ledger.BreakerMaxFailures,
		Timeout:          cfg.Ledger.BreakerTimeout,
		HalfOpenMaxCalls: 3,
	}))

	contract := ledger.NewContract(cfg.Ledger.ModuleAddress)

	eng := engine.New(engine.Config{
		SettleDelay:     cfg.Ledger.SettleDelay,
		AddSettleDelay:  cfg.Ledger.AddSettleDelay,
		ProviderGrace:   cfg.Ledger.ProviderGrace,
		NotificationTTL: cfg.Session.NotificationTTL,
	}, provider, contract, local)
	eng.Start()
	defer eng.Stop()

	monitoring.RegisterHealthCheck("snapshot", func(ctx context.Context) error {
		return snapshot.Health()
	})
	monitoring.RegisterHealthCheck("wallet_bridge", func(ctx context.Context) error {
		_, err := provider.Account(ctx)
		return err
	})

	router := setupRouter(cfg, eng)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Todo client listening on %s (contract %s)", cfg.GetServerAddr(), cfg.Ledger.ModuleAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func setupRouter(cfg *config.Config, eng *engine.Engine) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.Default())
	router.Use(monitoring.MetricsMiddleware())

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			RequestsPerSec: cfg.RateLimit.RequestsPerSec,
			BurstSize:      cfg.RateLimit.BurstSize,
		}))
	}

	sessionHandler := handlers.NewSessionHandler(eng, cfg.Session.TokenSecret, cfg.Session.TokenTTL)
	taskHandler := handlers.NewTaskHandler(eng)

	router.GET("/health", monitoring.HealthHandler())
	router.GET("/ready", monitoring.ReadinessHandler())
	router.GET("/live", monitoring.LivenessHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	router.POST("/session/connect", sessionHandler.Connect)
	router.POST("/session/demo", sessionHandler.ConnectDemo)

	authed := router.Group("/")
	authed.Use(middleware.SessionMiddleware(cfg.Session.TokenSecret))
	{
		authed.GET("/session", sessionHandler.GetSession)
		authed.DELETE("/session", sessionHandler.Disconnect)

		authed.GET("/tasks", taskHandler.GetTasks)
		authed.POST("/tasks", taskHandler.CreateTask)
		authed.POST("/tasks/:id/complete", taskHandler.CompleteTask)
		authed.DELETE("/tasks/:id", taskHandler.DeleteTask)
		authed.PATCH("/tasks/:id/priority", taskHandler.UpdatePriority)

		authed.PUT("/filters", taskHandler.SetFilters)
		authed.POST("/refresh", taskHandler.Refresh)
		authed.GET("/notifications", taskHandler.GetNotifications)
	}

	return router
}
