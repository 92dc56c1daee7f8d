package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"homeclean_backend/internal/config"
	"homeclean_backend/internal/confirm"
	"homeclean_backend/internal/database"
	"homeclean_backend/internal/events"
	"homeclean_backend/internal/guard"
	"homeclean_backend/internal/router"
	"homeclean_backend/internal/session"
	"homeclean_backend/internal/telemetry"
	"homeclean_backend/pkg/utils"
)

const guardTTL = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.InitLogger("info", false)
		utils.LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)

	shutdownTracing := telemetry.Setup(cfg.OTelServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	deps := router.Dependencies{
		DB:        db,
		Config:    cfg,
		Publisher: events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix),
	}
	defer deps.Publisher.Close()

	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			utils.LogError(err, "Invalid REDIS_URL")
			os.Exit(1)
		}
		rdb := redis.NewClient(redisOpts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			utils.LogError(err, "Failed to connect to Redis")
			os.Exit(1)
		}
		deps.Guard = guard.NewRedisGuard(rdb, guardTTL, "homeclean:guard")
		deps.Confirmations = confirm.NewRedisStore(rdb, "homeclean:confirm")
		deps.Revocations = session.NewRedisRevocations(rdb, "homeclean:revoked")
		utils.LogInfo("Using Redis for guards, confirmations and revocations")
	} else {
		deps.Guard = guard.NewMemoryGuard()
		deps.Confirmations = confirm.NewMemoryStore()
		deps.Revocations = session.NewMemoryRevocations()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	if err := router.Setup(ctx, engine, deps); err != nil {
		utils.LogError(err, "Failed to set up routes")
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(engine, "homeclean-http"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		utils.LogError(err, "Tracer shutdown failed")
	}
}
