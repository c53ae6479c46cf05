package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mini-social/api-go/config"
	"github.com/mini-social/api-go/events"
	"github.com/mini-social/api-go/middleware"
	"github.com/mini-social/api-go/monitoring"
	"github.com/mini-social/api-go/routes"
	"github.com/mini-social/api-go/services"
	"github.com/mini-social/api-go/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	setupLogging(cfg)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := events.NewHub(256)
	go hub.Run(ctx)
	if _, err := monitoring.RegisterSubscriberGauge(prometheus.DefaultRegisterer, hub.ClientCount); err != nil {
		log.WithError(err).Warn("activity subscriber gauge not registered")
	}
	publisher := events.Fanout{hub}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, activity stream disabled")
		} else {
			publisher = append(publisher, events.NewRedisStream(redisClient, cfg.ActivityStream))
			log.WithField("stream", cfg.ActivityStream).Info("publishing activity to redis")
		}
	}

	tokens, err := services.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL, nil)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Initialize routes
	routes.SetupRoutes(r, routes.Dependencies{
		Auth:  services.NewAuthService(st, tokens, publisher),
		Posts: services.NewPostService(st, tokens, publisher),
		Hub:   hub,
		Ping:  st.Ping,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

func setupLogging(cfg config.Config) {
	log.SetOutput(os.Stdout)
	if cfg.GinMode == gin.ReleaseMode {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
