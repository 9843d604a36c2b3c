package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lancerhq/workspace-service/internal/config"
	"github.com/lancerhq/workspace-service/internal/db"
	"github.com/lancerhq/workspace-service/internal/logger"
	"github.com/lancerhq/workspace-service/internal/rabbitmq"
	"github.com/lancerhq/workspace-service/internal/repository"
	"github.com/lancerhq/workspace-service/internal/server"
	"github.com/lancerhq/workspace-service/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.New("workspace-service")
	defer log.Sync()

	database, err := db.Connect(cfg.DBURL)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}

	migrator := gormigrate.New(database, gormigrate.DefaultOptions, db.Migrations())
	if err := migrator.Migrate(); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warnw("redis unreachable, continuing without cache", "addr", cfg.RedisAddr, "error", err)
			rdb = nil
		}
	}

	var producer service.EventProducer
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewProducer(cfg.RabbitMQURL)
		if err != nil {
			log.Warnw("rabbitmq unreachable, continuing without activity events", "error", err)
		} else {
			defer p.Close()
			producer = p
		}
	}

	projects := repository.NewProjectRepository(database)
	svc := service.New(database, projects, rdb, producer, log)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), server.RequestID())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowOrigins},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Actor-Id", "X-Request-ID"},
	}))

	h := server.New(svc, projects, log)
	h.Register(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTPPort,
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Infow("workspace-service listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Infow("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
