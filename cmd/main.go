package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/my-maps-api/config"
	"github.com/oksasatya/my-maps-api/internal/container"
	"github.com/oksasatya/my-maps-api/internal/infrastructure/search"
	"github.com/oksasatya/my-maps-api/internal/interface/middleware"
	"github.com/oksasatya/my-maps-api/internal/router"
	"github.com/oksasatya/my-maps-api/pkg/helpers"
	"github.com/oksasatya/my-maps-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)

	// Entity + blob stores
	closeStores, err := container.OpenStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}
	defer closeStores()

	// Redis (timeline cache)
	if cfg.TimelineCacheEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable; timeline cache will fall through")
		}
		container.SetRedis(rdb)
	}

	// Elasticsearch (user search)
	if cfg.SearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := helpers.EnsureIndex(c, es, cfg.ESUsersIndex, search.UsersMapping); err != nil {
			logger.WithError(err).Warn("could not ensure users index")
		}
		cancel()
		container.SetES(es)
	}

	// RabbitMQ (notification mail jobs)
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; notification mail disabled")
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	r := newEngine(cfg, os.Stdout)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server listening on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// newEngine builds the gin engine with global middleware and every module
// registered from the container. Access logs go to accessLog.
func newEngine(cfg *config.Config, accessLog io.Writer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.BodyLimit(cfg.BodyLimitBytes))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(accessLog))
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	if cfg.DebugMetricsEnabled {
		reg.Use(middleware.Stats())
	}
	router.InitModules(reg)
	reg.RegisterAll()
	return r
}

// corsConfig allows every origin unless CORS_ALLOWED_ORIGINS is set.
// Credentials are only allowed together with an explicit origin list.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	} else {
		c.AllowAllOrigins = true
	}
	return c
}
