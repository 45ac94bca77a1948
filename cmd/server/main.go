package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/enrichman/httpgrace"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/nliven/airsync/internal/api/middleware"
	route "github.com/nliven/airsync/internal/api/route"
	appctx "github.com/nliven/airsync/internal/app"
	"github.com/nliven/airsync/internal/bus"
	"github.com/nliven/airsync/internal/config"
	"github.com/nliven/airsync/internal/logger"
	"github.com/nliven/airsync/internal/metrics"
	"github.com/nliven/airsync/internal/repository"
	"github.com/nliven/airsync/internal/syncer"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	// Set log level from configuration
	logLevel, err := logrus.ParseLevel(cfg.Misc.LogLevel)
	if err != nil {
		logger.WithComponent("main").Warnf("invalid log level '%s', using 'info': %v", cfg.Misc.LogLevel, err)
		logLevel = logrus.InfoLevel
	}
	logger.Logger.SetLevel(logLevel)
	logger.WithComponent("main").Infof("airport source: %s (state=%s)", cfg.Source.URL, cfg.Source.State)
	logger.WithComponent("main").Infof("app will run on port: %d", cfg.Server.Port)

	store, err := repository.NewJSONStore(cfg.Data.FilePath)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init store: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New("airsync", registry)

	eventBus := bus.New()
	fetcher := syncer.NewHTTPFetcher(cfg.Source.URL, cfg.Source.State, cfg.Source.Format, cfg.Source.FetchTimeout)

	app, err := appctx.New(cfg, store, eventBus, m, fetcher)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	defer app.Shutdown()

	if err := app.StartBackground(); err != nil {
		logger.WithComponent("main").Fatalf("cannot start background workers: %v", err)
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(logger.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))

	route.SetupRoutes(r, app, registry)

	// One sync at startup so the store is warm before the first read.
	if err := app.Syncer.Execute(); err != nil {
		logger.WithComponent("main").Warnf("initial sync not started: %v", err)
	}

	srv := createGraceHTTPServer(app.BaseCtx, "airsync", cfg.Server, r)
	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithComponent("main").Fatal(err)
	}
}

func createGraceHTTPServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
