package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"cbbi-status-bot/internal/bot"
	"cbbi-status-bot/internal/config"
	"cbbi-status-bot/internal/handler"
	"cbbi-status-bot/internal/job"
	"cbbi-status-bot/internal/logger"
	"cbbi-status-bot/internal/metrics"
	"cbbi-status-bot/internal/provider"
	"cbbi-status-bot/internal/service"
	"cbbi-status-bot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	_ "cbbi-status-bot/docs"
)

const serviceName = "cbbi-status-bot"

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	newLoggerFunc   = logger.New
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = func(tracer trace.Tracer, url string, timeout time.Duration) service.SnapshotProvider {
		return provider.NewCBBIProvider(tracer, url, timeout)
	}
	openDiscordFunc = func(token string, log *zap.Logger, rec bot.PublishErrorRecorder) (service.StatusPublisher, <-chan struct{}, func() error, error) {
		s, ready, err := bot.OpenDiscordSession(token, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return bot.NewDiscordPublisher(s, log, rec), ready, s.Close, nil
	}
	startJobFunc           = func(j *job.StatusJob, ctx context.Context) { j.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           CBBI Status Bot API
// @version         1.0
// @description     Operator endpoints for the Bitcoin confidence status bot.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	zl, err := newLoggerFunc(cfg.Log)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, serviceName)
	if err != nil {
		zl.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zl.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	publisher, ready, closeDiscord, err := openDiscordFunc(cfg.DiscordBotToken, zl, recorder)
	if err != nil {
		zl.Fatal("failed to start Discord session", zap.Error(err))
	}
	defer func() {
		if err := closeDiscord(); err != nil {
			zl.Warn("error closing Discord session", zap.Error(err))
		}
	}()

	cbbi := newProviderFunc(tracer, cfg.APIURL, time.Duration(cfg.FetchTimeoutSecs)*time.Second)
	statusService := service.NewStatusService(tracer, zl, cbbi, publisher, recorder)

	// The first cycle runs once the gateway reports Ready, so guild state is populated.
	statusJob := job.NewStatusJob(tracer, zl, statusService, cfg.PollInterval)
	var background sync.WaitGroup
	background.Add(1)
	go func() {
		defer background.Done()
		select {
		case <-ctx.Done():
			return
		case <-ready:
		}
		startJobFunc(statusJob, ctx)
	}()

	tg := startTelegramBotFunc(cfg.TelegramBotToken, statusService, zl)
	if tg != nil {
		defer tg.Stop()
	}

	var srv *http.Server
	if cfg.HTTPEnabled {
		r := newRouterFunc()
		r.Use(otelgin.Middleware(serviceName))

		handler.New(tracer, statusService, registry, cfg.HTTPAPIKey).RegisterRoutes(r)
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		srv = &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: r,
		}
		background.Add(1)
		go func() {
			defer background.Done()
			if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
				zl.Fatal("http server stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	zl.Info("shutting down")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
			zl.Error("http server forced to shutdown", zap.Error(err))
		}
	}

	// Join the status job and HTTP server; a cycle may still be publishing on
	// the Discord session closed below.
	background.Wait()

	zl.Info("bot exiting")
}
