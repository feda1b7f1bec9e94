package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/wf_cart/config"
	"github.com/Gunvolt24/wf_cart/internal/gateway/storefront"
	"github.com/Gunvolt24/wf_cart/internal/kafka"
	"github.com/Gunvolt24/wf_cart/internal/notify"
	"github.com/Gunvolt24/wf_cart/internal/ports"
	"github.com/Gunvolt24/wf_cart/internal/repo/memory"
	"github.com/Gunvolt24/wf_cart/internal/repo/postgres"
	"github.com/Gunvolt24/wf_cart/internal/session"
	rest "github.com/Gunvolt24/wf_cart/internal/transport/http"
	"github.com/Gunvolt24/wf_cart/internal/usecase"
	"github.com/Gunvolt24/wf_cart/pkg/logger"
	"github.com/Gunvolt24/wf_cart/pkg/metrics"
	"github.com/Gunvolt24/wf_cart/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ErrUnknownStorageDriver - в конфиге указан неизвестный драйвер хранилища.
var ErrUnknownStorageDriver = errors.New("unknown storage driver")

// App - собранное приложение: HTTP API страниц, метрики, консьюмер фреймов, реестр сессий.
type App struct {
	Logger        ports.Logger
	HTTPServer    *http.Server
	MetricsServer *http.Server          // nil - отдельного listener нет
	KafkaConsumer ports.MessageConsumer // nil - консьюмер выключен
	Sessions      *session.Registry     // nil - без фоновой очистки

	sweepInterval   time.Duration
	gracefulTimeout time.Duration
}

// Cleanup - освобождение ресурсов.
type Cleanup func()

// applyGinMode - режим Gin по строке; неизвестное значение -> debug с предупреждением.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap - собирает зависимости по конфигу.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	metrics.MustRegister()

	provider, closeStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		_ = cleanupLogger()
		return nil, func() {}, err
	}
	logg.Infof(ctx, "client storage driver=%s reread_before_mutation=%t", cfg.Storage.Driver, cfg.Storage.RereadBeforeMutation)

	shutdownTrace, err := telemetry.SetupTracing(ctx, telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logg.Warnf(ctx, "failed to setup tracing: %v", err)
		shutdownTrace = func(context.Context) error { return nil }
	}

	api := storefront.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	opts := session.Options{
		Checkout: usecase.CheckoutConfig{
			LoginURL:   cfg.Backend.LoginURL,
			ReceiptURL: cfg.Backend.ReceiptURL,
			ReturnURL:  cfg.Backend.ReturnURL,
		},
		Notify: notify.Options{
			StatusDelay:    cfg.Notify.StatusDelay,
			AddedDuration:  cfg.Notify.AddedDuration,
			StatusDuration: cfg.Notify.StatusDuration,
		},
		RereadBeforeMutation: cfg.Storage.RereadBeforeMutation,
		OutboxSize:           cfg.Sessions.OutboxSize,
	}
	registry := session.NewRegistry(cfg.Sessions.Capacity, cfg.Sessions.TTL, session.NewFactory(provider, api, logg, opts), logg)

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}
	router := rest.NewRouter(rest.NewHandler(registry, logg, cfg.HTTP.HandlerTimeout), cfg.HTTP.StaticDir, otelServiceName)

	app := &App{
		Logger: logg,
		HTTPServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           router,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		Sessions:        registry,
		sweepInterval:   cfg.Sessions.SweepInterval,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	if cfg.Metrics.Addr != "" && cfg.Metrics.Addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.MetricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	}

	if cfg.Kafka.Enabled {
		app.KafkaConsumer = kafka.NewConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			GroupID:        cfg.Kafka.GroupID,
			Topic:          cfg.Kafka.Topic,
			StartOffset:    cfg.Kafka.StartOffset,
			Lanes:          cfg.Kafka.Lanes,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, registry, logg)
	}

	// в обратном порядке сборки
	cleanup := func() {
		if err := shutdownTrace(context.Background()); err != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", err)
		}
		if app.KafkaConsumer != nil {
			if err := app.KafkaConsumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}
		closeStorage()
		if err := cleanupLogger(); err != nil {
			logg.Warnf(ctx, "cleanup logger: %v", err)
		}
	}

	return app, cleanup, nil
}

// openStorage - клиентское хранилище сессий по имени драйвера.
func openStorage(ctx context.Context, cfg config.Storage) (ports.ClientStorageProvider, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "memory":
		return memory.NewClientStorage(), func() {}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DSN, cfg.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewClientStorage(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Driver)
	}
}

// Run - запускает серверы, консьюмер и очистку сессий; по отмене ctx или
// ошибке компонента останавливает всё.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)
	var wg sync.WaitGroup

	if a.KafkaConsumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Logger.Infof(runCtx, "frame consumer starting")
			if err := a.KafkaConsumer.Run(runCtx); err != nil {
				errCh <- err
			}
		}()
	}

	if a.Sessions != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Sessions.Run(runCtx, a.sweepInterval)
		}()
	}

	for _, srv := range []*http.Server{a.HTTPServer, a.MetricsServer} {
		if srv == nil {
			continue
		}
		go func(srv *http.Server) {
			a.Logger.Infof(runCtx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), gt)
	defer cancelShutdown()

	for _, srv := range []*http.Server{a.HTTPServer, a.MetricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed addr=%s: %v", srv.Addr, err)
		}
	}

	cancel()
	wg.Wait()

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "frame consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
