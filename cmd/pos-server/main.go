package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/cafe-pos/internal/catalog"
	"github.com/jcmexdev/cafe-pos/internal/display"
	"github.com/jcmexdev/cafe-pos/internal/httpx"
	"github.com/jcmexdev/cafe-pos/internal/order"
	"github.com/jcmexdev/cafe-pos/internal/orderlog"
	"github.com/jcmexdev/cafe-pos/internal/orderlog/memory"
	logsqlite "github.com/jcmexdev/cafe-pos/internal/orderlog/sqlite"
	"github.com/jcmexdev/cafe-pos/internal/payment"
	"github.com/jcmexdev/cafe-pos/internal/pkg/cache"
	"github.com/jcmexdev/cafe-pos/internal/pkg/telemetry"
)

func main() {
	telemetry.InitLogger("pos-server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, "pos-server")
	if err != nil {
		slog.Error("tracer setup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdown(context.Background()) }()

	httpAddr := getEnv("POS_HTTP_ADDR", ":8080")
	cafeName := getEnv("POS_CAFE_NAME", "Local Café")
	taxRate := getEnvFloat("POS_TAX_RATE", 0.15)
	prepDelay := time.Duration(getEnvInt("POS_PREP_SECONDS", 60)) * time.Second

	// Order log: SQLite on disk, or in-memory when no path is configured.
	var history orderlog.Repository
	if dbPath := os.Getenv("POS_DB_PATH"); dbPath != "" {
		repo, err := logsqlite.Open(dbPath)
		if err != nil {
			slog.Error("order log open failed", "path", dbPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()
		history = repo
	} else {
		history = memory.New()
	}
	recorder := orderlog.NewRecorder(history)

	// Rendered bills are cached in Redis when an address is configured.
	var billCache cache.Cache
	if redisAddr := os.Getenv("POS_REDIS_ADDR"); redisAddr != "" {
		billCache = cache.NewRedisCache(redisAddr, "pos-server")
	}

	menu := catalog.NewCatalog("main", cafeName+" Menu")
	registry := order.NewRegistry()
	payments := payment.NewService()

	observers := []order.Observer{
		display.NewKitchen(slog.Default()),
		display.NewBillingMonitor(slog.Default()),
	}

	// The preparing→ready delay is owned here, not by the order aggregate:
	// checkout completes, and this process schedules the follow-up.
	markReady := func(orderID string) {
		time.AfterFunc(prepDelay, func() {
			o, err := registry.Get(orderID)
			if err != nil {
				slog.Error("ready timer: order lookup failed", "order_id", orderID, "error", err)
				return
			}
			if o.Status() != order.StatusPreparing {
				return
			}
			if err := o.SetStatus(order.StatusReady); err != nil {
				slog.Warn("ready timer: notify failed", "order_id", orderID, "error", err)
			}
		})
	}

	handler := httpx.NewHandler(menu, registry, payments, history, recorder,
		observers, billCache, taxRate, cafeName, markReady)
	router := httpx.NewRouter(handler)

	srv := &http.Server{
		Addr:    httpAddr,
		Handler: otelhttp.NewHandler(router, "pos-server"),
	}

	go func() {
		slog.Info("POS server running", "addr", httpAddr, "cafe", cafeName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
