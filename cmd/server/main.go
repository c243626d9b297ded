package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/splitthebill/internal/config"
	"github.com/mmynk/splitthebill/internal/metrics"
	"github.com/mmynk/splitthebill/internal/middleware"
	"github.com/mmynk/splitthebill/internal/service"
	"github.com/mmynk/splitthebill/pkg/api/apiconnect"
	"github.com/mmynk/splitthebill/pkg/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	mux := http.NewServeMux()

	// Register Connect services
	settlementService := service.NewSettlementService(cfg.DefaultTolerance, service.Limits{
		MaxMembers:      cfg.MaxMembers,
		MaxTransactions: cfg.MaxTransactions,
	}, logger, m)
	interceptors := connect.WithInterceptors(
		middleware.RequestID(),
		middleware.LoggingInterceptor(logger),
		middleware.MetricsInterceptor(m),
	)
	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(settlementService, interceptors)
	mux.Handle(settlementPath, settlementHandler)

	mux.Handle(cfg.MetricsPath, m.Handler())

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(middleware.AccessLog(logger, middleware.CORS(mux)), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Connect server starting",
			"address", addr,
			"url", fmt.Sprintf("http://localhost%s", addr),
			"metrics_path", cfg.MetricsPath,
			"default_tolerance", cfg.DefaultTolerance,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
