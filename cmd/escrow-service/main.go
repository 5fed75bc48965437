package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LavaJover/shvark-escrow-service/internal/app/background"
	"github.com/LavaJover/shvark-escrow-service/internal/app/setup"
	"github.com/LavaJover/shvark-escrow-service/internal/config"
	"github.com/LavaJover/shvark-escrow-service/internal/delivery/grpcapi"
	httpapi "github.com/LavaJover/shvark-escrow-service/internal/delivery/http"
	"github.com/LavaJover/shvark-escrow-service/internal/infrastructure/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	_, logCloser := logger.Setup(cfg.LogConfig)
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize dependencies", "error", err)
		os.Exit(1)
	}
	defer deps.Close()

	uc := setup.InitializeUseCases(deps)

	// HTTP API
	handler := httpapi.NewHandler(
		uc.ListingUsecase,
		uc.AuctionUsecase,
		uc.TransactionUsecase,
		uc.DisputeUsecase,
		uc.ReviewUsecase,
	)
	httpServer := &http.Server{
		Addr: fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: httpapi.NewRouter(handler, httpapi.RouterConfig{
			JWTSecret:      cfg.Auth.JWTSecret,
			CallbackToken:  cfg.Gateway.CallbackToken,
			Idempotency:    deps.Idempotency,
			IdempotencyTTL: cfg.Redis.IdempotencyTTL,
			Metrics:        promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}),
		}),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// Internal gRPC API
	grpcServer, healthServer := grpcapi.NewServer(grpcapi.NewEscrowHandler(
		uc.TransactionUsecase,
		uc.DisputeUsecase,
		uc.AuctionUsecase,
	))
	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%s", cfg.GRPCServer.Host, cfg.GRPCServer.Port))
	if err != nil {
		slog.Error("failed to listen", "error", err)
		os.Exit(1)
	}

	// Scheduler
	var tasks *background.BackgroundTasks
	if cfg.Scheduler.Enabled {
		tasks = background.NewBackgroundTasks(cfg.Scheduler, uc.TransactionUsecase, uc.AuctionUsecase)
		tasks.StartAll(ctx)
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("http server started", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		slog.Info("grpc server started", "addr", lis.Addr().String())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server failed", "error", err)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	if tasks != nil {
		tasks.Wait()
	}
	slog.Info("escrow service stopped")
}
