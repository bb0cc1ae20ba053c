package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/stagelens-backend/internal/adapter/grpc"
	"github.com/simaogato/stagelens-backend/internal/adapter/httpapi"
	"github.com/simaogato/stagelens-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stagelens-backend/internal/config"
	"github.com/simaogato/stagelens-backend/internal/usecase/company"
	"github.com/simaogato/stagelens-backend/internal/usecase/history"
	"github.com/simaogato/stagelens-backend/internal/usecase/pipeline"
	"github.com/simaogato/stagelens-backend/internal/usecase/rules"
	"github.com/simaogato/stagelens-backend/internal/usecase/seeder"
	"github.com/simaogato/stagelens-backend/internal/usecase/snapshot"
	"github.com/simaogato/stagelens-backend/internal/usecase/stage"
	"github.com/simaogato/stagelens-backend/internal/usecase/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	// 1. Setup Database
	// Give Postgres a moment to come up when started alongside it
	time.Sleep(cfg.DBStartupDelay)

	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	// 2. Initialize Repositories (Postgres)
	companyRepo := postgres.NewCompanyRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	definitionRepo := postgres.NewDefinitionRepository(db)

	// 3. Initialize Services (Use Cases)
	p := pipeline.New(validator.New(cfg.MaxFinancialValue), rules.DefaultEngine(), stage.Default())
	companyService := company.NewCompanyService(companyRepo)
	snapshotService := snapshot.NewSnapshotService(companyRepo, snapshotRepo, p, logger)
	historyService := history.NewHistoryService(snapshotRepo)

	// Initialize System Seeder and run it
	if err := seeder.NewSystemSeeder(definitionRepo, logger).Seed(ctx); err != nil {
		return err
	}

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(map[string]grpcadapter.Role{
				cfg.AnalystToken: grpcadapter.RoleAnalyst,
				cfg.AdminToken:   grpcadapter.RoleAdmin,
			}),
		),
	)
	grpcadapter.RegisterStageServiceServer(grpcServer, grpcadapter.NewServer(companyService, snapshotService, historyService))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}

	// 5. Start health HTTP server
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(logger, map[string]httpapi.ReadinessChecker{"postgres": db}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", slog.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("health server listening", slog.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	return waitForShutdown(logger, grpcServer, httpServer, errCh)
}

// waitForShutdown waits for SIGTERM, SIGINT or a server failure and stops both servers
func waitForShutdown(logger *slog.Logger, grpcServer *grpclib.Server, httpServer *http.Server, errCh <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	var serveErr error
	select {
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", slog.String("signal", sig.String()))
	case serveErr = <-errCh:
		logger.Error("server failed, shutting down", slog.Any("error", serveErr))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("health server shutdown", slog.Any("error", err))
	}

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
	return serveErr
}
