package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biblioteca/internal/auth"
	"biblioteca/internal/book"
	"biblioteca/internal/cliente"
	"biblioteca/internal/config"
	"biblioteca/internal/httpx"
	"biblioteca/internal/loan"
	"biblioteca/internal/platform/postgres"
	"biblioteca/internal/report"
	"biblioteca/internal/role"
	"biblioteca/internal/user"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DSN:      cfg.DatabaseDSN,
		MaxConns: cfg.MaxConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connection OK", "dsn", postgres.RedactDSN(cfg.DatabaseDSN))

	loanReads := loan.NewPostgresRepo(pool, cfg.QueryTimeout)
	loanTx := loan.NewPostgresTransactor(pool, cfg.LockTimeout, cfg.QueryTimeout)
	engine := loan.NewEngine(loanTx, loanReads, loan.WithLogger(logger))
	guard := loan.NewGuard(loanTx, loanReads, logger)
	availability := loan.NewAvailability(loanReads)

	roleRepo := role.NewPostgresRepo(pool, cfg.QueryTimeout)
	userRepo := user.NewPostgresRepo(pool, cfg.QueryTimeout)

	h := handlers{
		auth:     auth.NewHTTPHandler(auth.NewService(userRepo)),
		users:    user.NewHTTPHandler(user.NewService(userRepo, roleRepo)),
		roles:    role.NewHTTPHandler(role.NewService(roleRepo)),
		books:    book.NewHTTPHandler(book.NewService(book.NewPostgresRepo(pool, cfg.QueryTimeout, cfg.LockTimeout), availability, guard)),
		clientes: cliente.NewHTTPHandler(cliente.NewService(cliente.NewPostgresRepo(pool, cfg.QueryTimeout), guard)),
		loans:    loan.NewHTTPHandler(engine),
		reports:  report.NewHTTPHandler(report.NewService(report.NewPostgresRepo(pool, cfg.QueryTimeout), logger)),
	}

	mux := http.NewServeMux()
	registerRoutes(mux, auth.NewGate(userRepo), h, pool.Ping)

	limiter := httpx.NewRateLimiter(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst)
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      middleware(mux, limiter, cfg.AllowedOrigins, cfg.MaxBodyBytes, cfg.EnableHSTS),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
