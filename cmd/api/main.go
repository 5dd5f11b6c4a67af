package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/config"
	appHTTP "github.com/cmlabs-hris/salary-per-hour/internal/handler/http"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/cron"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/database"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/logger"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-per-hour/internal/repository/postgresql"
	salaryRateService "github.com/cmlabs-hris/salary-per-hour/internal/service/salaryrate"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level, _ := cfg.App.SlogLevel()
	log := logger.New(os.Stdout, logger.Options{
		App:     "salary-per-hour",
		Version: version,
		Env:     cfg.App.Env,
		Level:   level,
		Concise: !cfg.App.IsProduction(),
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{PingTimeout: 5 * time.Second})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return err
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	salaryRateRepo := postgresql.NewSalaryRateRepository(db)

	salaryRateSvc := salaryRateService.NewSalaryRateService(db, employeeRepo, timesheetRepo, salaryRateRepo, fileStorage)
	salaryRateHandler := appHTTP.NewSalaryRateHandler(salaryRateSvc, fileStorage)

	routerOpts := appHTTP.RouterOptions{
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.JWT.Secret != "" {
		routerOpts.JWTService = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.TokenExpiration)
	} else {
		log.Warn("JWT_SECRET_KEY is empty, API authentication is disabled")
	}
	router := appHTTP.NewRouter(routerOpts, salaryRateHandler)

	scheduler := cron.NewScheduler(ctx)
	cron.NewSalaryRateJobs(salaryRateSvc, cfg.Cron.RecalculateInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
