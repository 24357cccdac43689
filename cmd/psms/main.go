package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gninraw7/psms/internal/actuals"
	"github.com/gninraw7/psms/internal/app"
	"github.com/gninraw7/psms/internal/dashboard"
	dashboardhttp "github.com/gninraw7/psms/internal/dashboard/http"
	"github.com/gninraw7/psms/internal/masterdata"
	"github.com/gninraw7/psms/internal/plans"
	"github.com/gninraw7/psms/internal/platform/db"
	"github.com/gninraw7/psms/internal/projects"
	"github.com/gninraw7/psms/internal/report"
	reporthttp "github.com/gninraw7/psms/internal/report/http"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	reportService := report.NewService(report.NewSQLRepository(pool))
	reportHandler := reporthttp.NewHandler(logger, reportService)

	dashboardService := dashboard.NewService(dashboard.NewSQLRepository(pool))
	dashboardHandler := dashboardhttp.NewHandler(logger, dashboardService)

	projectsService := projects.NewService(projects.NewSQLRepository(pool))
	projectsHandler := projects.NewHandler(logger, projectsService)

	plansService := plans.NewService(plans.NewSQLRepository(pool), projectsService)
	plansHandler := plans.NewHandler(logger, plansService)

	actualsService := actuals.NewService(actuals.NewSQLRepository(pool), projectsService)
	actualsHandler := actuals.NewHandler(logger, actualsService)

	masterDataService := masterdata.NewService(masterdata.NewSQLRepository(pool))
	masterDataHandler := masterdata.NewHandler(logger, masterDataService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		ReportHandler:     reportHandler,
		DashboardHandler:  dashboardHandler,
		PlansHandler:      plansHandler,
		ActualsHandler:    actualsHandler,
		ProjectsHandler:   projectsHandler,
		MasterDataHandler: masterDataHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
