package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/client"
	"github.com/goelzer/oficina/internal/config"
	"github.com/goelzer/oficina/internal/crud"
	"github.com/goelzer/oficina/internal/render"
	"github.com/goelzer/oficina/internal/scheduler"
	"github.com/goelzer/oficina/internal/store"
	"github.com/goelzer/oficina/internal/webapp"
	"github.com/goelzer/oficina/pkg/logger"
)

func main() {
	log, err := logger.New()
	logger.Must(log, err)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	api := client.New(cfg.WebApp.APIBaseURL)
	if cfg.WebApp.APIPassword != "" {
		if err := api.Login(ctx, cfg.WebApp.APIEmail, cfg.WebApp.APIPassword); err != nil {
			log.Fatal("api login failed", zap.Error(err))
		}
		log.Info("logged into api", zap.String("email", cfg.WebApp.APIEmail))
	}
	st := store.New(api, logger.Named(log, "store"))
	manager := crud.NewManager(api, st, nil, logger.Named(log, "crud"))
	renderer := render.New(logger.Named(log, "render"))

	if err := st.RefreshAll(ctx); err != nil {
		log.Warn("initial load failed, starting empty", zap.Error(err))
	}

	sched := scheduler.New(logger.Named(log, "scheduler"))
	err = sched.Add(cfg.WebApp.RefreshCron, "refresh", func() error {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return manager.RefreshAll(refreshCtx)
	})
	if err != nil {
		log.Fatal("schedule refresh", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	handler := webapp.NewHandler(st, manager, api, renderer, cfg.WebApp.PageSize, logger.Named(log, "http"))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.WebApp.Port,
		Handler: router,
	}

	go func() {
		log.Info("webapp starting", zap.String("port", cfg.WebApp.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("webapp stopped")
}
