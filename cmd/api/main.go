package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/goelzer/oficina/internal/auth"
	"github.com/goelzer/oficina/internal/config"
	"github.com/goelzer/oficina/internal/scheduler"
	"github.com/goelzer/oficina/internal/server"
	"github.com/goelzer/oficina/internal/storage"
	"github.com/goelzer/oficina/internal/storage/blob"
	"github.com/goelzer/oficina/internal/storage/postgres"
	"github.com/goelzer/oficina/pkg/logger"
)

func main() {
	restore := flag.Bool("restore", false, "replace the data file with the latest backup before serving")
	flag.Parse()

	log, err := logger.New()
	logger.Must(log, err)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx := context.Background()

	var repo storage.Repository
	sched := scheduler.New(logger.Named(log, "scheduler"))

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Storage.DatabaseURL)
		if err != nil {
			log.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("ping database", zap.Error(err))
		}
		pg := postgres.New(db)
		if err := pg.Migrate(ctx); err != nil {
			log.Fatal("migrate schema", zap.Error(err))
		}
		log.Info("connected to postgres")
		repo = pg

	case config.DriverFile:
		st, err := blob.Open(cfg.Storage.DataFile, logger.Named(log, "blob"))
		if err != nil {
			log.Fatal("open data file", zap.Error(err))
		}
		log.Info("using file storage", zap.String("path", cfg.Storage.DataFile))
		if *restore {
			if err := st.RestoreLatest(cfg.Storage.BackupDir); err != nil {
				log.Fatal("restore backup", zap.Error(err))
			}
			log.Info("restored latest backup", zap.String("dir", cfg.Storage.BackupDir))
		}
		repo = st

		backupDir := cfg.Storage.BackupDir
		keep := cfg.Storage.BackupKeep
		err = sched.Add(cfg.Storage.BackupCron, "backup", func() error {
			return st.Backup(backupDir, keep)
		})
		if err != nil {
			log.Fatal("schedule backup", zap.Error(err))
		}
	}

	authService := auth.NewService(cfg.Auth, logger.Named(log, "auth"))
	service := server.NewService(repo, logger.Named(log, "service"))
	handler := server.NewHandler(service, authService, logger.Named(log, "http"))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	handler.RegisterRoutes(router)

	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("api server starting", zap.String("port", cfg.Server.Port))
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
	log.Info("api server stopped")
}
