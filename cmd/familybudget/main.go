package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/patogeno/family-budget-app/internal/api"
	"github.com/patogeno/family-budget-app/internal/config"
	"github.com/patogeno/family-budget-app/internal/database"
	"github.com/patogeno/family-budget-app/internal/database/repository"
	"github.com/patogeno/family-budget-app/internal/jobs"
	"github.com/patogeno/family-budget-app/internal/logger"
	"github.com/patogeno/family-budget-app/internal/service"
)

func main() {
	ctx := context.Background()

	// .env for local dev; config proper comes from viper
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		zlog.Fatal("mkdir db dir", zap.Error(err))
	}
	if err := database.RunEmbeddedMigrations(cfg.Database.Path); err != nil {
		zlog.Fatal("migrate", zap.Error(err))
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		zlog.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	// repositories
	txRepo := repository.NewTransactionRepo(db)
	acctRepo := repository.NewAccountRepo(db)
	groupRepo := repository.NewBudgetGroupRepo(db)
	typeRepo := repository.NewTransactionTypeRepo(db)
	patternRepo := repository.NewPatternRepo(db)
	initRepo := repository.NewBudgetInitializationRepo(db)
	adjRepo := repository.NewBudgetAdjustmentRepo(db)

	// services
	matcher := service.NewMatcher(patternRepo, typeRepo, groupRepo)
	importer := &service.Importer{
		Transactions: txRepo,
		Accounts:     acctRepo,
		Types:        typeRepo,
		Patterns:     patternRepo,
		Matcher:      matcher,
		Formats:      cfg.Format,
		Log:          zlog,
	}
	reviewer := &service.Reviewer{Transactions: txRepo, Log: zlog}
	sweeper := &service.Sweeper{Transactions: txRepo, Matcher: matcher, Log: zlog}
	adjuster := &service.Adjuster{Transactions: txRepo, Accounts: acctRepo, Groups: groupRepo, Types: typeRepo}
	maintenance := &service.MaintenanceService{DB: db}

	if cfg.Sweep.Enabled {
		scheduler := &jobs.Scheduler{Sweeper: sweeper, Schedule: cfg.Sweep.Schedule, Log: zlog}
		if err := scheduler.Start(ctx); err != nil {
			zlog.Fatal("sweep scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	handler := &api.Handler{
		Importer:        importer,
		Reviewer:        reviewer,
		Sweeper:         sweeper,
		Adjuster:        adjuster,
		Maintenance:     maintenance,
		Accounts:        acctRepo,
		Groups:          groupRepo,
		Types:           typeRepo,
		Patterns:        patternRepo,
		Transactions:    txRepo,
		Initializations: initRepo,
		Adjustments:     adjRepo,
		FormatLabels:    cfg.FormatLabels,
		Log:             zlog,
	}

	root := mux.NewRouter()
	root.Use(api.RequestLogger(zlog))
	handler.RegisterRoutes(root.PathPrefix("/api").Subrouter())

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: root,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
	zlog.Info("server stopped")
}
