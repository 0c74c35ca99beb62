package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-analytics-go/internal/config"
	"github.com/cmlabs-hris/hris-analytics-go/internal/domain/analytics"
	appHTTP "github.com/cmlabs-hris/hris-analytics-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-analytics-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-analytics-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-analytics-go/internal/repository/sqlite"
	analyticsService "github.com/cmlabs-hris/hris-analytics-go/internal/service/analytics"
	exportService "github.com/cmlabs-hris/hris-analytics-go/internal/service/export"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-analytics"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var analyticsRepo analytics.AnalyticsRepository
	switch cfg.Database.Driver {
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			log.Fatal("Error connecting to database: ", err)
		}
		defer db.Close()
		analyticsRepo = postgresql.NewAnalyticsRepository(db)
	case "sqlite":
		db, err := database.NewSQLiteDB(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatal("Error opening sqlite database: ", err)
		}
		defer db.Close()
		if err := sqlite.Migrate(db); err != nil {
			log.Fatal("Error migrating sqlite database: ", err)
		}
		analyticsRepo = sqlite.NewAnalyticsRepository(db)
	default:
		log.Fatal("Unsupported database driver: ", cfg.Database.Driver)
	}

	dimensions, err := config.LoadDimensions(cfg.Dimensions.File)
	if err != nil {
		log.Fatal("Failed to load demographic dimensions: ", err)
	}

	var fileStorage *storage.LocalStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}

	analyticsSvc := analyticsService.NewAnalyticsService(analyticsRepo, dimensions)
	exportSvc := exportService.NewExportService(analyticsSvc, fileStorage)

	scheduler := cron.NewScheduler(time.Local)
	if cfg.Archive.Enabled {
		archiveJobs := cron.NewArchiveJobs(exportSvc)
		if err := archiveJobs.RegisterJobs(scheduler, cfg.Archive.Schedule); err != nil {
			log.Fatal("Failed to register archive job: ", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	analyticsHandler := appHTTP.NewAnalyticsHandler(analyticsSvc, exportSvc)
	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
		FilesPath:      fileStorage.BasePath(),
	}, analyticsHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
