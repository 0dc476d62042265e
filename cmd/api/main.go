//	@title			NextSlot Media API
//	@version		1.0
//	@description	Provider logos hosted on Cloudinary and custom-domain DNS targets.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nextslot/media-service/internal/config"
	"github.com/nextslot/media-service/internal/db"
	"github.com/nextslot/media-service/internal/domains"
	"github.com/nextslot/media-service/internal/logging"
	appMiddleware "github.com/nextslot/media-service/internal/middleware"
	"github.com/nextslot/media-service/internal/provider"
	"github.com/nextslot/media-service/internal/storage"

	_ "github.com/nextslot/media-service/docs/swagger"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			logger.Error("database migration failed", "error", err)
			os.Exit(1)
		}
	}

	remote, err := storage.OpenRemote(ctx, cfg, logger)
	if err != nil {
		logger.Error("image storage init failed", "error", err)
		os.Exit(1)
	}
	images := storage.NewCloudinaryStorage(remote, cfg.CloudinaryFolder, logger).Media()

	// Wire dependencies: repository → service → handler
	providerRepo := provider.NewRepository(pool)
	providerSvc := provider.NewService(providerRepo, images, logger)
	providerHandler := provider.NewHandler(providerSvc)

	namer := domains.Namer{Base: cfg.SubdomainBase, TXTPrefix: cfg.TXTPrefix}
	dnsHandler := domains.NewHandler(providerRepo, namer, cfg.DNSRecordTTL)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1/providers/{id}", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))
		r.Use(appMiddleware.RequireProviderAccess)

		r.Get("/logo", providerHandler.GetLogo)
		r.Post("/logo", providerHandler.UploadLogo)
		r.Delete("/logo", providerHandler.DeleteLogo)
		r.Get("/dns", dnsHandler.GetDNS)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.AppEnv, "backend", cfg.StorageBackend, "folder", images.Folder())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
