package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nextslot/media-service/internal/config"
)

// OpenRemote builds the Remote selected by cfg.StorageBackend.
func OpenRemote(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Remote, error) {
	switch cfg.StorageBackend {
	case "", "cloudinary":
		if !cfg.HasCloudinaryCredentials() {
			logger.Warn("cloudinary credentials missing, remote calls will fail")
		}
		return NewCloudinaryRemote(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	case "minio":
		return NewMinioRemote(ctx,
			cfg.StorageEndpoint,
			cfg.StorageAccessKey,
			cfg.StorageSecretKey,
			cfg.StorageBucket,
			cfg.StoragePublicBase,
			cfg.StorageUseSSL,
			logger,
		)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
