package storage

import (
	"go.uber.org/zap"

	catalogapp "github.com/swiftbasket/backend/internal/application/catalog"
	infraconfig "github.com/swiftbasket/backend/internal/infrastructure/config"
)

// NewObjectStorageFromConfig returns the S3 implementation when storage is
// enabled and the stub otherwise. Bucket provisioning is left to the
// caller via EnsureBucket so startup controls when the network is touched.
func NewObjectStorageFromConfig(cfg *infraconfig.StorageConfig, logger *zap.Logger) (catalogapp.ObjectStorageService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg == nil || !cfg.Enabled {
		logger.Info("object storage disabled, using stub")
		return NewStubObjectStorage(), nil
	}

	store, err := NewS3ObjectStorage(cfg, WithLogger(logger))
	if err != nil {
		return nil, err
	}

	logger.Info("object storage enabled",
		zap.String("bucket", cfg.Bucket),
		zap.String("endpoint", cfg.Endpoint))

	return store, nil
}
