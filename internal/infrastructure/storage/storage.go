package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/pkg/config"
)

// New construye el ImageStore según STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (ports.ImageStore, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local", "":
		return NewLocalStore(cfg)
	default:
		return nil, fmt.Errorf("storage driver %q no soportado", cfg.Driver)
	}
}
