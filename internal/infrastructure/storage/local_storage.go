package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/pkg/config"
)

// LocalStore implementa ports.ImageStore en disco; el servidor HTTP expone Dir bajo /media.
// Pensado para desarrollo.
type LocalStore struct {
	dir     string
	baseURL string
	limits  Limits
}

// NewLocalStore crea el directorio raíz si no existe.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de media: %w", err)
	}
	return &LocalStore{
		dir:     cfg.LocalDir,
		baseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		limits:  Limits{MaxBytes: int64(cfg.MaxUploadMB) << 20, MaxWidth: cfg.MaxWidth},
	}, nil
}

// Dir directorio raíz de los archivos.
func (s *LocalStore) Dir() string { return s.dir }

// Put valida y escribe la imagen; devuelve su URL pública.
func (s *LocalStore) Put(ctx context.Context, folder string, up ports.Upload) (string, error) {
	p, err := prepareImage(folder, up, s.limits)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.dir, filepath.FromSlash(p.key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("crear carpeta: %w", err)
	}
	if err := os.WriteFile(full, p.data, 0o644); err != nil {
		return "", fmt.Errorf("escribir imagen: %w", err)
	}
	return s.baseURL + "/" + p.key, nil
}

// Delete elimina el archivo referenciado por url. Idempotente.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("eliminar imagen: %w", err)
	}
	return nil
}

var _ ports.ImageStore = (*LocalStore)(nil)
