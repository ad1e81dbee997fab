package testutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/stretchr/testify/mock"
)

// FakeImageStore guarda las imágenes en memoria y registra las eliminaciones.
type FakeImageStore struct {
	mu      sync.Mutex
	n       int
	Objects map[string]ports.Upload
	Deleted []string

	// PutErr, si no es nil, se devuelve en cada Put.
	PutErr error
}

// NewFakeImageStore crea el fake vacío.
func NewFakeImageStore() *FakeImageStore {
	return &FakeImageStore{Objects: map[string]ports.Upload{}}
}

func (f *FakeImageStore) Put(ctx context.Context, folder string, img ports.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PutErr != nil {
		return "", f.PutErr
	}
	f.n++
	url := fmt.Sprintf("https://media.test/biashara/%s/%d-%s", folder, f.n, img.Filename)
	f.Objects[url] = img
	return url, nil
}

func (f *FakeImageStore) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, url)
	f.Deleted = append(f.Deleted, url)
	return nil
}

// Len número de objetos almacenados.
func (f *FakeImageStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Objects)
}

var _ ports.ImageStore = (*FakeImageStore)(nil)

// MockImageStore mock con testify para verificar llamadas exactas.
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, folder string, img ports.Upload) (string, error) {
	args := m.Called(ctx, folder, img)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

var _ ports.ImageStore = (*MockImageStore)(nil)

// PNG genera una imagen PNG válida de w x h para tests de subida.
func PNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
