package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/nfnt/resize"
)

// Prefijo común de todas las claves de objeto.
const rootFolder = "biashara"

// MaxPixels tope de ancho*alto declarado en la cabecera; se comprueba antes de decodificar.
const MaxPixels = 40_000_000

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// prepared imagen validada lista para guardar.
type prepared struct {
	key         string
	data        []byte
	contentType string
}

// Limits restricciones aplicadas a toda imagen antes de guardarla.
type Limits struct {
	MaxBytes int64 // 0 = sin límite
	MaxWidth uint  // 0 = sin redimensionar
}

// prepareImage detecta el tipo por contenido (no por nombre ni header), valida las dimensiones declaradas,
// decodifica para descartar archivos corruptos y reduce el ancho a MaxWidth conservando proporción. Cualquier rechazo es domain.ErrInvalidInput.
func prepareImage(folder string, up ports.Upload, lim Limits) (*prepared, error) {
	if len(up.Data) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if lim.MaxBytes > 0 && int64(len(up.Data)) > lim.MaxBytes {
		return nil, fmt.Errorf("%w: imagen supera %d bytes", domain.ErrInvalidInput, lim.MaxBytes)
	}
	contentType := http.DetectContentType(up.Data)
	ext, ok := extensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: tipo %s no soportado", domain.ErrInvalidInput, contentType)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(up.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: imagen corrupta: %v", domain.ErrInvalidInput, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: dimensiones %dx%d fuera de rango", domain.ErrInvalidInput, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: imagen corrupta: %v", domain.ErrInvalidInput, err)
	}

	data := up.Data
	if lim.MaxWidth > 0 && uint(img.Bounds().Dx()) > lim.MaxWidth && contentType != "image/gif" {
		resized := resize.Resize(lim.MaxWidth, 0, img, resize.Lanczos3)
		var buf bytes.Buffer
		if contentType == "image/png" {
			err = png.Encode(&buf, resized)
		} else {
			err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
		}
		if err != nil {
			return nil, fmt.Errorf("re-encode image: %w", err)
		}
		data = buf.Bytes()
	}

	return &prepared{
		key:         path.Join(rootFolder, cleanFolder(folder), uuid.NewString()+ext),
		data:        data,
		contentType: contentType,
	}, nil
}

func cleanFolder(folder string) string {
	f := strings.Trim(path.Clean("/"+folder), "/")
	if f == "" || f == "." {
		return "misc"
	}
	return f
}
