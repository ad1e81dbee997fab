package http

import (
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/biashara-api/internal/application/ports"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// readUpload carga en memoria un archivo multipart. El tamaño máximo lo impone BodyLimit de Fiber
// y después el ImageStore.
func readUpload(fh *multipart.FileHeader) (ports.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return ports.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return ports.Upload{}, err
	}
	return ports.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// formFiles devuelve los archivos de un campo multipart (vacío si no hay formulario o campo).
func formFiles(c *fiber.Ctx, field string) ([]ports.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	files := form.File[field]
	out := make([]ports.Upload, 0, len(files))
	for _, fh := range files {
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}
