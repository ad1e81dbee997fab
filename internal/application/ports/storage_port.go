package ports

import "context"

// Upload archivo recibido por HTTP, ya leído en memoria.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore define el puerto de salida hacia el almacenamiento de objetos (S3, disco local).
// La aplicación solo guarda la URL devuelta; nunca persiste bytes en la base de datos.
type ImageStore interface {
	// Put guarda la imagen bajo folder (ej. "sellers", "listings") y devuelve su URL pública.
	// Devuelve domain.ErrInvalidInput si el contenido no es una imagen soportada.
	Put(ctx context.Context, folder string, img Upload) (string, error)
	// Delete elimina el objeto referenciado por url. Idempotente.
	Delete(ctx context.Context, url string) error
}
