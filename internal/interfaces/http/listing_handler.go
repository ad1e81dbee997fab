package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/application/listing"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ListingHandler maneja publicaciones y guardados.
type ListingHandler struct {
	uc  *listing.ListingUseCase
	log *logger.Logger
}

// NewListingHandler construye el handler de publicaciones.
func NewListingHandler(uc *listing.ListingUseCase, log *logger.Logger) *ListingHandler {
	return &ListingHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar publicaciones activas
// @Tags         listings
// @Produce      json
// @Param        category  query  string  false  "categoría"
// @Param        limit     query  int     false  "límite (default 20, máx 100)"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {array}   dto.ListingResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/listings/ [get]
func (h *ListingHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit and offset must be integers"})
	}
	out, err := h.uc.ListActive(c.UserContext(), c.Query("category"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de publicación activa
// @Tags         listings
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ListingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/ [get]
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetActive(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear publicación
// @Description  JSON con image_urls o multipart/form-data con uno o varios archivos images. La primera imagen es la principal.
// @Tags         listings
// @Security     BearerAuth
// @Accept       json,mpfd
// @Produce      json
// @Param        body    body      dto.CreateListingRequest  true   "publicación"
// @Param        images  formData  file                      false  "imágenes"
// @Success      201  {object}  dto.ListingResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/listings/create/ [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	var (
		in      dto.CreateListingRequest
		uploads []ports.Upload
	)
	if isMultipart(c) {
		var err error
		in, err = listingFromForm(c)
		if err != nil {
			return writeError(c, h.log, err)
		}
		uploads, err = formFiles(c, "images")
		if err != nil {
			return invalidBody(c)
		}
	} else if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in, uploads)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// listingFromForm lee los campos de texto de un formulario multipart.
func listingFromForm(c *fiber.Ctx) (dto.CreateListingRequest, error) {
	in := dto.CreateListingRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Condition:   c.FormValue("condition"),
		Location:    c.FormValue("location"),
		Area:        c.FormValue("area"),
	}
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return in, domain.FieldError(domain.ErrInvalidInput, "price", "A valid number is required.")
		}
		in.Price = &p
	}
	if form, err := c.MultipartForm(); err == nil {
		in.ImageURLs = form.Value["image_urls"]
	}
	return in, nil
}

// Mine godoc
// @Summary      Publicaciones del vendedor autenticado
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.ListingResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/listings/mine/ [get]
func (h *ListingHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Activar publicación
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ListingStatusResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/activate/ [post]
func (h *ListingHandler) Activate(c *fiber.Ctx) error {
	return h.status(c, h.uc.Activate)
}

// Deactivate godoc
// @Summary      Desactivar publicación
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ListingStatusResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/deactivate/ [post]
func (h *ListingHandler) Deactivate(c *fiber.Ctx) error {
	return h.status(c, h.uc.Deactivate)
}

// Delete godoc
// @Summary      Eliminar publicación (borrado lógico)
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ListingStatusResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/delete/ [post]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	return h.status(c, h.uc.SoftDelete)
}

type statusFn func(ctx context.Context, actor entity.Actor, id string) (*dto.ListingStatusResponse, error)

func (h *ListingHandler) status(c *fiber.Ctx, fn statusFn) error {
	out, err := fn(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ToggleSave godoc
// @Summary      Guardar / quitar publicación de guardados
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la publicación"
// @Success      200  {object}  dto.ToggleSaveResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/toggle-save/ [post]
func (h *ListingHandler) ToggleSave(c *fiber.Ctx) error {
	out, err := h.uc.ToggleSave(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Saved godoc
// @Summary      Publicaciones guardadas por el comprador
// @Tags         listings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.ListingResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/listings/saved/ [get]
func (h *ListingHandler) Saved(c *fiber.Ctx) error {
	out, err := h.uc.ListSaved(c.UserContext(), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
