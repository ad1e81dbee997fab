package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
	"github.com/jhoicas/biashara-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	listingImagesFolder = "listings"

	msgSaved   = "Listing saved"
	msgUnsaved = "Listing unsaved"
)

// Tope de NUMERIC(12,2).
var maxPrice = decimal.New(1, 10)

// ListingUseCase casos de uso de publicaciones: listado público, alta por vendedor,
// transiciones de estado y guardado por compradores.
type ListingUseCase struct {
	txRunner TxRunner
	listings repository.ListingRepository
	saved    repository.SavedListingRepository
	buyers   repository.BuyerProfileRepository
	sellers  repository.SellerProfileRepository
	images   ports.ImageStore
	log      *logger.Logger
}

// NewListingUseCase construye el caso de uso.
func NewListingUseCase(
	txRunner TxRunner,
	listings repository.ListingRepository,
	saved repository.SavedListingRepository,
	buyers repository.BuyerProfileRepository,
	sellers repository.SellerProfileRepository,
	images ports.ImageStore,
	log *logger.Logger,
) *ListingUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ListingUseCase{
		txRunner: txRunner,
		listings: listings,
		saved:    saved,
		buyers:   buyers,
		sellers:  sellers,
		images:   images,
		log:      log,
	}
}

// ListActive devuelve las publicaciones activas, más recientes primero, con imágenes y vendedor.
func (uc *ListingUseCase) ListActive(ctx context.Context, category string, page dto.PageRequest) ([]dto.ListingResponse, error) {
	page.DefaultPage()
	filter := repository.ListingFilter{Limit: page.Limit, Offset: page.Offset}
	if category != "" {
		c := entity.ListingCategory(category)
		if !c.Valid() {
			return nil, domain.FieldError(domain.ErrInvalidInput, "category", "\""+category+"\" is not a valid choice.")
		}
		filter.Category = c
	}
	list, err := uc.listings.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toListingResponses(list), nil
}

// GetActive obtiene una publicación activa por ID.
func (uc *ListingUseCase) GetActive(ctx context.Context, id string) (*dto.ListingResponse, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	d, err := uc.listings.GetActiveDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := toListingResponse(d)
	return &out, nil
}

// Create crea una publicación del vendedor actor con sus imágenes.
// La primera imagen (URLs primero, luego archivos) queda como primaria; el resto no.
func (uc *ListingUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateListingRequest, uploads []ports.Upload) (*dto.ListingResponse, error) {
	seller, err := uc.requireSeller(ctx, actor)
	if err != nil {
		return nil, err
	}
	if v := validateListing(in, uploads); v.HasErrors() {
		return nil, v
	}

	urls := make([]string, 0, len(in.ImageURLs)+len(uploads))
	for _, u := range in.ImageURLs {
		urls = append(urls, strings.TrimSpace(u))
	}
	uploaded, err := uc.upload(ctx, uploads)
	if err != nil {
		return nil, err
	}
	urls = append(urls, uploaded...)

	now := time.Now().UTC()
	l := &entity.Listing{
		ID:          uuid.New().String(),
		SellerID:    seller.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    entity.ListingCategory(in.Category),
		Condition:   entity.Condition(in.Condition),
		Location:    strings.TrimSpace(in.Location),
		Area:        strings.TrimSpace(in.Area),
		Status:      entity.ListingActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Price != nil {
		l.Price = decimal.NullDecimal{Decimal: *in.Price, Valid: true}
	}
	images := make([]entity.ListingImage, 0, len(urls))
	for i, u := range urls {
		images = append(images, entity.ListingImage{
			ID:        uuid.New().String(),
			ListingID: l.ID,
			ImageURL:  u,
			IsPrimary: i == 0,
			Position:  i,
		})
	}

	err = uc.txRunner.RunListing(ctx, func(
		listingRepo repository.ListingRepository,
		imageRepo repository.ListingImageRepository,
	) error {
		if err := listingRepo.Create(ctx, l); err != nil {
			return err
		}
		for i := range images {
			if err := imageRepo.Create(ctx, &images[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.cleanup(ctx, uploaded)
		return nil, fmt.Errorf("create listing: %w", err)
	}

	uc.log.Info().Str("listing_id", l.ID).Str("seller_id", seller.ID).Int("images", len(images)).Msg("publicación creada")
	out := toListingResponse(&repository.ListingDetail{
		Listing: *l,
		Images:  images,
		Seller: repository.SellerSummary{
			UserID:          seller.UserID,
			BusinessName:    seller.BusinessName,
			IsVerified:      seller.IsVerified,
			ProfileImageURL: seller.ProfileImageURL,
		},
	})
	return &out, nil
}

// Activate pasa la publicación a active (idempotente). Solo el vendedor dueño.
func (uc *ListingUseCase) Activate(ctx context.Context, actor entity.Actor, id string) (*dto.ListingStatusResponse, error) {
	return uc.transition(ctx, actor, id, func(l *entity.Listing, now time.Time) error { return l.Activate(now) })
}

// Deactivate pasa la publicación a inactive (idempotente). Solo el vendedor dueño.
func (uc *ListingUseCase) Deactivate(ctx context.Context, actor entity.Actor, id string) (*dto.ListingStatusResponse, error) {
	return uc.transition(ctx, actor, id, func(l *entity.Listing, now time.Time) error { return l.Deactivate(now) })
}

// SoftDelete marca la publicación como deleted; la fila se conserva.
func (uc *ListingUseCase) SoftDelete(ctx context.Context, actor entity.Actor, id string) (*dto.ListingStatusResponse, error) {
	return uc.transition(ctx, actor, id, func(l *entity.Listing, now time.Time) error {
		l.SoftDelete(now)
		return nil
	})
}

func (uc *ListingUseCase) transition(ctx context.Context, actor entity.Actor, id string, apply func(*entity.Listing, time.Time) error) (*dto.ListingStatusResponse, error) {
	seller, err := uc.requireSeller(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var out dto.ListingStatusResponse
	err = uc.txRunner.RunListing(ctx, func(
		listingRepo repository.ListingRepository,
		_ repository.ListingImageRepository,
	) error {
		l, err := listingRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		if l.SellerID != seller.ID {
			return domain.ErrForbidden
		}
		prev := l.Status
		if err := apply(l, time.Now().UTC()); err != nil {
			if errors.Is(err, entity.ErrListingDeleted) {
				return domain.ErrConflict
			}
			return err
		}
		out = dto.ListingStatusResponse{ID: l.ID, Status: string(l.Status)}
		if prev == l.Status {
			return nil
		}
		return listingRepo.UpdateStatus(ctx, l.ID, l.Status, l.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleSave guarda la publicación para el comprador o la quita si ya estaba guardada.
// Una violación de unicidad al insertar (petición concurrente) se reporta como "saved".
func (uc *ListingUseCase) ToggleSave(ctx context.Context, actor entity.Actor, id string) (*dto.ToggleSaveResponse, error) {
	buyer, err := uc.requireBuyer(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	l, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil || l.Status != entity.ListingActive {
		return nil, domain.ErrNotFound
	}

	removed, err := uc.saved.Delete(ctx, buyer.ID, l.ID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &dto.ToggleSaveResponse{Message: msgUnsaved, Saved: false}, nil
	}
	err = uc.saved.Create(ctx, &entity.SavedListing{
		ID:        uuid.New().String(),
		BuyerID:   buyer.ID,
		ListingID: l.ID,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return nil, err
	}
	return &dto.ToggleSaveResponse{Message: msgSaved, Saved: true}, nil
}

// ListSaved publicaciones activas guardadas por el comprador actor.
func (uc *ListingUseCase) ListSaved(ctx context.Context, actor entity.Actor) ([]dto.ListingResponse, error) {
	buyer, err := uc.requireBuyer(ctx, actor)
	if err != nil {
		return nil, err
	}
	list, err := uc.listings.ListSavedByBuyer(ctx, buyer.ID)
	if err != nil {
		return nil, err
	}
	return toListingResponses(list), nil
}

// ListMine publicaciones no eliminadas del vendedor actor (activas e inactivas).
func (uc *ListingUseCase) ListMine(ctx context.Context, actor entity.Actor) ([]dto.ListingResponse, error) {
	seller, err := uc.requireSeller(ctx, actor)
	if err != nil {
		return nil, err
	}
	list, err := uc.listings.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, err
	}
	return toListingResponses(list), nil
}

// requireSeller exige rol seller con perfil de vendedor existente.
func (uc *ListingUseCase) requireSeller(ctx context.Context, actor entity.Actor) (*entity.SellerProfile, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !actor.Is(entity.RoleSeller) {
		return nil, domain.ErrForbidden
	}
	seller, err := uc.sellers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, domain.ErrForbidden
	}
	return seller, nil
}

// requireBuyer exige rol buyer con perfil de comprador existente.
func (uc *ListingUseCase) requireBuyer(ctx context.Context, actor entity.Actor) (*entity.BuyerProfile, error) {
	if actor.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	if !actor.Is(entity.RoleBuyer) {
		return nil, domain.ErrForbidden
	}
	buyer, err := uc.buyers.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, domain.ErrForbidden
	}
	return buyer, nil
}

// upload sube los archivos en orden; si uno falla elimina los ya subidos.
func (uc *ListingUseCase) upload(ctx context.Context, uploads []ports.Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if uc.images == nil {
		return nil, domain.FieldError(domain.ErrInvalidInput, "images", "Image uploads are not available.")
	}
	urls := make([]string, 0, len(uploads))
	for _, up := range uploads {
		url, err := uc.images.Put(ctx, listingImagesFolder, up)
		if err != nil {
			uc.cleanup(ctx, urls)
			if errors.Is(err, domain.ErrInvalidInput) {
				return nil, domain.FieldError(domain.ErrInvalidInput, "images",
					"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
			}
			return nil, fmt.Errorf("upload listing image: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (uc *ListingUseCase) cleanup(ctx context.Context, urls []string) {
	for _, u := range urls {
		if err := uc.images.Delete(ctx, u); err != nil {
			uc.log.Warn().Err(err).Str("url", u).Msg("no se pudo eliminar imagen huérfana")
		}
	}
}

func validateListing(in dto.CreateListingRequest, uploads []ports.Upload) *domain.ValidationError {
	v := domain.NewValidationError(domain.ErrInvalidInput)
	text := func(field, value string, max int) {
		if strings.TrimSpace(value) == "" {
			v.Add(field, "This field is required.")
			return
		}
		if max > 0 && utf8.RuneCountInString(value) > max {
			v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", max))
		}
	}
	text("title", in.Title, 255)
	text("description", in.Description, 0)
	text("location", in.Location, 100)
	text("area", in.Area, 100)
	switch {
	case in.Category == "":
		v.Add("category", "This field is required.")
	case !entity.ListingCategory(in.Category).Valid():
		v.Add("category", "\""+in.Category+"\" is not a valid choice.")
	}
	switch {
	case in.Condition == "":
		v.Add("condition", "This field is required.")
	case !entity.Condition(in.Condition).Valid():
		v.Add("condition", "\""+in.Condition+"\" is not a valid choice.")
	}
	if p := in.Price; p != nil {
		switch {
		case p.IsNegative():
			v.Add("price", "Ensure this value is greater than or equal to 0.")
		case !p.Equal(p.Round(2)):
			v.Add("price", "Ensure that there are no more than 2 decimal places.")
		case p.GreaterThanOrEqual(maxPrice):
			v.Add("price", "Ensure that there are no more than 12 digits in total.")
		}
	}
	for _, u := range in.ImageURLs {
		if !govalidator.IsURL(strings.TrimSpace(u)) {
			v.Add("image_urls", "Enter a valid URL.")
			break
		}
	}
	for _, up := range uploads {
		if len(up.Data) == 0 {
			v.Add("images", "The submitted file is empty.")
			break
		}
	}
	return v
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func toListingResponses(list []*repository.ListingDetail) []dto.ListingResponse {
	out := make([]dto.ListingResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toListingResponse(d))
	}
	return out
}

func toListingResponse(d *repository.ListingDetail) dto.ListingResponse {
	images := make([]dto.ListingImageResponse, 0, len(d.Images))
	for _, img := range d.Images {
		images = append(images, dto.ListingImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			IsPrimary: img.IsPrimary,
		})
	}
	return dto.ListingResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Category:    string(d.Category),
		Condition:   string(d.Condition),
		Location:    d.Location,
		Area:        d.Area,
		Status:      string(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Images:      images,
		Seller: dto.SellerDisplayResponse{
			ID:              d.Seller.UserID,
			BusinessName:    d.Seller.BusinessName,
			IsVerified:      d.Seller.IsVerified,
			ProfileImageURL: d.Seller.ProfileImageURL,
		},
	}
}
