package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepo)(nil)

const listingColumns = `l.id, l.seller_id, l.title, l.description, l.price, l.category, l.condition,
	l.location, l.area, l.status, l.created_at, l.updated_at`

const detailSelect = `SELECT ` + listingColumns + `, s.user_id, s.business_name, s.is_verified, s.profile_image_url
	FROM listings l JOIN seller_profiles s ON s.id = l.seller_id`

// ListingRepo implementación del puerto ListingRepository sobre PostgreSQL (usable con pool o tx).
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

// Create persiste una nueva publicación.
func (r *ListingRepo) Create(ctx context.Context, l *entity.Listing) error {
	query := `
		INSERT INTO listings (id, seller_id, title, description, price, category, condition,
			location, area, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.SellerID, l.Title, l.Description, l.Price, string(l.Category), string(l.Condition),
		l.Location, l.Area, string(l.Status), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByID obtiene una publicación en cualquier estado.
func (r *ListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	return r.getOne(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = $1`, id)
}

// GetForUpdate obtiene la publicación con SELECT ... FOR UPDATE.
func (r *ListingRepo) GetForUpdate(ctx context.Context, id string) (*entity.Listing, error) {
	return r.getOne(ctx, `SELECT `+listingColumns+` FROM listings l WHERE l.id = $1 FOR UPDATE`, id)
}

// UpdateStatus cambia estado y updated_at.
func (r *ListingRepo) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE listings SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("update listing status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive publicaciones activas, más recientes primero, con filtro opcional por categoría.
func (r *ListingRepo) ListActive(ctx context.Context, f repository.ListingFilter) ([]*repository.ListingDetail, error) {
	query := detailSelect + ` WHERE l.status = 'active'`
	args := []any{}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += ` AND l.category = $1`
	}
	query += ` ORDER BY l.created_at DESC, l.id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}
	return r.listDetails(ctx, query, args...)
}

// GetActiveDetail publicación activa con imágenes y vendedor.
func (r *ListingRepo) GetActiveDetail(ctx context.Context, id string) (*repository.ListingDetail, error) {
	list, err := r.listDetails(ctx, detailSelect+` WHERE l.id = $1 AND l.status = 'active'`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListBySeller publicaciones no eliminadas del vendedor.
func (r *ListingRepo) ListBySeller(ctx context.Context, sellerID string) ([]*repository.ListingDetail, error) {
	return r.listDetails(ctx,
		detailSelect+` WHERE l.seller_id = $1 AND l.status <> 'deleted' ORDER BY l.created_at DESC, l.id`,
		sellerID)
}

// ListSavedByBuyer publicaciones activas guardadas por el comprador, último guardado primero.
func (r *ListingRepo) ListSavedByBuyer(ctx context.Context, buyerID string) ([]*repository.ListingDetail, error) {
	return r.listDetails(ctx,
		detailSelect+` JOIN saved_listings sl ON sl.listing_id = l.id
		WHERE sl.buyer_id = $1 AND l.status = 'active' ORDER BY sl.saved_at DESC, sl.id`,
		buyerID)
}

func (r *ListingRepo) getOne(ctx context.Context, query, id string) (*entity.Listing, error) {
	var l entity.Listing
	err := scanListing(r.q.QueryRow(ctx, query, id), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

// listDetails ejecuta query (detailSelect + filtros) y carga las imágenes en una segunda consulta.
func (r *ListingRepo) listDetails(ctx context.Context, query string, args ...any) ([]*repository.ListingDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	var list []*repository.ListingDetail
	byID := map[string]*repository.ListingDetail{}
	for rows.Next() {
		d := &repository.ListingDetail{Images: []entity.ListingImage{}}
		if err := scanListing(rows, &d.Listing,
			&d.Seller.UserID, &d.Seller.BusinessName, &d.Seller.IsVerified, &d.Seller.ProfileImageURL,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		list = append(list, d)
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	if len(list) == 0 {
		return []*repository.ListingDetail{}, nil
	}

	ids := make([]string, 0, len(list))
	for _, d := range list {
		ids = append(ids, d.ID)
	}
	imgRows, err := r.q.Query(ctx, `
		SELECT id, listing_id, image_url, is_primary, position
		FROM listing_images WHERE listing_id = ANY($1)
		ORDER BY is_primary DESC, position, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list listing images: %w", err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img entity.ListingImage
		if err := imgRows.Scan(&img.ID, &img.ListingID, &img.ImageURL, &img.IsPrimary, &img.Position); err != nil {
			return nil, fmt.Errorf("scan listing image: %w", err)
		}
		if d, ok := byID[img.ListingID]; ok {
			d.Images = append(d.Images, img)
		}
	}
	if err := imgRows.Err(); err != nil {
		return nil, fmt.Errorf("list listing images: %w", err)
	}
	return list, nil
}

func scanListing(row pgx.Row, l *entity.Listing, extra ...any) error {
	var category, condition, status string
	dest := append([]any{
		&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &category, &condition,
		&l.Location, &l.Area, &status, &l.CreatedAt, &l.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	l.Category = entity.ListingCategory(category)
	l.Condition = entity.Condition(condition)
	l.Status = entity.ListingStatus(status)
	return nil
}
