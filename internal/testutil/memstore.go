// Package testutil contiene fakes en memoria de los puertos de persistencia y almacenamiento
// para probar los casos de uso sin PostgreSQL.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

type savedRow struct {
	entity.SavedListing
	seq int
}

type tables struct {
	users    map[string]entity.User
	buyers   map[string]entity.BuyerProfile  // por user_id
	sellers  map[string]entity.SellerProfile // por user_id
	listings map[string]entity.Listing
	order    []string // orden de inserción de listings
	images   map[string][]entity.ListingImage
	saved    map[string]savedRow // buyer_id|listing_id
	seq      int
}

func (t tables) clone() tables {
	c := tables{
		users:    make(map[string]entity.User, len(t.users)),
		buyers:   make(map[string]entity.BuyerProfile, len(t.buyers)),
		sellers:  make(map[string]entity.SellerProfile, len(t.sellers)),
		listings: make(map[string]entity.Listing, len(t.listings)),
		order:    append([]string(nil), t.order...),
		images:   make(map[string][]entity.ListingImage, len(t.images)),
		saved:    make(map[string]savedRow, len(t.saved)),
		seq:      t.seq,
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.buyers {
		c.buyers[k] = v
	}
	for k, v := range t.sellers {
		c.sellers[k] = v
	}
	for k, v := range t.listings {
		c.listings[k] = v
	}
	for k, v := range t.images {
		c.images[k] = append([]entity.ListingImage(nil), v...)
	}
	for k, v := range t.saved {
		c.saved[k] = v
	}
	return c
}

// Store base de datos en memoria con las mismas restricciones de unicidad que el esquema SQL.
// Las transacciones se serializan y se revierten restaurando una copia.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	t    tables

	// FailAfter, si no es nil, se invoca antes de cada escritura; un error aborta la operación.
	FailAfter func(op string) error
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{t: tables{}.clone()}
}

func (s *Store) fail(op string) error {
	if s.FailAfter == nil {
		return nil
	}
	return s.FailAfter(op)
}

// RunAccounts implementa auth.TxRunner y admin.TxRunner.
func (s *Store) RunAccounts(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	buyerRepo repository.BuyerProfileRepository,
	sellerRepo repository.SellerProfileRepository,
) error) error {
	return s.run(func() error { return fn(s.Users(), s.Buyers(), s.Sellers()) })
}

// RunListing implementa listing.TxRunner.
func (s *Store) RunListing(ctx context.Context, fn func(
	listingRepo repository.ListingRepository,
	imageRepo repository.ListingImageRepository,
) error) error {
	return s.run(func() error { return fn(s.Listings(), s.Images()) })
}

func (s *Store) run(fn func() error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.t.clone()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.t = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Buyers repositorio de perfiles de comprador.
func (s *Store) Buyers() repository.BuyerProfileRepository { return buyerRepo{s} }

// Sellers repositorio de perfiles de vendedor.
func (s *Store) Sellers() repository.SellerProfileRepository { return sellerRepo{s} }

// Listings repositorio de publicaciones.
func (s *Store) Listings() repository.ListingRepository { return listingRepo{s} }

// Images repositorio de imágenes de publicaciones.
func (s *Store) Images() repository.ListingImageRepository { return imageRepo{s} }

// Saved repositorio de publicaciones guardadas.
func (s *Store) Saved() repository.SavedListingRepository { return savedRepo{s} }

// CountUsers número de usuarios persistidos.
func (s *Store) CountUsers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.t.users)
}

// CountProfiles número de perfiles de comprador y vendedor.
func (s *Store) CountProfiles() (buyers, sellers int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.t.buyers), len(s.t.sellers)
}

// CountSaved número de filas en saved_listings.
func (s *Store) CountSaved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.t.saved)
}

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, u *entity.User) error {
	if err := r.s.fail("users.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.t.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.t.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r userRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsVerified = verified
	r.s.t.users[id] = u
	return nil
}

// SetActive utilidad de test para desactivar cuentas.
func (s *Store) SetActive(id string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.t.users[id]
	u.IsActive = active
	s.t.users[id] = u
}

// ---- profiles ----

type buyerRepo struct{ s *Store }

func (r buyerRepo) Create(ctx context.Context, p *entity.BuyerProfile) error {
	if err := r.s.fail("buyer_profiles.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.users[p.UserID]; !ok {
		return domain.ErrIntegrityConflict
	}
	if _, ok := r.s.t.buyers[p.UserID]; ok {
		return domain.ErrDuplicate
	}
	r.s.t.buyers[p.UserID] = *p
	return nil
}

func (r buyerRepo) GetByUserID(ctx context.Context, userID string) (*entity.BuyerProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.buyers[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type sellerRepo struct{ s *Store }

func (r sellerRepo) Create(ctx context.Context, p *entity.SellerProfile) error {
	if err := r.s.fail("seller_profiles.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.users[p.UserID]; !ok {
		return domain.ErrIntegrityConflict
	}
	if _, ok := r.s.t.sellers[p.UserID]; ok {
		return domain.ErrDuplicate
	}
	r.s.t.sellers[p.UserID] = *p
	return nil
}

func (r sellerRepo) GetByUserID(ctx context.Context, userID string) (*entity.SellerProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.sellers[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r sellerRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.sellers[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsVerified = verified
	r.s.t.sellers[userID] = p
	return nil
}

// ---- listings ----

type listingRepo struct{ s *Store }

func (r listingRepo) Create(ctx context.Context, l *entity.Listing) error {
	if err := r.s.fail("listings.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.listings[l.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.t.listings[l.ID] = *l
	r.s.t.order = append(r.s.t.order, l.ID)
	return nil
}

func (r listingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.t.listings[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r listingRepo) GetForUpdate(ctx context.Context, id string) (*entity.Listing, error) {
	return r.GetByID(ctx, id)
}

func (r listingRepo) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus, updatedAt time.Time) error {
	if err := r.s.fail("listings.update_status"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.t.listings[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = updatedAt
	r.s.t.listings[id] = l
	return nil
}

func (r listingRepo) ListActive(ctx context.Context, f repository.ListingFilter) ([]*repository.ListingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.newestFirst(func(l entity.Listing) bool {
		return l.Status == entity.ListingActive && (f.Category == "" || l.Category == f.Category)
	})
	if f.Offset >= len(out) {
		return []*repository.ListingDetail{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r listingRepo) GetActiveDetail(ctx context.Context, id string) (*repository.ListingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.t.listings[id]
	if !ok || l.Status != entity.ListingActive {
		return nil, nil
	}
	return r.s.detail(l), nil
}

func (r listingRepo) ListBySeller(ctx context.Context, sellerID string) ([]*repository.ListingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.newestFirst(func(l entity.Listing) bool {
		return l.SellerID == sellerID && l.Status != entity.ListingDeleted
	}), nil
}

func (r listingRepo) ListSavedByBuyer(ctx context.Context, buyerID string) ([]*repository.ListingDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]savedRow, 0)
	for _, row := range r.s.t.saved {
		if row.BuyerID == buyerID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].SavedAt.Equal(rows[j].SavedAt) {
			return rows[i].SavedAt.After(rows[j].SavedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*repository.ListingDetail, 0, len(rows))
	for _, row := range rows {
		l, ok := r.s.t.listings[row.ListingID]
		if ok && l.Status == entity.ListingActive {
			out = append(out, r.s.detail(l))
		}
	}
	return out, nil
}

// newestFirst recorre en orden inverso de inserción; con mu tomado.
func (s *Store) newestFirst(keep func(entity.Listing) bool) []*repository.ListingDetail {
	out := make([]*repository.ListingDetail, 0)
	for i := len(s.t.order) - 1; i >= 0; i-- {
		l := s.t.listings[s.t.order[i]]
		if keep(l) {
			out = append(out, s.detail(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *Store) detail(l entity.Listing) *repository.ListingDetail {
	imgs := append([]entity.ListingImage(nil), s.t.images[l.ID]...)
	sort.SliceStable(imgs, func(i, j int) bool {
		if imgs[i].IsPrimary != imgs[j].IsPrimary {
			return imgs[i].IsPrimary
		}
		return imgs[i].Position < imgs[j].Position
	})
	d := &repository.ListingDetail{Listing: l, Images: imgs}
	for _, p := range s.t.sellers {
		if p.ID == l.SellerID {
			d.Seller = repository.SellerSummary{
				UserID:          p.UserID,
				BusinessName:    p.BusinessName,
				IsVerified:      p.IsVerified,
				ProfileImageURL: p.ProfileImageURL,
			}
			break
		}
	}
	return d
}

type imageRepo struct{ s *Store }

func (r imageRepo) Create(ctx context.Context, img *entity.ListingImage) error {
	if err := r.s.fail("listing_images.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.listings[img.ListingID]; !ok {
		return domain.ErrIntegrityConflict
	}
	if img.IsPrimary {
		for _, existing := range r.s.t.images[img.ListingID] {
			if existing.IsPrimary {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.t.images[img.ListingID] = append(r.s.t.images[img.ListingID], *img)
	return nil
}

// ---- saved ----

type savedRepo struct{ s *Store }

func savedKey(buyerID, listingID string) string { return buyerID + "|" + listingID }

func (r savedRepo) Create(ctx context.Context, sl *entity.SavedListing) error {
	if err := r.s.fail("saved_listings.create"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := savedKey(sl.BuyerID, sl.ListingID)
	if _, ok := r.s.t.saved[k]; ok {
		return domain.ErrDuplicate
	}
	r.s.t.seq++
	r.s.t.saved[k] = savedRow{SavedListing: *sl, seq: r.s.t.seq}
	return nil
}

func (r savedRepo) Delete(ctx context.Context, buyerID, listingID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := savedKey(buyerID, listingID)
	if _, ok := r.s.t.saved[k]; !ok {
		return false, nil
	}
	delete(r.s.t.saved, k)
	return true, nil
}
