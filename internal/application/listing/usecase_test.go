package listing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/application/listing"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
	"github.com/jhoicas/biashara-api/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *testutil.Store
	images *testutil.FakeImageStore
	uc     *listing.ListingUseCase
	seller entity.Actor
	buyer  entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: testutil.NewStore(), images: testutil.NewFakeImageStore()}
	f.uc = listing.NewListingUseCase(f.store, f.store.Listings(), f.store.Saved(),
		f.store.Buyers(), f.store.Sellers(), f.images, nil)
	f.seller = f.addSeller(t, "seller@x.com")
	f.buyer = f.addBuyer(t, "buyer@x.com")
	return f
}

func (f *fixture) addUser(t *testing.T, email string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{ID: uuid.NewString(), Email: email, Role: role, IsActive: true, DateJoined: time.Now()}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) addSeller(t *testing.T, email string) entity.Actor {
	t.Helper()
	u := f.addUser(t, email, entity.RoleSeller)
	require.NoError(t, f.store.Sellers().Create(context.Background(), &entity.SellerProfile{
		ID: uuid.NewString(), UserID: u.ID, BusinessName: "Shop " + email,
		BusinessType: entity.BusinessIndividual, BusinessCategory: entity.BusinessOther,
		BusinessLocation: "Nairobi", CreatedAt: time.Now(),
	}))
	return entity.Actor{UserID: u.ID, Role: entity.RoleSeller}
}

func (f *fixture) addBuyer(t *testing.T, email string) entity.Actor {
	t.Helper()
	u := f.addUser(t, email, entity.RoleBuyer)
	require.NoError(t, f.store.Buyers().Create(context.Background(), &entity.BuyerProfile{
		ID: uuid.NewString(), UserID: u.ID, Location: "Kisumu",
	}))
	return entity.Actor{UserID: u.ID, Role: entity.RoleBuyer}
}

func listingInput() dto.CreateListingRequest {
	p := decimal.RequireFromString("1500.50")
	return dto.CreateListingRequest{
		Title:       "Used iPhone",
		Description: "Good condition",
		Price:       &p,
		Category:    "electronics",
		Condition:   "used",
		Location:    "Nairobi",
		Area:        "Westlands",
	}
}

func (f *fixture) create(t *testing.T, in dto.CreateListingRequest) *dto.ListingResponse {
	t.Helper()
	out, err := f.uc.Create(context.Background(), f.seller, in, nil)
	require.NoError(t, err)
	return out
}

func TestCreate_CompradorProhibido(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Create(context.Background(), f.buyer, listingInput(), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := entity.Actor{UserID: uuid.NewString(), Role: entity.RoleAdmin}
	_, err = f.uc.Create(context.Background(), admin, listingInput(), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_VendedorSinPerfil(t *testing.T) {
	f := newFixture(t)
	u := f.addUser(t, "noprofile@x.com", entity.RoleSeller)
	_, err := f.uc.Create(context.Background(), entity.Actor{UserID: u.ID, Role: entity.RoleSeller}, listingInput(), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_UnaImagenEsPrimaria(t *testing.T) {
	f := newFixture(t)
	in := listingInput()
	in.ImageURLs = []string{"https://cdn.example.com/a.jpg"}

	out := f.create(t, in)
	require.Len(t, out.Images, 1)
	assert.True(t, out.Images[0].IsPrimary)
	assert.Equal(t, "active", out.Status)
	assert.Equal(t, "1500.5", out.Price.Decimal.String())
	assert.Equal(t, f.seller.UserID, out.Seller.ID)
	assert.False(t, out.Seller.IsVerified)
}

func TestCreate_VariasImagenes_SoloPrimeraPrimaria(t *testing.T) {
	f := newFixture(t)
	in := listingInput()
	in.ImageURLs = []string{"https://cdn.example.com/a.jpg"}
	uploads := []ports.Upload{
		{Filename: "b.png", Data: testutil.PNG(2, 2)},
		{Filename: "c.png", Data: testutil.PNG(2, 2)},
	}

	out, err := f.uc.Create(context.Background(), f.seller, in, uploads)
	require.NoError(t, err)
	require.Len(t, out.Images, 3)
	assert.Equal(t, "https://cdn.example.com/a.jpg", out.Images[0].ImageURL)
	primaries := 0
	for _, img := range out.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
	assert.Equal(t, 2, f.images.Len())
}

func TestCreate_SinPrecioYSinImagenes(t *testing.T) {
	f := newFixture(t)
	in := listingInput()
	in.Price = nil
	in.Condition = "service"

	out := f.create(t, in)
	assert.False(t, out.Price.Valid)
	assert.Empty(t, out.Images)
}

func TestCreate_Validacion(t *testing.T) {
	f := newFixture(t)
	neg := decimal.RequireFromString("-1")
	frac := decimal.RequireFromString("10.123")
	huge := decimal.RequireFromString("10000000000")

	cases := []struct {
		name  string
		mut   func(*dto.CreateListingRequest)
		field string
	}{
		{"titulo vacío", func(in *dto.CreateListingRequest) { in.Title = " " }, "title"},
		{"categoría inválida", func(in *dto.CreateListingRequest) { in.Category = "food" }, "category"},
		{"condición inválida", func(in *dto.CreateListingRequest) { in.Condition = "refurbished" }, "condition"},
		{"precio negativo", func(in *dto.CreateListingRequest) { in.Price = &neg }, "price"},
		{"precio con 3 decimales", func(in *dto.CreateListingRequest) { in.Price = &frac }, "price"},
		{"precio fuera de rango", func(in *dto.CreateListingRequest) { in.Price = &huge }, "price"},
		{"url inválida", func(in *dto.CreateListingRequest) { in.ImageURLs = []string{"not a url"} }, "image_urls"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := listingInput()
			tc.mut(&in)
			_, err := f.uc.Create(context.Background(), f.seller, in, nil)
			v, ok := domain.AsValidation(err)
			require.True(t, ok, "err=%v", err)
			assert.Contains(t, v.Fields, tc.field)
		})
	}
}

func TestCreate_FalloEnTx_RevierteYLimpia(t *testing.T) {
	f := newFixture(t)
	f.store.FailAfter = func(op string) error {
		if op == "listing_images.create" {
			return errors.New("disk full")
		}
		return nil
	}
	_, err := f.uc.Create(context.Background(), f.seller, listingInput(),
		[]ports.Upload{{Filename: "a.png", Data: testutil.PNG(2, 2)}})
	require.Error(t, err)
	assert.Equal(t, 0, f.images.Len())

	f.store.FailAfter = nil
	mine, err := f.uc.ListMine(context.Background(), f.seller)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestTransiciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.create(t, listingInput())

	out, err := f.uc.Deactivate(ctx, f.seller, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", out.Status)

	out, err = f.uc.Deactivate(ctx, f.seller, l.ID)
	require.NoError(t, err, "idempotente")
	assert.Equal(t, "inactive", out.Status)

	out, err = f.uc.Activate(ctx, f.seller, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", out.Status)

	other := f.addSeller(t, "other@x.com")
	_, err = f.uc.Deactivate(ctx, other, l.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo el dueño")

	_, err = f.uc.Activate(ctx, f.buyer, l.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Activate(ctx, f.seller, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.Activate(ctx, f.seller, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = f.uc.SoftDelete(ctx, f.seller, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "deleted", out.Status)

	_, err = f.uc.Activate(ctx, f.seller, l.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Deactivate(ctx, f.seller, l.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := f.store.Listings().GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "soft delete conserva la fila")
	assert.Equal(t, entity.ListingDeleted, got.Status)
}

func TestListActive_OcultaInactivasYEliminadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, listingInput())
	b := f.create(t, listingInput())
	c := f.create(t, listingInput())

	_, err := f.uc.Deactivate(ctx, f.seller, b.ID)
	require.NoError(t, err)
	_, err = f.uc.SoftDelete(ctx, f.seller, c.ID)
	require.NoError(t, err)

	list, err := f.uc.ListActive(ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = f.uc.GetActive(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.GetActive(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mine, err := f.uc.ListMine(ctx, f.seller)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "el vendedor ve activas e inactivas")
}

func TestListActive_FiltroYPaginacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, f.create(t, listingInput()).ID)
	}
	in := listingInput()
	in.Category = "vehicles"
	f.create(t, in)

	list, err := f.uc.ListActive(ctx, "electronics", dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ids[2], list[0].ID, "más recientes primero")
	assert.Equal(t, ids[1], list[1].ID)

	list, err = f.uc.ListActive(ctx, "electronics", dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ids[0], list[0].ID)

	_, err = f.uc.ListActive(ctx, "boats", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToggleSave_CicloPeriodoDos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.create(t, listingInput())

	for i, want := range []bool{true, false, true} {
		out, err := f.uc.ToggleSave(ctx, f.buyer, l.ID)
		require.NoError(t, err)
		assert.Equal(t, want, out.Saved, "llamada %d", i+1)
		if want {
			assert.Equal(t, "Listing saved", out.Message)
		} else {
			assert.Equal(t, "Listing unsaved", out.Message)
		}
	}
	assert.Equal(t, 1, f.store.CountSaved())

	saved, err := f.uc.ListSaved(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, l.ID, saved[0].ID)
}

func TestToggleSave_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.create(t, listingInput())

	_, err := f.uc.ToggleSave(ctx, f.seller, l.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.ToggleSave(ctx, f.buyer, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Deactivate(ctx, f.seller, l.ID)
	require.NoError(t, err)
	_, err = f.uc.ToggleSave(ctx, f.buyer, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "solo publicaciones activas")
}

// carreraSaved simula que otra petición insertó el par entre el Delete y el Create.
type carreraSaved struct {
	repository.SavedListingRepository
	creates int
}

func (r *carreraSaved) Delete(context.Context, string, string) (bool, error) {
	return false, nil
}

func (r *carreraSaved) Create(ctx context.Context, saved *entity.SavedListing) error {
	r.creates++
	if err := r.SavedListingRepository.Create(ctx, saved); err != nil {
		return err
	}
	return domain.ErrDuplicate
}

func TestToggleSave_DuplicadoConcurrenteCuentaComoGuardado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.create(t, listingInput())

	saved := &carreraSaved{SavedListingRepository: f.store.Saved()}
	uc := listing.NewListingUseCase(f.store, f.store.Listings(), saved,
		f.store.Buyers(), f.store.Sellers(), f.images, nil)

	out, err := uc.ToggleSave(ctx, f.buyer, l.ID)
	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.Equal(t, "Listing saved", out.Message)
	assert.Equal(t, 1, saved.creates)
	assert.Equal(t, 1, f.store.CountSaved())
}

func TestToggleSave_ConcurrenteSinErrores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.create(t, listingInput())

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.ToggleSave(ctx, f.buyer, l.ID)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.LessOrEqual(t, f.store.CountSaved(), 1)
}

func TestListSaved_OcultaNoActivas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, listingInput())
	b := f.create(t, listingInput())
	for _, id := range []string{a.ID, b.ID} {
		_, err := f.uc.ToggleSave(ctx, f.buyer, id)
		require.NoError(t, err)
	}
	_, err := f.uc.SoftDelete(ctx, f.seller, a.ID)
	require.NoError(t, err)

	saved, err := f.uc.ListSaved(ctx, f.buyer)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, b.ID, saved[0].ID)

	_, err = f.uc.ListSaved(ctx, f.seller)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
