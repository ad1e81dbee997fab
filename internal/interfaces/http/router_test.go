package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/biashara-api/internal/application/admin"
	"github.com/jhoicas/biashara-api/internal/application/auth"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/application/listing"
	"github.com/jhoicas/biashara-api/internal/infrastructure/ratelimit"
	"github.com/jhoicas/biashara-api/internal/infrastructure/token"
	apphttp "github.com/jhoicas/biashara-api/internal/interfaces/http"
	"github.com/jhoicas/biashara-api/internal/testutil"
	"github.com/jhoicas/biashara-api/pkg/logger"
)

type apiFixture struct {
	app    *fiber.App
	store  *testutil.Store
	images *testutil.FakeImageStore
	admin  *admin.AdminUseCase
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := testutil.NewStore()
	images := testutil.NewFakeImageStore()
	issuer := token.NewJWTIssuer(testJWTSecret, testIssuer, time.Hour, 24*time.Hour)
	authUC := auth.NewAuthUseCase(store, store.Users(), images, issuer, ratelimit.NewMemoryThrottle(5, time.Minute), nil)
	listingUC := listing.NewListingUseCase(store, store.Listings(), store.Saved(), store.Buyers(), store.Sellers(), images, nil)
	adminUC := admin.NewAdminUseCase(store, nil)

	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		ListingUC: listingUC,
		AdminUC:   adminUC,
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return &apiFixture{app: app, store: store, images: images, admin: adminUC}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, bearer string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return f.send(t, req, bearer)
}

func (f *apiFixture) send(t *testing.T, req *http.Request, bearer string) (int, []byte) {
	t.Helper()
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func (f *apiFixture) login(t *testing.T, email, password string) dto.LoginResponse {
	t.Helper()
	code, raw := f.do(t, http.MethodPost, "/api/auth/login/", fiber.Map{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, code, string(raw))
	var out dto.LoginResponse
	decode(t, raw, &out)
	return out
}

func (f *apiFixture) registerBuyer(t *testing.T, email string) dto.RegisterResponse {
	t.Helper()
	code, raw := f.do(t, http.MethodPost, "/api/auth/register/buyer/", fiber.Map{
		"first_name": "Amina", "last_name": "Otieno", "email": email, "phone": "+254700000001",
		"password": "Passw0rd!", "confirm_password": "Passw0rd!", "location": "Nairobi",
	}, "")
	require.Equal(t, http.StatusCreated, code, string(raw))
	var out dto.RegisterResponse
	decode(t, raw, &out)
	return out
}

func (f *apiFixture) registerSeller(t *testing.T, email string) dto.RegisterResponse {
	t.Helper()
	code, raw := f.do(t, http.MethodPost, "/api/auth/register/seller/", fiber.Map{
		"first_name": "Juma", "last_name": "Mwangi", "email": email, "phone": "+254700000002",
		"password": "Passw0rd!", "confirm_password": "Passw0rd!",
		"business_name": "Juma Electronics", "business_type": "individual",
		"business_category": "electronics", "business_location": "Mombasa",
	}, "")
	require.Equal(t, http.StatusCreated, code, string(raw))
	var out dto.RegisterResponse
	decode(t, raw, &out)
	return out
}

func listingBody() fiber.Map {
	return fiber.Map{
		"title": "Samsung A14", "description": "Como nuevo", "price": "1500.5",
		"category": "electronics", "condition": "used", "location": "Mombasa", "area": "Nyali",
		"image_urls": []string{"https://cdn.example.com/a14.jpg"},
	}
}

func TestHome(t *testing.T) {
	f := newAPI(t)
	for _, path := range []string{"/", "/api/"} {
		code, raw := f.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, code)
		var body map[string]string
		decode(t, raw, &body)
		assert.Equal(t, "Biashara Connect API", body["name"])
		assert.Equal(t, "running", body["status"])
		assert.Equal(t, apphttp.APIVersion, body["version"])
	}
	code, _ := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAuthAPI_RegistroLoginRefresh(t *testing.T) {
	f := newAPI(t)
	reg := f.registerBuyer(t, "a@x.com")
	assert.Equal(t, "buyer", reg.User.Role)
	assert.NotEmpty(t, reg.User.ID)

	t.Run("email duplicado devuelve mapa de campos", func(t *testing.T) {
		code, raw := f.do(t, http.MethodPost, "/api/auth/register/buyer/", fiber.Map{
			"first_name": "B", "last_name": "C", "email": "A@X.com", "phone": "1",
			"password": "Passw0rd!", "confirm_password": "Passw0rd!", "location": "Kisumu",
		}, "")
		assert.Equal(t, http.StatusBadRequest, code)
		var body map[string]string
		decode(t, raw, &body)
		assert.Contains(t, body, "email")
	})

	t.Run("body malformado", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login/", bytes.NewBufferString("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		code, raw := f.send(t, req, "")
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, string(raw), "INVALID_BODY")
	})

	out := f.login(t, "A@x.com", "Passw0rd!")
	assert.NotEmpty(t, out.Access)
	assert.NotEmpty(t, out.Refresh)
	assert.Equal(t, "buyer", out.User.Role)

	code, raw := f.do(t, http.MethodPost, "/api/auth/login/", fiber.Map{"email": "a@x.com", "password": "incorrecta"}, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, string(raw), "Invalid credentials")

	code, raw = f.do(t, http.MethodPost, "/api/auth/token/refresh/", fiber.Map{"refresh": out.Refresh}, "")
	require.Equal(t, http.StatusOK, code, string(raw))
	var ref dto.RefreshResponse
	decode(t, raw, &ref)
	assert.NotEmpty(t, ref.Access)

	code, _ = f.do(t, http.MethodPost, "/api/auth/token/refresh/", fiber.Map{"refresh": out.Access}, "")
	assert.Equal(t, http.StatusUnauthorized, code, "un access token no sirve como refresh")
}

func TestAuthAPI_LoginThrottle(t *testing.T) {
	f := newAPI(t)
	f.registerBuyer(t, "a@x.com")
	for i := 0; i < 5; i++ {
		code, _ := f.do(t, http.MethodPost, "/api/auth/login/", fiber.Map{"email": "a@x.com", "password": "mal"}, "")
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, raw := f.do(t, http.MethodPost, "/api/auth/login/", fiber.Map{"email": "a@x.com", "password": "Passw0rd!"}, "")
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Contains(t, string(raw), "TOO_MANY_ATTEMPTS")
}

func TestAuthAPI_RegistroVendedorMultipart(t *testing.T) {
	f := newAPI(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"first_name": "Juma", "last_name": "Mwangi", "email": "shop@example.com", "phone": "+254700000002",
		"password": "Passw0rd!", "confirm_password": "Passw0rd!",
		"business_name": "Juma Electronics", "business_type": "company",
		"business_category": "electronics", "business_location": "Mombasa",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("profile_image", "perfil.png")
	require.NoError(t, err)
	_, err = fw.Write(testutil.PNG(8, 8))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register/seller/", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	code, raw := f.send(t, req, "")
	require.Equal(t, http.StatusCreated, code, string(raw))
	assert.Equal(t, 1, f.images.Len())

	var out dto.RegisterResponse
	decode(t, raw, &out)
	seller, err := f.store.Sellers().GetByUserID(context.Background(), out.User.ID)
	require.NoError(t, err)
	require.NotNil(t, seller)
	require.NotNil(t, seller.ProfileImageURL)
	assert.Contains(t, *seller.ProfileImageURL, "/sellers/")
	assert.False(t, seller.IsVerified)
}

func TestListingAPI_CicloCompleto(t *testing.T) {
	f := newAPI(t)
	f.registerSeller(t, "shop@example.com")
	f.registerBuyer(t, "a@x.com")
	seller := f.login(t, "shop@example.com", "Passw0rd!").Access
	buyer := f.login(t, "a@x.com", "Passw0rd!").Access

	code, _ := f.do(t, http.MethodPost, "/api/listings/create/", listingBody(), "")
	assert.Equal(t, http.StatusUnauthorized, code, "sin token")

	code, raw := f.do(t, http.MethodPost, "/api/listings/create/", listingBody(), buyer)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, string(raw), "FORBIDDEN")

	code, raw = f.do(t, http.MethodPost, "/api/listings/create/", listingBody(), seller)
	require.Equal(t, http.StatusCreated, code, string(raw))
	var created dto.ListingResponse
	decode(t, raw, &created)
	assert.Equal(t, "active", created.Status)
	require.Len(t, created.Images, 1)
	assert.True(t, created.Images[0].IsPrimary)
	assert.Equal(t, "1500.5", created.Price.Decimal.String())

	code, raw = f.do(t, http.MethodGet, "/api/listings/?category=electronics", nil, "")
	require.Equal(t, http.StatusOK, code)
	var list []dto.ListingResponse
	decode(t, raw, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Juma Electronics", list[0].Seller.BusinessName)

	code, _ = f.do(t, http.MethodGet, "/api/listings/?category=toys", nil, "")
	assert.Equal(t, http.StatusBadRequest, code)

	detail := "/api/listings/" + created.ID + "/"
	code, _ = f.do(t, http.MethodGet, detail, nil, "")
	assert.Equal(t, http.StatusOK, code)

	// guardar / quitar
	toggle := detail + "toggle-save/"
	code, raw = f.do(t, http.MethodPost, toggle, nil, buyer)
	require.Equal(t, http.StatusOK, code, string(raw))
	assert.Contains(t, string(raw), "Listing saved")
	code, raw = f.do(t, http.MethodGet, "/api/listings/saved/", nil, buyer)
	require.Equal(t, http.StatusOK, code)
	decode(t, raw, &list)
	assert.Len(t, list, 1)
	code, raw = f.do(t, http.MethodPost, toggle, nil, buyer)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Listing unsaved")
	code, _ = f.do(t, http.MethodPost, toggle, nil, seller)
	assert.Equal(t, http.StatusForbidden, code)

	// desactivar oculta la publicación
	code, raw = f.do(t, http.MethodPost, detail+"deactivate/", nil, seller)
	require.Equal(t, http.StatusOK, code, string(raw))
	assert.Contains(t, string(raw), `"inactive"`)
	code, _ = f.do(t, http.MethodGet, detail, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(t, http.MethodPost, toggle, nil, buyer)
	assert.Equal(t, http.StatusNotFound, code)

	code, raw = f.do(t, http.MethodGet, "/api/listings/mine/", nil, seller)
	require.Equal(t, http.StatusOK, code)
	decode(t, raw, &list)
	assert.Len(t, list, 1, "el vendedor ve sus publicaciones inactivas")

	// borrado lógico
	code, _ = f.do(t, http.MethodPost, detail+"delete/", nil, seller)
	require.Equal(t, http.StatusOK, code)
	code, raw = f.do(t, http.MethodPost, detail+"activate/", nil, seller)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, string(raw), "CONFLICT")
	code, raw = f.do(t, http.MethodGet, "/api/listings/mine/", nil, seller)
	require.Equal(t, http.StatusOK, code)
	decode(t, raw, &list)
	assert.Empty(t, list)

	code, _ = f.do(t, http.MethodPost, "/api/listings/no-existe/activate/", nil, seller)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListingAPI_SoloElDuenoCambiaEstado(t *testing.T) {
	f := newAPI(t)
	f.registerSeller(t, "shop@example.com")
	f.registerSeller(t, "otro@example.com")
	owner := f.login(t, "shop@example.com", "Passw0rd!").Access
	other := f.login(t, "otro@example.com", "Passw0rd!").Access

	code, raw := f.do(t, http.MethodPost, "/api/listings/create/", listingBody(), owner)
	require.Equal(t, http.StatusCreated, code, string(raw))
	var created dto.ListingResponse
	decode(t, raw, &created)

	code, _ = f.do(t, http.MethodPost, "/api/listings/"+created.ID+"/deactivate/", nil, other)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestListingAPI_CrearMultipart(t *testing.T) {
	f := newAPI(t)
	f.registerSeller(t, "shop@example.com")
	seller := f.login(t, "shop@example.com", "Passw0rd!").Access

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"title": "Sofá", "description": "Tres puestos", "price": "25000",
		"category": "home", "condition": "used", "location": "Nairobi", "area": "Kilimani",
	} {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range []string{"a.png", "b.png"} {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(testutil.PNG(4, 4))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/listings/create/", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	code, raw := f.send(t, req, seller)
	require.Equal(t, http.StatusCreated, code, string(raw))

	var created dto.ListingResponse
	decode(t, raw, &created)
	require.Len(t, created.Images, 2)
	primaries := 0
	for _, img := range created.Images {
		if img.IsPrimary {
			primaries++
		}
	}
	assert.Equal(t, 1, primaries)
	assert.Equal(t, 2, f.images.Len())
}

func TestListingAPI_PrecioInvalidoMultipart(t *testing.T) {
	f := newAPI(t)
	f.registerSeller(t, "shop@example.com")
	seller := f.login(t, "shop@example.com", "Passw0rd!").Access

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("title", "X"))
	require.NoError(t, w.WriteField("price", "mil"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/listings/create/", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	code, raw := f.send(t, req, seller)
	assert.Equal(t, http.StatusBadRequest, code)
	var body map[string]string
	decode(t, raw, &body)
	assert.Contains(t, body, "price")
}

func TestAdminAPI_VerificarVendedor(t *testing.T) {
	f := newAPI(t)
	reg := f.registerSeller(t, "shop@example.com")
	_, err := f.admin.CreateAdmin(context.Background(), dto.CreateAdminRequest{
		Email: "root@biashara.test", Password: "Adm1n-Secure!", FirstName: "Root", LastName: "Admin",
	})
	require.NoError(t, err)
	adminTok := f.login(t, "root@biashara.test", "Adm1n-Secure!").Access
	sellerTok := f.login(t, "shop@example.com", "Passw0rd!").Access

	path := "/api/admin/sellers/" + reg.User.ID + "/verify"
	code, _ := f.do(t, http.MethodPatch, path, nil, sellerTok)
	assert.Equal(t, http.StatusForbidden, code)

	code, raw := f.do(t, http.MethodPatch, path, nil, adminTok)
	require.Equal(t, http.StatusOK, code, string(raw))
	var out dto.SellerVerificationResponse
	decode(t, raw, &out)
	assert.True(t, out.IsVerified)

	code, raw = f.do(t, http.MethodPatch, "/api/admin/sellers/"+reg.User.ID+"/unverify", nil, adminTok)
	require.Equal(t, http.StatusOK, code)
	decode(t, raw, &out)
	assert.False(t, out.IsVerified)

	code, _ = f.do(t, http.MethodPatch, "/api/admin/sellers/00000000-0000-0000-0000-000000000099/verify", nil, adminTok)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRutaInexistente(t *testing.T) {
	f := newAPI(t)
	code, raw := f.do(t, http.MethodGet, "/api/no-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, string(raw), "NOT_FOUND")
}
