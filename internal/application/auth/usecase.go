package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/password"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
	"github.com/jhoicas/biashara-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// Carpeta del object storage para fotos de perfil de vendedores.
const sellerImagesFolder = "sellers"

// AuthUseCase casos de uso de autenticación: registro de compradores/vendedores, login y refresh.
type AuthUseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
	images   ports.ImageStore
	tokens   ports.TokenIssuer
	throttle ports.LoginThrottle
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. throttle puede ser nil (sin límite).
func NewAuthUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	images ports.ImageStore,
	tokens ports.TokenIssuer,
	throttle ports.LoginThrottle,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		txRunner: txRunner,
		userRepo: userRepo,
		images:   images,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

// RegisterBuyer valida y crea User(role=buyer) + BuyerProfile en una sola transacción.
// Orden de validación: campos requeridos, email duplicado, confirmación, política de contraseña.
func (uc *AuthUseCase) RegisterBuyer(ctx context.Context, in dto.RegisterBuyerRequest) (*dto.RegisterResponse, error) {
	v := domain.NewValidationError(domain.ErrInvalidInput)
	personal(v, in.FirstName, in.LastName, in.Email, in.Phone, in.Password, in.ConfirmPassword)
	if required(v, "location", in.Location) {
		maxLen(v, "location", in.Location, 100)
	}
	if v.HasErrors() {
		return nil, v
	}

	email := NormalizeEmail(in.Email)
	if err := uc.checkCredentials(ctx, email, in.Password, in.ConfirmPassword, in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := newUser(email, string(hash), in.FirstName, in.LastName, in.Phone, entity.RoleBuyer)
	profile := &entity.BuyerProfile{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Location: strings.TrimSpace(in.Location),
	}
	err = uc.txRunner.RunAccounts(ctx, func(
		userRepo repository.UserRepository,
		buyerRepo repository.BuyerProfileRepository,
		_ repository.SellerProfileRepository,
	) error {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		return buyerRepo.Create(ctx, profile)
	})
	if err != nil {
		return nil, uc.registrationError(email, err)
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("comprador registrado")
	return &dto.RegisterResponse{
		Message: "Buyer account created successfully",
		User:    toUserSummary(user),
	}, nil
}

// RegisterSeller valida y crea User(role=seller) + SellerProfile(is_verified=false).
// Si llega image, se sube al object storage antes de la transacción y solo se guarda la URL.
func (uc *AuthUseCase) RegisterSeller(ctx context.Context, in dto.RegisterSellerRequest, image *ports.Upload) (*dto.RegisterResponse, error) {
	v := domain.NewValidationError(domain.ErrInvalidInput)
	personal(v, in.FirstName, in.LastName, in.Email, in.Phone, in.Password, in.ConfirmPassword)
	if required(v, "business_name", in.BusinessName) {
		maxLen(v, "business_name", in.BusinessName, 255)
	}
	choice(v, "business_type", in.BusinessType, entity.BusinessType(in.BusinessType).Valid())
	choice(v, "business_category", in.BusinessCategory, entity.BusinessCategory(in.BusinessCategory).Valid())
	if required(v, "business_location", in.BusinessLocation) {
		maxLen(v, "business_location", in.BusinessLocation, 100)
	}
	if in.ProfileImageURL != "" && !govalidator.IsURL(in.ProfileImageURL) {
		v.Add("profile_image_url", msgInvalidURL)
	}
	if image != nil && len(image.Data) == 0 {
		v.Add("profile_image", "The submitted file is empty.")
	}
	if v.HasErrors() {
		return nil, v
	}

	email := NormalizeEmail(in.Email)
	if err := uc.checkCredentials(ctx, email, in.Password, in.ConfirmPassword, in.FirstName, in.LastName); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var imageURL *string
	var uploaded string
	if in.ProfileImageURL != "" {
		u := in.ProfileImageURL
		imageURL = &u
	}
	if image != nil {
		if uc.images == nil {
			return nil, domain.FieldError(domain.ErrInvalidInput, "profile_image", "Image uploads are not available.")
		}
		url, err := uc.images.Put(ctx, sellerImagesFolder, *image)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				return nil, domain.FieldError(domain.ErrInvalidInput, "profile_image", msgInvalidImage)
			}
			return nil, fmt.Errorf("upload profile image: %w", err)
		}
		uploaded = url
		imageURL = &url
	}

	user := newUser(email, string(hash), in.FirstName, in.LastName, in.Phone, entity.RoleSeller)
	var bio *string
	if b := strings.TrimSpace(in.Bio); b != "" {
		bio = &b
	}
	profile := &entity.SellerProfile{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		BusinessName:     strings.TrimSpace(in.BusinessName),
		BusinessType:     entity.BusinessType(in.BusinessType),
		BusinessCategory: entity.BusinessCategory(in.BusinessCategory),
		BusinessLocation: strings.TrimSpace(in.BusinessLocation),
		Bio:              bio,
		ProfileImageURL:  imageURL,
		IsVerified:       false,
		CreatedAt:        user.DateJoined,
	}
	err = uc.txRunner.RunAccounts(ctx, func(
		userRepo repository.UserRepository,
		_ repository.BuyerProfileRepository,
		sellerRepo repository.SellerProfileRepository,
	) error {
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		return sellerRepo.Create(ctx, profile)
	})
	if err != nil {
		if uploaded != "" {
			if delErr := uc.images.Delete(ctx, uploaded); delErr != nil {
				uc.log.Warn().Err(delErr).Str("url", uploaded).Msg("no se pudo eliminar imagen huérfana")
			}
		}
		return nil, uc.registrationError(email, err)
	}

	uc.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("vendedor registrado, pendiente de verificación")
	return &dto.RegisterResponse{
		Message: "Seller account created successfully. Awaiting verification.",
		User:    toUserSummary(user),
	}, nil
}

// checkCredentials aplica, en orden, email duplicado, confirmación y política de contraseña.
func (uc *AuthUseCase) checkCredentials(ctx context.Context, email, pw, confirm, firstName, lastName string) error {
	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return domain.FieldError(domain.ErrEmailAlreadyExists, "email", msgEmailTaken)
	}
	if pw != confirm {
		return domain.FieldError(domain.ErrPasswordMismatch, "confirm_password", msgPasswordsDiffer)
	}
	if msgs := password.Validate(pw, password.Attributes{Email: email, FirstName: firstName, LastName: lastName}); len(msgs) > 0 {
		return domain.FieldError(domain.ErrWeakPassword, "password", strings.Join(msgs, " "))
	}
	return nil
}

// registrationError traduce fallos de la transacción: carrera por el email -> DuplicateEmail;
// cualquier otra violación -> IntegrityConflict genérico (sin filtrar detalles internos).
func (uc *AuthUseCase) registrationError(email string, err error) error {
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		return domain.FieldError(domain.ErrEmailAlreadyExists, "email", msgEmailTaken)
	}
	uc.log.Error().Err(err).Str("email", email).Msg("registro revertido")
	return fmt.Errorf("%w: %v", domain.ErrIntegrityConflict, err)
}

// Login verifica email/password, genera access + refresh y retorna tokens + usuario.
// Email desconocido, contraseña incorrecta y cuenta inactiva devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	v := domain.NewValidationError(domain.ErrMissingCredentials)
	required(v, "email", in.Email)
	required(v, "password", in.Password)
	if v.HasErrors() {
		return nil, v
	}

	email := NormalizeEmail(in.Email)
	if uc.throttle != nil {
		ok, err := uc.throttle.Allow(ctx, email)
		if err != nil {
			uc.log.Warn().Err(err).Msg("throttle de login no disponible, se permite el intento")
		} else if !ok {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Comparación contra un hash fijo para que el tiempo de respuesta no revele si el email existe.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := uc.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	if uc.throttle != nil {
		if err := uc.throttle.Reset(ctx, email); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo reiniciar el throttle de login")
		}
	}
	return &dto.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		User: dto.PublicUser{
			ID:        user.ID,
			Email:     user.Email,
			Role:      string(user.Role),
			FirstName: user.FirstName,
			LastName:  user.LastName,
		},
	}, nil
}

// Refresh emite un nuevo access token a partir de un refresh token válido de un usuario activo.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.RefreshResponse, error) {
	if strings.TrimSpace(in.Refresh) == "" {
		return nil, domain.FieldError(domain.ErrMissingCredentials, "refresh", msgRequired)
	}
	userID, err := uc.tokens.ParseRefresh(in.Refresh)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	access, err := uc.tokens.IssueAccess(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &dto.RefreshResponse{Access: access}, nil
}

func newUser(email, hash, firstName, lastName, phone string, role entity.Role) *entity.User {
	return &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		IsActive:     true,
		IsVerified:   false,
		IsStaff:      false,
		DateJoined:   time.Now().UTC(),
	}
}

func toUserSummary(u *entity.User) dto.UserSummary {
	return dto.UserSummary{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("biashara-dummy-password"), bcrypt.DefaultCost)
	})
	return dummy
}
