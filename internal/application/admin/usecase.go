package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/password"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
	"github.com/jhoicas/biashara-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// SystemActor actor usado por la CLI de administración.
var SystemActor = entity.Actor{UserID: "system", Role: entity.RoleAdmin}

// AdminUseCase operaciones de administración: verificación de vendedores y alta de administradores.
type AdminUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(txRunner TxRunner, log *logger.Logger) *AdminUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminUseCase{txRunner: txRunner, log: log}
}

// VerifySeller marca al vendedor como verificado (perfil y usuario).
func (uc *AdminUseCase) VerifySeller(ctx context.Context, actor entity.Actor, sellerUserID string) (*dto.SellerVerificationResponse, error) {
	return uc.setVerified(ctx, actor, sellerUserID, true)
}

// UnverifySeller revierte la verificación del vendedor.
func (uc *AdminUseCase) UnverifySeller(ctx context.Context, actor entity.Actor, sellerUserID string) (*dto.SellerVerificationResponse, error) {
	return uc.setVerified(ctx, actor, sellerUserID, false)
}

func (uc *AdminUseCase) setVerified(ctx context.Context, actor entity.Actor, sellerUserID string, verified bool) (*dto.SellerVerificationResponse, error) {
	if !actor.Is(entity.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	if _, err := uuid.Parse(sellerUserID); err != nil {
		return nil, domain.ErrNotFound
	}
	err := uc.txRunner.RunAccounts(ctx, func(
		userRepo repository.UserRepository,
		_ repository.BuyerProfileRepository,
		sellerRepo repository.SellerProfileRepository,
	) error {
		if err := sellerRepo.SetVerified(ctx, sellerUserID, verified); err != nil {
			return err
		}
		return userRepo.SetVerified(ctx, sellerUserID, verified)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("seller_user_id", sellerUserID).Str("by", actor.UserID).Bool("verified", verified).Msg("verificación de vendedor actualizada")
	return &dto.SellerVerificationResponse{UserID: sellerUserID, IsVerified: verified}, nil
}

// CreateAdmin crea un usuario role=admin, is_staff=true. La contraseña pasa por la misma política que el registro.
func (uc *AdminUseCase) CreateAdmin(ctx context.Context, in dto.CreateAdminRequest) (*dto.UserSummary, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !govalidator.IsEmail(email) {
		return nil, domain.FieldError(domain.ErrInvalidInput, "email", "Enter a valid email address.")
	}
	if msgs := password.Validate(in.Password, password.Attributes{Email: email, FirstName: in.FirstName, LastName: in.LastName}); len(msgs) > 0 {
		return nil, domain.FieldError(domain.ErrWeakPassword, "password", strings.Join(msgs, " "))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		IsVerified:   true,
		IsStaff:      true,
		DateJoined:   time.Now().UTC(),
	}
	err = uc.txRunner.RunAccounts(ctx, func(
		userRepo repository.UserRepository,
		_ repository.BuyerProfileRepository,
		_ repository.SellerProfileRepository,
	) error {
		return userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("administrador creado")
	return &dto.UserSummary{ID: user.ID, Email: user.Email, Role: string(user.Role)}, nil
}
