package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/biashara-api/internal/application/auth"
	"github.com/jhoicas/biashara-api/internal/application/dto"
	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/pkg/logger"
)

// AuthHandler maneja registro, login y refresh.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// RegisterBuyer godoc
// @Summary      Registrar comprador
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterBuyerRequest  true  "datos personales y contraseña"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register/buyer/ [post]
func (h *AuthHandler) RegisterBuyer(c *fiber.Ctx) error {
	var in dto.RegisterBuyerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.RegisterBuyer(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterSeller godoc
// @Summary      Registrar vendedor
// @Description  Acepta JSON o multipart/form-data con el archivo opcional profile_image.
// @Tags         auth
// @Accept       json,mpfd
// @Produce      json
// @Param        body           body      dto.RegisterSellerRequest  true   "datos personales y del negocio"
// @Param        profile_image  formData  file                       false  "imagen de perfil"
// @Success      201   {object}  dto.RegisterResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register/seller/ [post]
func (h *AuthHandler) RegisterSeller(c *fiber.Ctx) error {
	var in dto.RegisterSellerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	var image *ports.Upload
	if isMultipart(c) {
		if fh, err := c.FormFile("profile_image"); err == nil {
			up, err := readUpload(fh)
			if err != nil {
				return invalidBody(c)
			}
			image = &up
		}
	}
	out, err := h.uc.RegisterSeller(c.UserContext(), in, image)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Refresh godoc
// @Summary      Renovar access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh token"
// @Success      200   {object}  dto.RefreshResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/token/refresh/ [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Refresh(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
