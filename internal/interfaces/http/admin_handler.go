package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/biashara-api/internal/application/admin"
	"github.com/jhoicas/biashara-api/pkg/logger"
)

// AdminHandler acciones de administración sobre vendedores.
type AdminHandler struct {
	uc  *admin.AdminUseCase
	log *logger.Logger
}

// NewAdminHandler construye el handler de administración.
func NewAdminHandler(uc *admin.AdminUseCase, log *logger.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

// VerifySeller godoc
// @Summary      Verificar vendedor
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "user_id del vendedor"
// @Success      200  {object}  dto.SellerVerificationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sellers/{id}/verify [patch]
func (h *AdminHandler) VerifySeller(c *fiber.Ctx) error {
	out, err := h.uc.VerifySeller(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UnverifySeller godoc
// @Summary      Quitar verificación de vendedor
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "user_id del vendedor"
// @Success      200  {object}  dto.SellerVerificationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sellers/{id}/unverify [patch]
func (h *AdminHandler) UnverifySeller(c *fiber.Ctx) error {
	out, err := h.uc.UnverifySeller(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
