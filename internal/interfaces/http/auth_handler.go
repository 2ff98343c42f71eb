package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// AuthHandler maneja login, registro, validación de token y cambios de credenciales.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, username, password"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ValidateToken godoc
// @Summary      Validar token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateTokenRequest  true  "token"
// @Success      200   {object}  dto.ValidateTokenResponse
// @Router       /api/auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c *fiber.Ctx) error {
	var in dto.ValidateTokenRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ValidateTokenResponse{Valid: h.uc.ValidateToken(in.Token)})
}

// ChangePassword godoc
// @Summary      Cambiar contraseña del usuario autenticado
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "contraseña actualizada"})
}

// ChangeEmail godoc
// @Summary      Cambiar email del usuario autenticado
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.ChangeEmailRequest  true  "current_password, new_email"
// @Success      200   {object}  dto.SuccessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/change-email [post]
func (h *AuthHandler) ChangeEmail(c *fiber.Ctx) error {
	var in dto.ChangeEmailRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ChangeEmail(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "email actualizado"})
}

// Me godoc
// @Summary      Identidad del token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.PrincipalResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	roles := GetRoles(c)
	if roles == nil {
		roles = []string{}
	}
	return c.JSON(dto.PrincipalResponse{UserID: GetUserID(c), Roles: roles})
}
