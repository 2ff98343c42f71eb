package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/pkg/jwt"
)

// Locals keys para el principal autenticado en Fiber.
const (
	LocalUserID = "user_id"
	LocalRoles  = "roles"
)

// principalSource lo implementa *auth.AuthUseCase.
type principalSource interface {
	GetPrincipal(token string) (jwt.Principal, bool)
}

// AuthMiddleware valida el Bearer Token y deja UserID y roles en c.Locals.
func AuthMiddleware(src principalSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return writeError(c, &domain.Error{Kind: domain.KindUnauthorized, Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, &domain.Error{Kind: domain.KindUnauthorized, Message: "formato: Bearer <token>"})
		}
		p, ok := src.GetPrincipal(strings.TrimSpace(parts[1]))
		if !ok {
			return writeError(c, &domain.Error{Kind: domain.KindUnauthorized, Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, p.UserID)
		c.Locals(LocalRoles, p.Roles)
		return c.Next()
	}
}

// RequireRole exige que el principal tenga alguno de los roles. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 si no hay principal en el contexto.
//   - 403 forbidden si ninguno de sus roles está permitido.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return writeError(c, domain.ErrUnauthorized)
		}
		p := jwt.Principal{UserID: GetUserID(c), Roles: GetRoles(c)}
		if !p.HasRole(roles...) {
			return writeError(c, domain.ErrForbidden)
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRoles devuelve los roles del contexto (después del middleware de auth).
func GetRoles(c *fiber.Ctx) []string {
	r, _ := c.Locals(LocalRoles).([]string)
	return r
}
