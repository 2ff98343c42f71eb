package auth

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/jwt"
)

// CredentialStore es el sistema de registro de cuentas: búsquedas, verificación de
// contraseña, mutaciones y roles. Lo implementa *identity.Manager.
// Las búsquedas devuelven (nil, nil) si el usuario no existe.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	VerifyPassword(ctx context.Context, user *entity.User, password string) (bool, error)
	Create(ctx context.Context, user *entity.User, password string) error
	Update(ctx context.Context, user *entity.User) error
	ChangePassword(ctx context.Context, user *entity.User, current, next string) error
	ChangeEmail(ctx context.Context, user *entity.User, newEmail string) error
	GetRoles(ctx context.Context, user *entity.User) ([]string, error)
	AddRole(ctx context.Context, user *entity.User, role string) error
	Delete(ctx context.Context, user *entity.User) error
}

// TokenIssuer emite y valida access tokens. Lo implementa *jwt.Issuer.
type TokenIssuer interface {
	Issue(userID string, roles []string) (jwt.Token, error)
	Validate(token string) (jwt.Principal, bool)
}
