package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User y sus roles (DIP).
// Las búsquedas reciben la forma normalizada; devuelven (nil, nil) si no existe.
// Create y Update devuelven domain.ErrDuplicate ante violación de unicidad.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*entity.User, error)
	GetByNormalizedUsername(ctx context.Context, normalizedUsername string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	GetRoles(ctx context.Context, userID string) ([]string, error)
	AddRole(ctx context.Context, userID, role string) error
	// Delete elimina el usuario y sus roles; no falla si no existe.
	Delete(ctx context.Context, id string) error
}
