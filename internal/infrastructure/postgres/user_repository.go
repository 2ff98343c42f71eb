package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, normalized_email, username, normalized_username, password_hash, email_confirmed, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// La unicidad de email y username normalizados la garantizan índices únicos.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.NormalizedEmail, user.Username, user.NormalizedUsername,
		user.PasswordHash, user.EmailConfirmed, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.getBy(ctx, "id", id)
}

// GetByNormalizedEmail obtiene un usuario por email normalizado.
func (r *UserRepo) GetByNormalizedEmail(ctx context.Context, normalizedEmail string) (*entity.User, error) {
	return r.getBy(ctx, "normalized_email", normalizedEmail)
}

// GetByNormalizedUsername obtiene un usuario por username normalizado.
func (r *UserRepo) GetByNormalizedUsername(ctx context.Context, normalizedUsername string) (*entity.User, error) {
	return r.getBy(ctx, "normalized_username", normalizedUsername)
}

// column es siempre una constante de este archivo, nunca entrada del usuario.
func (r *UserRepo) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	u, err := scanUser(r.q.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by %s: %w", column, err)
	}
	return u, nil
}

// Update actualiza email, username, hash y confirmación.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	if !isUUID(user.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE users SET email = $2, normalized_email = $3, username = $4, normalized_username = $5,
			password_hash = $6, email_confirmed = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.NormalizedEmail, user.Username, user.NormalizedUsername,
		user.PasswordHash, user.EmailConfirmed, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetRoles devuelve los roles del usuario ordenados por nombre.
func (r *UserRepo) GetRoles(ctx context.Context, userID string) ([]string, error) {
	if !isUUID(userID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan roles: %w", err)
	}
	return roles, nil
}

// AddRole asigna un rol (idempotente).
func (r *UserRepo) AddRole(ctx context.Context, userID, role string) error {
	if !isUUID(userID) {
		return domain.ErrNotFound
	}
	_, err := r.q.Exec(ctx,
		`INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT (user_id, role) DO NOTHING`,
		userID, role,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("add role: %w", err)
	}
	return nil
}

// Delete elimina el usuario; sus roles se borran en cascada.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func scanUser(row pgxScanner) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.NormalizedEmail, &u.Username, &u.NormalizedUsername,
		&u.PasswordHash, &u.EmailConfirmed, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
