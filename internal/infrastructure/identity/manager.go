// Package identity implementa el credential store: hash de contraseñas con bcrypt,
// política de contraseñas, normalización de email/username y asignación de roles
// sobre el puerto repository.UserRepository.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// Errores del credential store. Son rechazos de mutación, no fallos de dominio clasificados.
var (
	ErrPasswordMismatch = errors.New("identity: la contraseña actual no coincide")
	ErrPasswordPolicy   = errors.New("identity: la contraseña no cumple la política")
	ErrInvalidEmail     = errors.New("identity: email inválido")
	ErrInvalidUsername  = errors.New("identity: username inválido")
)

// Options política de contraseñas y costo de bcrypt.
type Options struct {
	PasswordMinLength int
	BcryptCost        int // 0 = bcrypt.DefaultCost
}

// Manager implementa el CredentialStore consumido por el caso de uso de auth.
type Manager struct {
	users    repository.UserRepository
	opts     Options
	validate *validator.Validate
	now      func() time.Time
}

// NewManager construye el credential store.
func NewManager(users repository.UserRepository, opts Options) *Manager {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &Manager{users: users, opts: opts, validate: validator.New(), now: time.Now}
}

// Normalize devuelve la forma canónica (case-folded, sin espacios en los extremos) de email o username.
// cases.Caser guarda estado: se crea uno por llamada.
func (m *Manager) Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// FindByEmail busca por email sin distinguir mayúsculas. (nil, nil) si no existe.
func (m *Manager) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.users.GetByNormalizedEmail(ctx, m.Normalize(email))
}

// FindByUsername busca por username sin distinguir mayúsculas. (nil, nil) si no existe.
func (m *Manager) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return m.users.GetByNormalizedUsername(ctx, m.Normalize(username))
}

// FindByID busca por ID. (nil, nil) si no existe.
func (m *Manager) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return m.users.GetByID(ctx, id)
}

// VerifyPassword compara password contra el hash del usuario.
func (m *Manager) VerifyPassword(_ context.Context, user *entity.User, password string) (bool, error) {
	if user == nil || user.PasswordHash == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verificar password: %w", err)
}

// Create valida, hashea y persiste un usuario nuevo. Completa ID, normalizados y fechas.
// Devuelve domain.ErrDuplicate (vía repositorio) si email o username ya existen.
func (m *Manager) Create(ctx context.Context, user *entity.User, password string) error {
	if err := m.validateEmail(user.Email); err != nil {
		return err
	}
	if strings.TrimSpace(user.Username) == "" {
		return ErrInvalidUsername
	}
	hash, err := m.hash(password)
	if err != nil {
		return err
	}
	now := m.now()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.TrimSpace(user.Email)
	user.NormalizedEmail = m.Normalize(user.Email)
	user.Username = strings.TrimSpace(user.Username)
	user.NormalizedUsername = m.Normalize(user.Username)
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now
	return m.users.Create(ctx, user)
}

// Update persiste cambios de perfil (username, email_confirmed) recalculando normalizados.
func (m *Manager) Update(ctx context.Context, user *entity.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return ErrInvalidUsername
	}
	user.NormalizedUsername = m.Normalize(user.Username)
	user.NormalizedEmail = m.Normalize(user.Email)
	user.UpdatedAt = m.now()
	return m.users.Update(ctx, user)
}

// ChangePassword verifica la contraseña actual y guarda el hash de la nueva.
func (m *Manager) ChangePassword(ctx context.Context, user *entity.User, current, next string) error {
	ok, err := m.VerifyPassword(ctx, user, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPasswordMismatch
	}
	hash, err := m.hash(next)
	if err != nil {
		return err
	}
	updated := *user
	updated.PasswordHash = hash
	updated.UpdatedAt = m.now()
	if err := m.users.Update(ctx, &updated); err != nil {
		return err
	}
	*user = updated
	return nil
}

// ChangeEmail cambia el email del usuario. El email queda sin confirmar.
func (m *Manager) ChangeEmail(ctx context.Context, user *entity.User, newEmail string) error {
	if err := m.validateEmail(newEmail); err != nil {
		return err
	}
	updated := *user
	updated.Email = strings.TrimSpace(newEmail)
	updated.NormalizedEmail = m.Normalize(newEmail)
	updated.EmailConfirmed = false
	updated.UpdatedAt = m.now()
	if err := m.users.Update(ctx, &updated); err != nil {
		return err
	}
	*user = updated
	return nil
}

// GetRoles devuelve los roles del usuario.
func (m *Manager) GetRoles(ctx context.Context, user *entity.User) ([]string, error) {
	roles, err := m.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return roles, nil
}

// AddRole asigna un rol al usuario (idempotente).
func (m *Manager) AddRole(ctx context.Context, user *entity.User, role string) error {
	if err := m.users.AddRole(ctx, user.ID, role); err != nil {
		return err
	}
	if !user.HasRole(role) {
		user.Roles = append(user.Roles, role)
	}
	return nil
}

// Delete elimina la cuenta del usuario.
func (m *Manager) Delete(ctx context.Context, user *entity.User) error {
	return m.users.Delete(ctx, user.ID)
}

func (m *Manager) hash(password string) (string, error) {
	if len([]rune(password)) < m.opts.PasswordMinLength || strings.TrimSpace(password) == "" {
		return "", ErrPasswordPolicy
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.opts.BcryptCost)
	if err != nil {
		// bcrypt rechaza contraseñas de más de 72 bytes.
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordPolicy
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (m *Manager) validateEmail(email string) error {
	if err := m.validate.Var(strings.TrimSpace(email), "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
