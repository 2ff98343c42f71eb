package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// errInvalidCredentials es el mismo error para "email inexistente" y "password incorrecto",
// así el login no revela qué emails están registrados.
var errInvalidCredentials = &domain.Error{Kind: domain.KindUnauthorized, Message: "credenciales inválidas"}

// AuthUseCase casos de uso de autenticación: login, registro, tokens y cambios de credenciales.
// No guarda estado entre peticiones.
type AuthUseCase struct {
	store  CredentialStore
	tokens TokenIssuer
	log    *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(store CredentialStore, tokens TokenIssuer, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{store: store, tokens: tokens, log: log.Named("auth")}
}

// Login verifica email/password, genera el token y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	uc.log.Info().Str("email", in.Email).Msg("intento de login")

	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		uc.log.Warn().Msg("login rechazado: datos incompletos")
		return nil, domain.NewValidation("email y password son requeridos")
	}

	user, err := uc.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, uc.fail("login", err)
	}
	if user == nil {
		uc.log.Warn().Str("email", in.Email).Msg("login rechazado: usuario no encontrado")
		return nil, errInvalidCredentials
	}

	ok, err := uc.store.VerifyPassword(ctx, user, in.Password)
	if err != nil {
		return nil, uc.fail("login", err)
	}
	if !ok {
		uc.log.Warn().Str("user_id", user.ID).Msg("login rechazado: password incorrecto")
		return nil, errInvalidCredentials
	}

	out, err := uc.authResponse(ctx, user, "login exitoso")
	if err != nil {
		return nil, uc.fail("login", err)
	}
	uc.log.Info().Str("user_id", user.ID).Strs("roles", user.Roles).Msg("login exitoso")
	return out, nil
}

// Register crea la cuenta (email sin confirmar, rol User) y devuelve token + usuario.
// Email y username se verifican antes de crear; la unicidad del almacenamiento es el árbitro final.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	uc.log.Info().Str("email", in.Email).Msg("intento de registro")

	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		uc.log.Warn().Msg("registro rechazado: datos incompletos")
		return nil, domain.NewValidation("email, username y password son requeridos")
	}

	existing, err := uc.store.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, uc.fail("register", err)
	}
	if existing != nil {
		uc.log.Warn().Str("email", in.Email).Msg("registro rechazado: email ya registrado")
		return nil, domain.NewValidation("el email ya está registrado")
	}

	existing, err = uc.store.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, uc.fail("register", err)
	}
	if existing != nil {
		uc.log.Warn().Str("username", in.Username).Msg("registro rechazado: username en uso")
		return nil, domain.NewValidation("el username ya está en uso")
	}

	user := &entity.User{
		Email:          in.Email,
		Username:       in.Username,
		EmailConfirmed: false,
	}
	if err := uc.store.Create(ctx, user, in.Password); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otro registro concurrente ganó la carrera entre la verificación y el insert.
			return nil, uc.reject("register", err, "el email o username ya está registrado")
		}
		return nil, uc.reject("register", err, "no se pudo crear el usuario")
	}

	if err := uc.store.AddRole(ctx, user, entity.RoleUser); err != nil {
		// Cuenta sin rol: se elimina y el email queda libre para reintentar.
		if derr := uc.store.Delete(ctx, user); derr != nil {
			uc.log.Error().Err(derr).Str("user_id", user.ID).Msg("registro: no se pudo eliminar la cuenta sin rol")
		}
		return nil, uc.fail("register", err)
	}

	out, err := uc.authResponse(ctx, user, "registro exitoso")
	if err != nil {
		return nil, uc.fail("register", err)
	}
	uc.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("registro exitoso")
	return out, nil
}

// ValidateToken indica si el token es válido. Nunca propaga errores ni panics.
func (uc *AuthUseCase) ValidateToken(token string) (valid bool) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error().Interface("panic", r).Msg("error validando token")
			valid = false
		}
	}()
	if token == "" {
		uc.log.Warn().Msg("validación de token: token vacío")
		return false
	}
	_, valid = uc.tokens.Validate(token)
	uc.log.Debug().Bool("valid", valid).Msg("validación de token")
	return valid
}

// GetPrincipal decodifica el token en un principal. Mismo contrato que ValidateToken.
func (uc *AuthUseCase) GetPrincipal(token string) (p jwt.Principal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error().Interface("panic", r).Msg("error obteniendo principal")
			p, ok = jwt.Principal{}, false
		}
	}()
	if token == "" {
		uc.log.Warn().Msg("principal: token vacío")
		return jwt.Principal{}, false
	}
	p, ok = uc.tokens.Validate(token)
	uc.log.Debug().Bool("has_principal", ok).Msg("principal desde token")
	return p, ok
}

// GenerateToken emite un token para userID sin más verificaciones:
// el llamador ya autenticó al usuario.
func (uc *AuthUseCase) GenerateToken(userID string) (*dto.TokenResponse, error) {
	if userID == "" {
		return nil, domain.NewValidation("user_id es requerido")
	}
	tok, err := uc.tokens.Issue(userID, nil)
	if err != nil {
		return nil, uc.fail("generate_token", err)
	}
	uc.log.Debug().Str("user_id", userID).Msg("token generado")
	out := toTokenResponse(tok)
	return &out, nil
}

// ChangePassword cambia la contraseña del usuario autenticado userID.
// Un rechazo (password actual incorrecto o política) es validation_error, no unauthorized.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.store.FindByID(ctx, userID)
	if err != nil {
		return uc.fail("change_password", err)
	}
	if user == nil {
		uc.log.Warn().Str("user_id", userID).Msg("cambio de password: usuario no encontrado")
		return domain.NewNotFound("usuario no encontrado")
	}
	if err := uc.store.ChangePassword(ctx, user, in.CurrentPassword, in.NewPassword); err != nil {
		return uc.reject("change_password", err, "no se pudo cambiar la contraseña")
	}
	uc.log.Info().Str("user_id", userID).Msg("password actualizado")
	return nil
}

// ChangeEmail cambia el email del usuario autenticado userID y replica el nuevo email en el username.
// La réplica es best-effort: si falla, el cambio de email se reporta igualmente como exitoso.
func (uc *AuthUseCase) ChangeEmail(ctx context.Context, userID string, in dto.ChangeEmailRequest) error {
	uc.log.Info().Str("user_id", userID).Msg("intento de cambio de email")

	user, err := uc.store.FindByID(ctx, userID)
	if err != nil {
		return uc.fail("change_email", err)
	}
	if user == nil {
		uc.log.Warn().Str("user_id", userID).Msg("cambio de email: usuario no encontrado")
		return domain.NewNotFound("usuario no encontrado")
	}

	ok, err := uc.store.VerifyPassword(ctx, user, in.CurrentPassword)
	if err != nil {
		return uc.fail("change_email", err)
	}
	if !ok {
		uc.log.Warn().Str("user_id", userID).Msg("cambio de email: password incorrecto")
		return &domain.Error{Kind: domain.KindUnauthorized, Message: "contraseña actual incorrecta"}
	}

	if strings.TrimSpace(in.NewEmail) == "" {
		return domain.NewValidation("new_email es requerido")
	}
	existing, err := uc.store.FindByEmail(ctx, in.NewEmail)
	if err != nil {
		return uc.fail("change_email", err)
	}
	if existing != nil && existing.ID != user.ID {
		uc.log.Warn().Str("new_email", in.NewEmail).Msg("cambio de email: email en uso")
		return domain.NewValidation("el email ya está en uso")
	}

	if err := uc.store.ChangeEmail(ctx, user, in.NewEmail); err != nil {
		return uc.reject("change_email", err, "no se pudo cambiar el email")
	}

	user.Username = user.Email
	if err := uc.store.Update(ctx, user); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("email cambiado pero el username no se actualizó")
		return nil
	}
	uc.log.Info().Str("user_id", userID).Str("new_email", user.Email).Msg("email actualizado")
	return nil
}

func (uc *AuthUseCase) authResponse(ctx context.Context, user *entity.User, msg string) (*dto.AuthResponse, error) {
	roles, err := uc.store.GetRoles(ctx, user)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	tok, err := uc.tokens.Issue(user.ID, roles)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Success:   true,
		Message:   msg,
		Token:     tok.AccessToken,
		TokenInfo: toTokenResponse(tok),
		User: dto.UserResponse{
			ID:             user.ID,
			Email:          user.Email,
			Username:       user.Username,
			IsAdmin:        slices.Contains(roles, entity.RoleAdmin),
			EmailConfirmed: user.EmailConfirmed,
		},
	}, nil
}

// fail deja pasar los errores ya clasificados y colapsa el resto a validation_error
// sin exponer el detalle interno.
func (uc *AuthUseCase) fail(op string, err error) error {
	if domain.IsClassified(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("error inesperado")
	return domain.ErrValidation
}

// reject traduce una mutación rechazada por el credential store a validation_error.
func (uc *AuthUseCase) reject(op string, err error, msg string) error {
	uc.log.Warn().Err(err).Str("op", op).Msg("operación rechazada")
	return domain.NewValidation(msg)
}

func toTokenResponse(tok jwt.Token) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		IssuedAt:    tok.IssuedAt,
		ExpiresAt:   tok.ExpiresAt,
		ExpiresIn:   int64(tok.ExpiresAt.Sub(tok.IssuedAt) / time.Second),
	}
}
