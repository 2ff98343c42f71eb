package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest entrada para registro.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=256"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest entrada para cambio de contraseña (usuario autenticado).
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// ChangeEmailRequest entrada para cambio de email (usuario autenticado).
type ChangeEmailRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewEmail        string `json:"new_email" validate:"required,email"`
}

// ValidateTokenRequest entrada para validar un token.
type ValidateTokenRequest struct {
	Token string `json:"token"`
}

// ValidateTokenResponse resultado de la validación.
type ValidateTokenResponse struct {
	Valid bool `json:"valid"`
}

// TokenResponse datos del access token emitido.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"` // segundos
}

// UserResponse resumen de usuario (sin password).
type UserResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	IsAdmin        bool   `json:"is_admin"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// AuthResponse salida de login y registro.
type AuthResponse struct {
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Token     string        `json:"token"`
	TokenInfo TokenResponse `json:"token_info"`
	User      UserResponse  `json:"user"`
}

// PrincipalResponse identidad autenticada (GET /api/auth/me).
type PrincipalResponse struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}
