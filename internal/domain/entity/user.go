package entity

import (
	"slices"
	"time"
)

// Roles asignables a un User.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User representa una cuenta de la tienda.
// Email y Username son únicos sin distinguir mayúsculas (se comparan por su forma normalizada).
type User struct {
	ID                 string
	Email              string
	NormalizedEmail    string
	Username           string
	NormalizedUsername string
	PasswordHash       string // bcrypt; lo gestiona el credential store, nunca sale del core
	EmailConfirmed     bool
	Roles              []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasRole indica si el usuario tiene el rol (comparación exacta).
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
