package identity_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/identity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
)

func newManager() *identity.Manager {
	return identity.NewManager(memory.NewStore().Users(), identity.Options{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost})
}

func TestManager_CreateYVerify(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	u := &entity.User{Email: "Ana@Example.com", Username: "ana"}

	require.NoError(t, m.Create(ctx, u, "secreto1"))
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secreto1", u.PasswordHash)
	assert.Equal(t, "ana@example.com", u.NormalizedEmail)

	found, err := m.FindByEmail(ctx, "ANA@example.COM")
	require.NoError(t, err)
	require.NotNil(t, found, "email sin distinguir mayúsculas")

	ok, err := m.VerifyPassword(ctx, found, "secreto1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.VerifyPassword(ctx, found, "otra-cosa")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_CreateRechazos(t *testing.T) {
	ctx := context.Background()
	m := newManager()

	assert.ErrorIs(t, m.Create(ctx, &entity.User{Email: "no-es-email", Username: "x"}, "secreto1"), identity.ErrInvalidEmail)
	assert.ErrorIs(t, m.Create(ctx, &entity.User{Email: "x@x.com", Username: " "}, "secreto1"), identity.ErrInvalidUsername)
	assert.ErrorIs(t, m.Create(ctx, &entity.User{Email: "x@x.com", Username: "x"}, "123"), identity.ErrPasswordPolicy)
	assert.ErrorIs(t, m.Create(ctx, &entity.User{Email: "x@x.com", Username: "x"}, strings.Repeat("a", 80)), identity.ErrPasswordPolicy)

	require.NoError(t, m.Create(ctx, &entity.User{Email: "x@x.com", Username: "x"}, "secreto1"))
	assert.ErrorIs(t, m.Create(ctx, &entity.User{Email: "X@X.COM", Username: "y"}, "secreto1"), domain.ErrDuplicate)
	assert.ErrorIs(t, m.Create(ctx, &entity.User{Email: "y@x.com", Username: "X"}, "secreto1"), domain.ErrDuplicate)
}

func TestManager_ChangePassword(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	u := &entity.User{Email: "a@x.com", Username: "a"}
	require.NoError(t, m.Create(ctx, u, "secreto1"))

	assert.ErrorIs(t, m.ChangePassword(ctx, u, "incorrecta", "nueva-clave"), identity.ErrPasswordMismatch)
	assert.ErrorIs(t, m.ChangePassword(ctx, u, "secreto1", "123"), identity.ErrPasswordPolicy)
	require.NoError(t, m.ChangePassword(ctx, u, "secreto1", "nueva-clave"))

	stored, err := m.FindByID(ctx, u.ID)
	require.NoError(t, err)
	ok, _ := m.VerifyPassword(ctx, stored, "nueva-clave")
	assert.True(t, ok)
	ok, _ = m.VerifyPassword(ctx, stored, "secreto1")
	assert.False(t, ok)
}

func TestManager_ChangeEmail(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	a := &entity.User{Email: "a@x.com", Username: "a", EmailConfirmed: true}
	b := &entity.User{Email: "b@x.com", Username: "b"}
	require.NoError(t, m.Create(ctx, a, "secreto1"))
	require.NoError(t, m.Create(ctx, b, "secreto1"))

	assert.ErrorIs(t, m.ChangeEmail(ctx, a, "B@x.com"), domain.ErrDuplicate)
	assert.Equal(t, "a@x.com", a.Email, "sin cambios ante rechazo")

	require.NoError(t, m.ChangeEmail(ctx, a, "nuevo@x.com"))
	assert.False(t, a.EmailConfirmed)

	old, _ := m.FindByEmail(ctx, "a@x.com")
	assert.Nil(t, old)
	found, _ := m.FindByEmail(ctx, "nuevo@x.com")
	require.NotNil(t, found)
	assert.Equal(t, a.ID, found.ID)
}

func TestManager_Roles(t *testing.T) {
	ctx := context.Background()
	m := newManager()
	u := &entity.User{Email: "a@x.com", Username: "a"}
	require.NoError(t, m.Create(ctx, u, "secreto1"))

	require.NoError(t, m.AddRole(ctx, u, entity.RoleUser))
	require.NoError(t, m.AddRole(ctx, u, entity.RoleAdmin))
	roles, err := m.GetRoles(ctx, u)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{entity.RoleUser, entity.RoleAdmin}, roles)
	assert.True(t, u.HasRole(entity.RoleAdmin))
}
