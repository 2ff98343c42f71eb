package bootstrap_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/bootstrap"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/identity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
)

func TestEnsureAdmin_CreaYLuegoSoloPromueve(t *testing.T) {
	ctx := context.Background()
	mgr := identity.NewManager(memory.NewStore().Users(), identity.Options{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost})

	created, err := bootstrap.EnsureAdmin(ctx, mgr, "admin@example.com", "admin", "secreto1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = bootstrap.EnsureAdmin(ctx, mgr, "ADMIN@example.com", "admin", "")
	require.NoError(t, err)
	assert.False(t, created, "la segunda vez no crea")

	u, err := mgr.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, u.EmailConfirmed)
	roles, err := mgr.GetRoles(ctx, u)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{entity.RoleUser, entity.RoleAdmin}, roles)

	ok, err := mgr.VerifyPassword(ctx, u, "secreto1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEnsureAdmin_PromueveUsuarioExistente(t *testing.T) {
	ctx := context.Background()
	mgr := identity.NewManager(memory.NewStore().Users(), identity.Options{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost})
	require.NoError(t, mgr.Create(ctx, &entity.User{Email: "ana@example.com", Username: "ana"}, "secreto1"))

	created, err := bootstrap.EnsureAdmin(ctx, mgr, "ana@example.com", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	u, _ := mgr.FindByEmail(ctx, "ana@example.com")
	roles, _ := mgr.GetRoles(ctx, u)
	assert.Contains(t, roles, entity.RoleAdmin)
}

func TestEnsureAdmin_SinPasswordParaCuentaNueva(t *testing.T) {
	mgr := identity.NewManager(memory.NewStore().Users(), identity.Options{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost})
	_, err := bootstrap.EnsureAdmin(context.Background(), mgr, "admin@example.com", "admin", "")
	assert.Error(t, err)
}

func TestLoadCatalogYSeed(t *testing.T) {
	ctx := context.Background()
	items, err := bootstrap.LoadCatalog(strings.NewReader(`[
		{"id": "A", "name": "Producto A", "price": "10.00"},
		{"id": " B ", "name": "Producto B", "price": 5.5}
	]`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[1].ID)

	store := memory.NewStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, bootstrap.SeedCatalog(ctx, store.Products(), items, now))

	b, err := store.Products().GetByID(ctx, "B")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, decimal.RequireFromString("5.50").Equal(b.Price))
	assert.Equal(t, now, b.UpdatedAt)
}

func TestLoadCatalog_Rechazos(t *testing.T) {
	tests := map[string]string{
		"json inválido":   `{`,
		"id vacío":        `[{"id": "", "price": "1"}]`,
		"id repetido":     `[{"id": "A", "price": "1"}, {"id": "A", "price": "2"}]`,
		"precio negativo": `[{"id": "A", "price": "-1"}]`,
		"campo extra":     `[{"id": "A", "price": "1", "stock": 3}]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := bootstrap.LoadCatalog(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}
