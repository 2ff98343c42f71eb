package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres/migrations"
)

func TestMigrationsEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestEsquemaInicial(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "00001_init.sql")
	require.NoError(t, err)
	schema := string(body)

	for _, table := range []string{"users", "user_roles", "products", "orders", "order_items"} {
		assert.True(t, strings.Contains(schema, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, schema, "ux_users_normalized_email")
	assert.Contains(t, schema, "ux_users_normalized_username")
	assert.Contains(t, schema, "CHECK (quantity > 0)")
}
