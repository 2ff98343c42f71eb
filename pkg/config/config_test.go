package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 60, cfg.JWT.Expiration)
	assert.Equal(t, time.Hour, cfg.JWT.Lifetime())
	assert.Equal(t, 6, cfg.Auth.PasswordMinLength)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Empty(t, cfg.Seed.AdminPassword)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")
	v.Set("JWT_EXPIRATION_MINUTES", "15")
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("AUTH_LOGIN_RATE_WINDOW_SECONDS", 30)

	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 15*time.Minute, cfg.JWT.Lifetime())
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 30*time.Second, cfg.Auth.LoginRateWindow)
}

func TestValidate_Errores(t *testing.T) {
	cfg := fromViper(viper.New())
	assert.Error(t, cfg.Validate(), "sin secret")

	cfg.JWT.Secret = "x"
	cfg.JWT.Expiration = 0
	assert.Error(t, cfg.Validate(), "vigencia cero")

	cfg.JWT.Expiration = 10
	cfg.Storage = "mongo"
	assert.Error(t, cfg.Validate(), "driver desconocido")
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss word", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/shop?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
