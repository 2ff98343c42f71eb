package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Seed     SeedConfig
	Storage  string // postgres | memory
	DocsPath string // swagger.json servido en /docs si existe
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
	Audience   string
}

// Lifetime devuelve la vigencia del token como duración.
func (c JWTConfig) Lifetime() time.Duration {
	return time.Duration(c.Expiration) * time.Minute
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig límites de login y política de contraseñas.
type AuthConfig struct {
	LoginRateMax      int
	LoginRateWindow   time.Duration
	PasswordMinLength int
}

// SeedConfig cuenta admin que crea cmd/seed.
type SeedConfig struct {
	AdminEmail    string
	AdminUsername string
	AdminPassword string
	CatalogPath   string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "storefront-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "storefront"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			AutoMigrate: getBool(v, "DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "storefront-api"),
			Audience:   getString(v, "JWT_AUDIENCE", "storefront-clients"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Auth: AuthConfig{
			LoginRateMax:      getInt(v, "AUTH_LOGIN_RATE_MAX", 10),
			LoginRateWindow:   time.Duration(getInt(v, "AUTH_LOGIN_RATE_WINDOW_SECONDS", 60)) * time.Second,
			PasswordMinLength: getInt(v, "PASSWORD_MIN_LENGTH", 6),
		},
		Seed: SeedConfig{
			AdminEmail:    getString(v, "SEED_ADMIN_EMAIL", "admin@storefront.local"),
			AdminUsername: getString(v, "SEED_ADMIN_USERNAME", "admin"),
			AdminPassword: getString(v, "SEED_ADMIN_PASSWORD", ""),
			CatalogPath:   getString(v, "SEED_CATALOG_PATH", "./catalog.json"),
		},
		Storage:  strings.ToLower(getString(v, "STORAGE_DRIVER", StoragePostgres)),
		DocsPath: getString(v, "DOCS_PATH", "./docs/swagger.json"),
	}
}

// Validate verifica los valores mínimos para arrancar.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es requerido")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES debe ser mayor a cero")
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER inválido: %q", c.Storage)
	}
	if c.Auth.PasswordMinLength < 1 {
		return fmt.Errorf("PASSWORD_MIN_LENGTH debe ser mayor a cero")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	return v.GetBool(key)
}
