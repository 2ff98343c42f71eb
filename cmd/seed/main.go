// seed prepara una base PostgreSQL: aplica migraciones, crea (o promueve) la cuenta admin
// con roles Admin y User, y carga los precios del catálogo desde un JSON.
//
// Uso: go run ./cmd/seed [ruta/catalog.json]
// Por defecto usa SEED_CATALOG_PATH (./catalog.json). El password del admin sale de SEED_ADMIN_PASSWORD.
//
// Formato del catálogo: [{"id": "A", "name": "Producto A", "price": "10.00"}, ...]
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/bootstrap"
	"github.com/jhoicas/storefront-api/internal/infrastructure/identity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	catalogPath := cfg.Seed.CatalogPath
	if len(os.Args) > 1 {
		catalogPath = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	credentials := identity.NewManager(postgres.NewUserRepository(pool), identity.Options{PasswordMinLength: cfg.Auth.PasswordMinLength})
	created, err := bootstrap.EnsureAdmin(ctx, credentials, cfg.Seed.AdminEmail, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("cuenta admin")
	}
	log.Info().Str("email", cfg.Seed.AdminEmail).Bool("created", created).Msg("admin listo")

	f, err := os.Open(catalogPath)
	if err != nil {
		log.Warn().Str("path", catalogPath).Msg("catálogo no encontrado, se omite")
		return
	}
	defer f.Close()

	items, err := bootstrap.LoadCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}
	if err := bootstrap.SeedCatalog(ctx, postgres.NewProductRepository(pool), items, time.Now().UTC()); err != nil {
		log.Fatal().Err(err).Msg("guardar catálogo")
	}
	log.Info().Str("path", catalogPath).Int("products", len(items)).Msg("catálogo cargado")
}
