package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/bootstrap"
	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/internal/infrastructure/identity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
	"github.com/jhoicas/storefront-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/storefront-api/internal/interfaces/http"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// storage agrupa los adaptadores de persistencia del driver elegido.
type storage struct {
	users    repository.UserRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	tx       checkout.TxRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	credentials := identity.NewManager(st.users, identity.Options{PasswordMinLength: cfg.Auth.PasswordMinLength})
	tokens := jwt.NewIssuer(jwt.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Lifetime: cfg.JWT.Lifetime(),
	})

	if cfg.Storage == config.StorageMemory {
		seedMemory(ctx, cfg, credentials, st.products, log)
	}

	authUC := auth.NewAuthUseCase(credentials, tokens, log)
	checkoutUC := checkout.NewCheckoutUseCase(st.products, st.tx, st.orders, log)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el swagger.json generado)
	if _, err := os.Stat(cfg.DocsPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.DocsPath,
			Path:     "docs",
			Title:    "Storefront API",
		}))
	} else {
		log.Warn().Str("path", cfg.DocsPath).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CheckoutUC:      checkoutUC,
		LoginRateMax:    cfg.Auth.LoginRateMax,
		LoginRateWindow: cfg.Auth.LoginRateWindow,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		return &storage{
			users:    store.Users(),
			products: store.Products(),
			orders:   store.Orders(),
			tx:       memory.NewTxRunner(store),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return postgresStorage(pool), nil
}

func postgresStorage(pool *pgxpool.Pool) *storage {
	return &storage{
		users:    postgres.NewUserRepository(pool),
		products: postgres.NewProductRepository(pool),
		orders:   postgres.NewOrderRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}
}

// seedMemory carga admin y catálogo al arrancar con STORAGE_DRIVER=memory.
func seedMemory(ctx context.Context, cfg *config.Config, credentials *identity.Manager, products repository.ProductRepository, log *logger.Logger) {
	if cfg.Seed.AdminPassword != "" {
		if _, err := bootstrap.EnsureAdmin(ctx, credentials, cfg.Seed.AdminEmail, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("crear admin en memoria")
		}
		log.Info().Str("email", cfg.Seed.AdminEmail).Msg("admin en memoria listo")
	}

	f, err := os.Open(cfg.Seed.CatalogPath)
	if err != nil {
		log.Warn().Str("path", cfg.Seed.CatalogPath).Msg("catálogo no encontrado, el checkout no tendrá productos")
		return
	}
	defer f.Close()
	items, err := bootstrap.LoadCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}
	if err := bootstrap.SeedCatalog(ctx, products, items, time.Now().UTC()); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo en memoria")
	}
	log.Info().Int("products", len(items)).Msg("catálogo en memoria cargado")
}
