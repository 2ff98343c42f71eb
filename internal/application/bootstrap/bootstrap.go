// Package bootstrap prepara una base nueva: cuenta administradora y precios del catálogo.
// Lo usan cmd/seed (PostgreSQL) y cmd/api con STORAGE_DRIVER=memory.
package bootstrap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// AccountStore es el subconjunto del credential store que necesita EnsureAdmin.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User, password string) error
	AddRole(ctx context.Context, user *entity.User, role string) error
}

// EnsureAdmin crea la cuenta si no existe y le asigna los roles Admin y User.
// Si la cuenta ya existe solo la promueve; el password no se toca. created indica si se creó.
func EnsureAdmin(ctx context.Context, store AccountStore, email, username, password string) (created bool, err error) {
	if strings.TrimSpace(email) == "" {
		return false, errors.New("bootstrap: email del admin vacío")
	}
	user, err := store.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("bootstrap: buscar admin: %w", err)
	}
	if user == nil {
		if password == "" {
			return false, errors.New("bootstrap: password del admin vacío")
		}
		if strings.TrimSpace(username) == "" {
			username = email
		}
		user = &entity.User{Email: email, Username: username, EmailConfirmed: true}
		if err := store.Create(ctx, user, password); err != nil {
			return false, fmt.Errorf("bootstrap: crear admin: %w", err)
		}
		created = true
	}
	for _, role := range []string{entity.RoleUser, entity.RoleAdmin} {
		if err := store.AddRole(ctx, user, role); err != nil {
			return created, fmt.Errorf("bootstrap: asignar rol %s: %w", role, err)
		}
	}
	return created, nil
}

// CatalogItem entrada del archivo de catálogo.
type CatalogItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LoadCatalog lee un arreglo JSON de productos. Rechaza ids vacíos o repetidos y precios negativos.
func LoadCatalog(r io.Reader) ([]CatalogItem, error) {
	var items []CatalogItem
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("bootstrap: decodificar catálogo: %w", err)
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return nil, fmt.Errorf("bootstrap: producto %d sin id", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("bootstrap: producto %s repetido", id)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("bootstrap: producto %s con precio negativo", id)
		}
		seen[id] = struct{}{}
		items[i].ID = id
	}
	return items, nil
}

// SeedCatalog crea o actualiza los productos con su precio.
func SeedCatalog(ctx context.Context, products repository.ProductRepository, items []CatalogItem, now time.Time) error {
	for _, it := range items {
		p := &entity.Product{
			ID:        it.ID,
			Name:      it.Name,
			Price:     it.Price.Round(2),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("bootstrap: guardar producto %s: %w", it.ID, err)
		}
	}
	return nil
}
