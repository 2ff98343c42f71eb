package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// ProductRepository puerto de lectura del catálogo (precio vigente).
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Upsert crea o actualiza el precio de un producto (seed y pruebas).
	Upsert(ctx context.Context, product *entity.Product) error
}
