package checkout

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// CatalogPriceLookup devuelve el producto con su precio vigente, o (nil, nil) si no existe.
type CatalogPriceLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn retorna nil, rollback en otro caso.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(orders repository.OrderRepository) error) error
}

// OrderReader lectura de pedidos fuera de la transacción de checkout.
type OrderReader interface {
	GetByID(ctx context.Context, id string) (*entity.Order, error)
}
