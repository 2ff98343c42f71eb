package repository

import (
	"context"

	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y sus líneas.
// Create y CreateLine deben ejecutarse dentro de la misma transacción (ver TxRunner).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateLine(ctx context.Context, line *entity.OrderLine) error
	// GetByID devuelve el pedido con sus líneas ordenadas, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
