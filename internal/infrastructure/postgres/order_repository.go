package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL. Con tx (TxRunner) para checkout,
// con pool para lecturas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera del pedido.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (id, full_name, email, address, phone_number, notes, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.FullName, order.Email, order.Address, order.PhoneNumber, order.Notes,
		order.TotalAmount, order.Status, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateLine persiste una línea del pedido.
func (r *OrderRepo) CreateLine(ctx context.Context, line *entity.OrderLine) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, position)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.Position,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con sus líneas ordenadas por posición.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, full_name, email, address, phone_number, notes, total_amount, status, created_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.FullName, &o.Email, &o.Address, &o.PhoneNumber, &o.Notes,
		&o.TotalAmount, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, position
		FROM order_items WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Position); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Lines = append(o.Lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return &o, nil
}

// Delete elimina el pedido; las líneas se borran en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
