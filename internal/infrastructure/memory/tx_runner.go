package memory

import (
	"context"
	"slices"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

// TxRunner emula una transacción: las escrituras del callback se acumulan y solo
// se aplican al Store si fn retorna nil. Nunca queda un pedido sin sus líneas visible.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// RunCheckout ejecuta fn con un OrderRepository atado a la "transacción" y hace commit o descarte.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(orders repository.OrderRepository) error) error {
	tx := &txOrderRepo{s: r.s}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

type txOrderRepo struct {
	s       *Store
	orders  []*entity.Order
	lines   []*entity.OrderLine
	deleted map[string]struct{}
}

func (t *txOrderRepo) Create(_ context.Context, order *entity.Order) error {
	if t.pending(order.ID) != nil {
		return domain.ErrDuplicate
	}
	c := *order
	c.Lines = nil
	t.orders = append(t.orders, &c)
	return nil
}

func (t *txOrderRepo) CreateLine(_ context.Context, line *entity.OrderLine) error {
	if t.pending(line.OrderID) == nil && !t.committed(line.OrderID) {
		return domain.ErrNotFound
	}
	c := *line
	t.lines = append(t.lines, &c)
	return nil
}

// GetByID ve las escrituras pendientes de la transacción además de las confirmadas.
func (t *txOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	if o := t.pending(id); o != nil {
		c := cloneOrder(o)
		c.Lines = t.linesOf(id)
		return c, nil
	}
	if t.isDeleted(id) {
		return nil, nil
	}
	o, err := (&OrderRepo{s: t.s}).GetByID(ctx, id)
	if err != nil || o == nil {
		return o, err
	}
	o.Lines = append(o.Lines, t.linesOf(id)...)
	return cloneOrder(o), nil
}

// Delete descarta el pedido pendiente o marca el confirmado para borrarlo en el commit.
func (t *txOrderRepo) Delete(_ context.Context, id string) error {
	t.orders = slices.DeleteFunc(t.orders, func(o *entity.Order) bool { return o.ID == id })
	t.lines = slices.DeleteFunc(t.lines, func(l *entity.OrderLine) bool { return l.OrderID == id })
	if t.deleted == nil {
		t.deleted = make(map[string]struct{})
	}
	t.deleted[id] = struct{}{}
	return nil
}

func (t *txOrderRepo) pending(id string) *entity.Order {
	for _, o := range t.orders {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (t *txOrderRepo) isDeleted(id string) bool {
	_, ok := t.deleted[id]
	return ok
}

func (t *txOrderRepo) committed(id string) bool {
	if t.isDeleted(id) {
		return false
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	_, ok := t.s.orders[id]
	return ok
}

func (t *txOrderRepo) linesOf(id string) []*entity.OrderLine {
	var out []*entity.OrderLine
	for _, l := range t.lines {
		if l.OrderID == id {
			lc := *l
			out = append(out, &lc)
		}
	}
	return out
}

// commit valida todo antes de aplicar: o se aplican todas las escrituras o ninguna.
func (t *txOrderRepo) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	exists := func(id string) bool {
		if _, gone := t.deleted[id]; gone {
			return false
		}
		_, ok := t.s.orders[id]
		return ok
	}
	for _, o := range t.orders {
		if exists(o.ID) {
			return domain.ErrDuplicate
		}
	}
	for _, l := range t.lines {
		if t.pending(l.OrderID) == nil && !exists(l.OrderID) {
			return domain.ErrNotFound
		}
	}

	for id := range t.deleted {
		delete(t.s.orders, id)
	}
	for _, o := range t.orders {
		_ = t.s.putOrderLocked(o)
	}
	for _, l := range t.lines {
		_ = t.s.putLineLocked(l)
	}
	return nil
}
