// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory (desarrollo) y en las pruebas de los casos de uso.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
)

// Store agrupa los repositorios en memoria que comparten un mismo lock.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*entity.User
	roles    map[string][]string
	products map[string]*entity.Product
	orders   map[string]*entity.Order
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		roles:    make(map[string][]string),
		products: make(map[string]*entity.Product),
		orders:   make(map[string]*entity.Order),
	}
}

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Products devuelve el repositorio de catálogo.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Orders devuelve el repositorio de pedidos (escrituras directas, sin transacción).
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s *Store
}

// Create persiste un usuario nuevo; ErrDuplicate si email o username normalizados ya existen.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.s.conflictLocked(user) {
		return domain.ErrDuplicate
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

// GetByNormalizedEmail obtiene un usuario por email normalizado.
func (r *UserRepo) GetByNormalizedEmail(_ context.Context, normalizedEmail string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.NormalizedEmail == normalizedEmail {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

// GetByNormalizedUsername obtiene un usuario por username normalizado.
func (r *UserRepo) GetByNormalizedUsername(_ context.Context, normalizedUsername string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.NormalizedUsername == normalizedUsername {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

// Update reemplaza el usuario; ErrDuplicate si el nuevo email/username choca con otro usuario.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.conflictLocked(user) {
		return domain.ErrDuplicate
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

// GetRoles devuelve los roles del usuario.
func (r *UserRepo) GetRoles(_ context.Context, userID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.roles[userID]), nil
}

// AddRole asigna un rol (idempotente).
func (r *UserRepo) AddRole(_ context.Context, userID, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[userID]; !ok {
		return domain.ErrNotFound
	}
	if !slices.Contains(r.s.roles[userID], role) {
		r.s.roles[userID] = append(r.s.roles[userID], role)
	}
	return nil
}

// Delete elimina el usuario y sus roles.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	delete(r.s.roles, id)
	return nil
}

func (s *Store) conflictLocked(user *entity.User) bool {
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.NormalizedEmail == user.NormalizedEmail || u.NormalizedUsername == user.NormalizedUsername {
			return true
		}
	}
	return false
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c
}

// ProductRepo implementación en memoria del catálogo.
type ProductRepo struct {
	s *Store
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// Upsert crea o reemplaza un producto.
func (r *ProductRepo) Upsert(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *product
	r.s.products[product.ID] = &c
	return nil
}

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s *Store
}

// Create persiste la cabecera del pedido (sin líneas).
func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.putOrderLocked(order)
}

// CreateLine agrega una línea a un pedido existente.
func (r *OrderRepo) CreateLine(_ context.Context, line *entity.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.putLineLocked(line)
}

// GetByID obtiene un pedido con sus líneas.
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

// Delete elimina un pedido y sus líneas.
func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func (s *Store) putOrderLocked(order *entity.Order) error {
	if _, ok := s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *order
	c.Lines = nil
	s.orders[order.ID] = &c
	return nil
}

func (s *Store) putLineLocked(line *entity.OrderLine) error {
	o, ok := s.orders[line.OrderID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *line
	o.Lines = append(o.Lines, &c)
	return nil
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Lines = make([]*entity.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lc := *l
		c.Lines = append(c.Lines, &lc)
	}
	slices.SortFunc(c.Lines, func(a, b *entity.OrderLine) int { return a.Position - b.Position })
	return &c
}
