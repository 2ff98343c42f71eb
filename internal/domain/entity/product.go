package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es la vista del catálogo que necesita el checkout: identificador y precio vigente.
// El CRUD completo del catálogo vive fuera de este servicio.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
