package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido.
const (
	OrderStatusProcessed = "Processed"
)

// Order representa un pedido creado por checkout. El total no cambia después de creado.
type Order struct {
	ID          string
	FullName    string
	Email       string
	Address     string
	PhoneNumber string
	Notes       string
	TotalAmount decimal.Decimal
	Status      string
	CreatedAt   time.Time
	Lines       []*OrderLine
}

// OrderLine es la foto de precio y cantidad tomada al momento del checkout.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Position  int
}

// Subtotal devuelve UnitPrice × Quantity.
func (l *OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LinesTotal suma los subtotales de las líneas.
func (o *Order) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Consistent verifica total == Σ(unitPrice × quantity).
func (o *Order) Consistent() bool {
	return o.TotalAmount.Equal(o.LinesTotal())
}
