package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest body para POST /api/orders/checkout.
// Los precios del cliente no se aceptan: se toman del catálogo.
type CheckoutRequest struct {
	FullName    string                `json:"full_name" validate:"max=200"`
	Email       string                `json:"email" validate:"omitempty,email"`
	Address     string                `json:"address" validate:"max=500"`
	PhoneNumber string                `json:"phone_number" validate:"max=50"`
	Notes       string                `json:"notes" validate:"max=1000"`
	OrderItems  []CheckoutItemRequest `json:"order_items"`
}

// CheckoutItemRequest línea del carrito.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CheckoutResponse resultado del checkout.
type CheckoutResponse struct {
	OrderID     string          `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// OrderResponse pedido con detalle para GET /api/orders/:id.
type OrderResponse struct {
	ID          string              `json:"id"`
	FullName    string              `json:"full_name"`
	Email       string              `json:"email"`
	Address     string              `json:"address"`
	PhoneNumber string              `json:"phone_number"`
	Notes       string              `json:"notes,omitempty"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []OrderItemResponse `json:"items"`
}

// OrderItemResponse línea del pedido en la respuesta.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
