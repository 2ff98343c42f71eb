package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/application/dto"
)

// OrderHandler maneja checkout y consulta de pedidos.
type OrderHandler struct {
	uc *checkout.CheckoutUseCase
}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler(uc *checkout.CheckoutUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Checkout godoc
// @Summary      Crear pedido desde el carrito
// @Description  Los precios se toman del catálogo; los enviados por el cliente se ignoran.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "contacto y order_items"
// @Success      200   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/orders/checkout [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Checkout(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
