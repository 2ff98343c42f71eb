package checkout

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/domain/repository"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// Límites de order_items.quantity (INTEGER) y orders.total_amount (NUMERIC(18,2)).
const maxLineQuantity = math.MaxInt32

var maxOrderTotal = decimal.New(1, 16)

// CheckoutUseCase valida el carrito contra el catálogo y persiste el pedido de forma atómica.
type CheckoutUseCase struct {
	catalog CatalogPriceLookup
	tx      TxRunner
	orders  OrderReader
	log     *logger.Logger
	now     func() time.Time
}

// NewCheckoutUseCase construye el caso de uso de checkout.
func NewCheckoutUseCase(catalog CatalogPriceLookup, tx TxRunner, orders OrderReader, log *logger.Logger) *CheckoutUseCase {
	return &CheckoutUseCase{
		catalog: catalog,
		tx:      tx,
		orders:  orders,
		log:     log.Named("checkout"),
		now:     time.Now,
	}
}

// Checkout crea el pedido. Los precios salen siempre del catálogo; cada línea guarda
// la foto del precio unitario vigente. Pedido y líneas se escriben en una sola transacción.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if len(in.OrderItems) == 0 {
		return nil, domain.NewValidation("el pedido no tiene ítems")
	}

	orderID := uuid.New().String()
	total := decimal.Zero
	lines := make([]*entity.OrderLine, 0, len(in.OrderItems))

	for i, item := range in.OrderItems {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" {
			return nil, domain.NewValidation(fmt.Sprintf("ítem %d: product_id es requerido", i))
		}
		product, err := uc.catalog.GetByID(ctx, productID)
		if err != nil {
			uc.log.Error().Err(err).Str("product_id", productID).Msg("checkout: fallo al consultar el catálogo")
			return nil, domain.ErrServer
		}
		if product == nil {
			return nil, domain.NewValidation(fmt.Sprintf("producto con ID %s no encontrado", productID))
		}
		if item.Quantity <= 0 {
			return nil, domain.NewValidation(fmt.Sprintf("producto %s: la cantidad debe ser mayor que cero", productID))
		}
		if item.Quantity > maxLineQuantity {
			return nil, domain.NewValidation(fmt.Sprintf("producto %s: la cantidad excede el máximo de %d", productID, maxLineQuantity))
		}

		line := &entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Position:  i,
		}
		total = total.Add(line.Subtotal())
		lines = append(lines, line)
	}
	if total.GreaterThanOrEqual(maxOrderTotal) {
		return nil, domain.NewValidation("el total del pedido excede el máximo permitido")
	}

	order := &entity.Order{
		ID:          orderID,
		FullName:    in.FullName,
		Email:       in.Email,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		Notes:       in.Notes,
		TotalAmount: total,
		Status:      entity.OrderStatusProcessed,
		CreatedAt:   uc.now().UTC(),
		Lines:       lines,
	}

	err := uc.tx.RunCheckout(ctx, func(orders repository.OrderRepository) error {
		if err := orders.Create(ctx, order); err != nil {
			return fmt.Errorf("crear pedido: %w", err)
		}
		for _, l := range lines {
			if err := orders.CreateLine(ctx, l); err != nil {
				return fmt.Errorf("crear línea %d: %w", l.Position, err)
			}
		}
		return nil
	})
	if err != nil {
		// Fallo de almacenamiento: server_error, nada quedó escrito.
		uc.log.Error().Err(err).Str("order_id", orderID).Msg("checkout: fallo al persistir el pedido")
		return nil, domain.ErrServer
	}

	uc.log.Info().
		Str("order_id", orderID).
		Str("total", total.StringFixed(2)).
		Int("items", len(lines)).
		Msg("pedido creado")

	return &dto.CheckoutResponse{
		OrderID:     orderID,
		TotalAmount: total,
		ItemCount:   len(lines),
	}, nil
}

// GetOrder devuelve el pedido con sus líneas. Vuelve a verificar que el total
// guardado coincida con la suma de las líneas.
func (uc *CheckoutUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidation("id es requerido")
	}
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", id).Msg("fallo al leer el pedido")
		return nil, domain.ErrServer
	}
	if order == nil {
		return nil, domain.NewNotFound("pedido no encontrado")
	}
	if !order.Consistent() {
		uc.log.Error().
			Str("order_id", order.ID).
			Str("total", order.TotalAmount.String()).
			Str("lines_total", order.LinesTotal().String()).
			Msg("pedido inconsistente: total distinto a la suma de líneas")
		return nil, domain.ErrServer
	}
	return toOrderResponse(order), nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		items = append(items, dto.OrderItemResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		FullName:    o.FullName,
		Email:       o.Email,
		Address:     o.Address,
		PhoneNumber: o.PhoneNumber,
		Notes:       o.Notes,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		Items:       items,
	}
}
