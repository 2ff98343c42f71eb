package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/application/checkout"
	"github.com/jhoicas/storefront-api/internal/application/dto"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CheckoutUC      *checkout.CheckoutUseCase
	LoginRateMax    int           // 0 = sin límite
	LoginRateWindow time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", loginLimiter(deps.LoginRateMax, deps.LoginRateWindow), authHandler.Login)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/validate-token", authHandler.ValidateToken)
	authGroup.Post("/change-password", requireAuth, authHandler.ChangePassword)
	authGroup.Post("/change-email", requireAuth, authHandler.ChangeEmail)
	authGroup.Get("/me", requireAuth, authHandler.Me)

	// Orders: checkout público, consulta solo Admin
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.CheckoutUC)
	orders.Post("/checkout", orderHandler.Checkout)
	orders.Get("/:id", requireAuth, RequireRole(entity.RoleAdmin), orderHandler.GetByID)
}

// loginLimiter limita intentos de login por IP.
func loginLimiter(maxAttempts int, window time.Duration) fiber.Handler {
	if maxAttempts <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        maxAttempts,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:      "too_many_requests",
				Message:   "demasiados intentos de login, intente más tarde",
				RequestID: requestID(c),
			})
		},
	})
}
