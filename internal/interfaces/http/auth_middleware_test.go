package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-api/internal/application/auth"
	"github.com/jhoicas/storefront-api/internal/domain/entity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/identity"
	"github.com/jhoicas/storefront-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/storefront-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/storefront-api/pkg/jwt"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "storefront-test"
	testAudience  = "storefront-test-clients"
)

func testJWTConfig() pkgjwt.Config {
	return pkgjwt.Config{Secret: testJWTSecret, Issuer: testIssuer, Audience: testAudience, Lifetime: time.Hour}
}

func newAuthUseCase() *auth.AuthUseCase {
	mgr := identity.NewManager(memory.NewStore().Users(), identity.Options{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost})
	return auth.NewAuthUseCase(mgr, pkgjwt.NewIssuer(testJWTConfig()), logger.Nop())
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el token y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := apphttp.NewApp("test", logger.Nop())
	app.Get("/protected",
		apphttp.AuthMiddleware(newAuthUseCase()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"user_id": apphttp.GetUserID(c),
				"roles":   apphttp.GetRoles(c),
			})
		},
	)
	return app
}

// tokenForRoles genera un token con los roles indicados.
func tokenForRoles(t *testing.T, roles ...string) string {
	t.Helper()
	tok, err := pkgjwt.NewIssuer(testJWTConfig()).Issue(testUserID, roles)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok.AccessToken
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRoles(t, entity.RoleUser, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body struct {
		OK     bool     `json:"ok"`
		UserID string   `json:"user_id"`
		Roles  []string `json:"roles"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.OK, "la respuesta debe incluir ok:true")
	assert.Equal(t, testUserID, body.UserID)
	assert.ElementsMatch(t, []string{entity.RoleUser, entity.RoleAdmin}, body.Roles)
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_UserAccedeRutaAdminOUser(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleUser)
	resp := doRequest(t, app, tokenForRoles(t, entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRoles(t, entity.RoleUser))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"User no debe poder acceder a ruta restringida a Admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"code":"forbidden"`)
}

// Caso 3: Token sin roles → HTTP 403.
func TestRequireRole_TokenSinRoles_Retorna403(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRoles(t))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso 4: RequireRole sin AuthMiddleware previo → 401.
func TestRequireRole_SinPrincipal_Retorna401(t *testing.T) {
	app := apphttp.NewApp("test", logger.Nop())
	app.Get("/protected", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.NewIssuer(testJWTConfig()).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Issue(testUserID, []string{entity.RoleAdmin})
	require.NoError(t, err)

	otherCfg := testJWTConfig()
	otherCfg.Secret = "otro-secret-completamente-distinto"
	foreign, err := pkgjwt.NewIssuer(otherCfg).Issue(testUserID, []string{entity.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"sin header", ""},
		{"sin esquema Bearer", "Token abc"},
		{"bearer vacío", "Bearer "},
		{"token malformado", "Bearer token.invalido.aqui"},
		{"token expirado", "Bearer " + expired.AccessToken},
		{"firma de otro secret", "Bearer " + foreign.AccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(entity.RoleAdmin), tt.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), `"code":"unauthorized"`)
		})
	}
}

func TestAuthMiddleware_EsquemaSinDistinguirMayusculas(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	tok := tokenForRoles(t, entity.RoleAdmin)
	resp := doRequest(t, app, "bearer"+tok[len("Bearer"):])
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
