package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/storefront-api/pkg/jwt"
)

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testUserID   = "00000000-0000-0000-0000-000000000001"
	testIssuer   = "storefront-test"
	testAudience = "storefront-clients"
)

func newIssuer() *pkgjwt.Issuer {
	return pkgjwt.NewIssuer(pkgjwt.Config{
		Secret:   testSecret,
		Issuer:   testIssuer,
		Audience: testAudience,
		Lifetime: time.Hour,
	})
}

func TestIssuer_IssueYValidate_RoundTrip(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.Issue(testUserID, []string{"User", "Admin"})
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, time.Hour, tok.ExpiresAt.Sub(tok.IssuedAt))

	p, ok := iss.Validate(tok.AccessToken)
	require.True(t, ok)
	assert.Equal(t, testUserID, p.UserID)
	assert.ElementsMatch(t, []string{"User", "Admin"}, p.Roles)
	assert.True(t, p.HasRole("Admin"))
}

func TestIssuer_SinRoles(t *testing.T) {
	iss := newIssuer()
	tok, err := iss.Issue(testUserID, nil)
	require.NoError(t, err)

	p, ok := iss.Validate(tok.AccessToken)
	require.True(t, ok)
	assert.Empty(t, p.Roles)
	assert.False(t, p.HasRole("Admin"))
}

func TestIssuer_TokenExpirado(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	tok, err := newIssuer().WithClock(func() time.Time { return past }).Issue(testUserID, nil)
	require.NoError(t, err)

	_, ok := newIssuer().Validate(tok.AccessToken)
	assert.False(t, ok, "token expirado debe ser inválido")
}

func TestIssuer_SecretIncorrecto(t *testing.T) {
	tok, err := newIssuer().Issue(testUserID, nil)
	require.NoError(t, err)

	other := pkgjwt.NewIssuer(pkgjwt.Config{Secret: "otro-secret-completamente-distinto", Issuer: testIssuer, Audience: testAudience, Lifetime: time.Hour})
	_, ok := other.Validate(tok.AccessToken)
	assert.False(t, ok)
}

func TestIssuer_TokenAlterado(t *testing.T) {
	tok, err := newIssuer().Issue(testUserID, []string{"User"})
	require.NoError(t, err)

	parts := strings.Split(tok.AccessToken, ".")
	require.Len(t, parts, 3)
	// Cambiar el payload invalida la firma.
	other, err := newIssuer().Issue("otro-usuario", []string{"Admin"})
	require.NoError(t, err)
	forged := parts[0] + "." + strings.Split(other.AccessToken, ".")[1] + "." + parts[2]

	_, ok := newIssuer().Validate(forged)
	assert.False(t, ok)
}

func TestIssuer_IssuerYAudienceDistintos(t *testing.T) {
	tok, err := newIssuer().Issue(testUserID, nil)
	require.NoError(t, err)

	wrongIss := pkgjwt.NewIssuer(pkgjwt.Config{Secret: testSecret, Issuer: "otro", Audience: testAudience, Lifetime: time.Hour})
	_, ok := wrongIss.Validate(tok.AccessToken)
	assert.False(t, ok)

	wrongAud := pkgjwt.NewIssuer(pkgjwt.Config{Secret: testSecret, Issuer: testIssuer, Audience: "otra", Lifetime: time.Hour})
	_, ok = wrongAud.Validate(tok.AccessToken)
	assert.False(t, ok)
}

func TestIssuer_Malformado(t *testing.T) {
	iss := newIssuer()
	for _, s := range []string{"", "token.invalido.aqui", "abc"} {
		_, ok := iss.Validate(s)
		assert.False(t, ok, s)
	}
}

func TestIssuer_Errores(t *testing.T) {
	_, err := pkgjwt.NewIssuer(pkgjwt.Config{Lifetime: time.Hour}).Issue(testUserID, nil)
	assert.Error(t, err, "secret vacío")

	_, err = newIssuer().Issue("", nil)
	assert.Error(t, err, "subject vacío")
}
