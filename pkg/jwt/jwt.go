package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config parámetros de firma y validación. Se inyecta al construir el Issuer (sin globales).
type Config struct {
	Secret   string
	Issuer   string        // vacío = no se exige iss
	Audience string        // vacío = no se exige aud
	Lifetime time.Duration // vigencia del access token
}

// Claims incluye los claims estándar JWT más los roles del usuario.
// Los roles viajan en el token para que el middleware RBAC no consulte la DB.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// Token es un access token emitido.
type Token struct {
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// Principal es la identidad decodificada de un token válido.
type Principal struct {
	UserID string
	Roles  []string
}

// HasRole indica si el principal tiene alguno de los roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Issuer firma y valida tokens HS256. No guarda estado: es seguro para uso concurrente.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer construye el emisor con su configuración.
func NewIssuer(cfg Config) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

// WithClock devuelve una copia del emisor que usa el reloj indicado.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{cfg: i.cfg, now: now}
}

// Issue genera un token firmado para userID con los roles indicados.
func (i *Issuer) Issue(userID string, roles []string) (Token, error) {
	if i.cfg.Secret == "" {
		return Token{}, fmt.Errorf("jwt: secret vacío")
	}
	if userID == "" {
		return Token{}, fmt.Errorf("jwt: subject vacío")
	}
	now := i.now()
	exp := now.Add(i.cfg.Lifetime)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Roles: append([]string(nil), roles...),
	}
	if i.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.cfg.Audience}
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return Token{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	return Token{AccessToken: signed, IssuedAt: now, ExpiresAt: exp}, nil
}

// Parse valida el token y devuelve el principal.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o iss/aud distintos.
func (i *Issuer) Parse(tokenString string) (Principal, error) {
	if i.cfg.Secret == "" {
		return Principal{}, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}
	if i.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(i.cfg.Audience))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(i.cfg.Secret), nil
	}, opts...)
	if err != nil {
		return Principal{}, err
	}
	if !token.Valid || claims.Subject == "" {
		return Principal{}, fmt.Errorf("claims inválidos")
	}
	return Principal{UserID: claims.Subject, Roles: claims.Roles}, nil
}

// Validate es la variante que nunca falla hacia el llamador: cualquier problema es ok=false.
func (i *Issuer) Validate(tokenString string) (p Principal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p, ok = Principal{}, false
		}
	}()
	p, err := i.Parse(tokenString)
	if err != nil {
		return Principal{}, false
	}
	return p, true
}
