package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL vigencia del token cuando no se configura otra.
const DefaultTTL = 24 * time.Hour

// ErrEmptySecret se devuelve al construir un Issuer sin secreto de firma.
var ErrEmptySecret = errors.New("jwt: secret vacío")

// Claims son los claims firmados: sub, email, role y organizationId, más los registrados
// (jti lleva el identificador de la sesión que respalda al token).
type Claims struct {
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
	jwt.RegisteredClaims
}

// Payload datos de la cuenta que se firman en el token.
type Payload struct {
	Subject        string
	Email          string
	Role           string
	OrganizationID string
	TokenID        string
}

// Payload devuelve los datos de cuenta contenidos en los claims.
func (c *Claims) Payload() Payload {
	return Payload{
		Subject:        c.Subject,
		Email:          c.Email,
		Role:           c.Role,
		OrganizationID: c.OrganizationID,
		TokenID:        c.ID,
	}
}

// Issuer firma y valida tokens HS256 con un secreto de proceso inmutable.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer construye el emisor. ttl <= 0 usa DefaultTTL.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// WithClock reemplaza la fuente de tiempo (tests).
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	if now != nil {
		i.now = now
	}
	return i
}

// TTL devuelve la vigencia de los tokens emitidos.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue genera un token firmado con los datos de p. La expiración la valida Parse.
func (i *Issuer) Issue(p Payload) (string, error) {
	now := i.now()
	claims := Claims{
		Email:          p.Email,
		Role:           p.Role,
		OrganizationID: p.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.TokenID,
			Issuer:    i.issuer,
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse valida firma y expiración y devuelve los claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("token inválido: faltan sub o email")
	}
	return claims, nil
}
