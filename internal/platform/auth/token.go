// Paquete auth emite y verifica los tokens que identifican al actor de cada solicitud.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

var (
	ErrTokenAusente  = errors.New("auth: encabezado Authorization ausente")
	ErrTokenInvalido = errors.New("auth: token invalido")
)

type claims struct {
	Rol domain.Rol `json:"rol"`
	jwt.RegisteredClaims
}

// Emisor firma tokens HS256 con un secreto compartido.
type Emisor struct {
	secreto []byte
	ttl     time.Duration
	clock   domain.Clock
}

func NewEmisor(secreto string, ttl time.Duration, clock domain.Clock) *Emisor {
	return &Emisor{secreto: []byte(secreto), ttl: ttl, clock: clock}
}

func (e *Emisor) Emitir(actor domain.Actor) (string, error) {
	if actor.ID == "" || !actor.Rol.Valido() {
		return "", fmt.Errorf("auth: emitir: %w", domain.ErrValidacion)
	}
	ahora := e.clock.Ahora()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Rol: actor.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(actor.ID),
			IssuedAt:  jwt.NewNumericDate(ahora),
			ExpiresAt: jwt.NewNumericDate(ahora.Add(e.ttl)),
		},
	})
	firmado, err := token.SignedString(e.secreto)
	if err != nil {
		return "", fmt.Errorf("auth: firmar: %w", err)
	}
	return firmado, nil
}

func (e *Emisor) Verificar(raw string) (domain.Actor, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return e.secreto, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(e.clock.Ahora),
	)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrTokenInvalido, err)
	}
	if c.Subject == "" || !c.Rol.Valido() {
		return domain.Actor{}, ErrTokenInvalido
	}
	return domain.Actor{ID: domain.UsuarioID(c.Subject), Rol: c.Rol}, nil
}

// ExtraerToken lee el formato "Bearer {token}" del encabezado Authorization.
func ExtraerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrTokenAusente
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrTokenInvalido
	}
	return parts[1], nil
}
