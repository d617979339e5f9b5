package antifraude

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

func TestRedisRateLimiterRespetaLimite(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisRateLimiter(client, 2, time.Minute, "rl")

	actor := domain.Actor{ID: "vendedor-1", Rol: domain.RolVendedor}

	ctx := context.Background()
	if err := limiter.Validar(ctx, actor, "pagar"); err != nil {
		t.Fatalf("primer pago deberia aceptarse, error: %v", err)
	}
	if err := limiter.Validar(ctx, actor, "pagar"); err != nil {
		t.Fatalf("segundo pago deberia aceptarse, error: %v", err)
	}

	if err := limiter.Validar(ctx, actor, "pagar"); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("tercer pago deberia bloquearse, recibio: %v", err)
	}

	key := limiter.clave(actor, "pagar")
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("esperaba TTL positivo para %s, vino %v", key, ttl)
	}
}

func TestRedisRateLimiterSeparaOperaciones(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewRedisRateLimiter(client, 1, time.Minute, "rl")

	actor := domain.Actor{ID: "vendedor-1", Rol: domain.RolVendedor}

	ctx := context.Background()
	if err := limiter.Validar(ctx, actor, "pagar"); err != nil {
		t.Fatalf("pago deberia aceptarse: %v", err)
	}
	if err := limiter.Validar(ctx, actor, "vender"); err != nil {
		t.Fatalf("venta usa otra clave y deberia aceptarse: %v", err)
	}
	otro := domain.Actor{ID: "vendedor-2", Rol: domain.RolVendedor}
	if err := limiter.Validar(ctx, otro, "pagar"); err != nil {
		t.Fatalf("otro actor usa otra clave y deberia aceptarse: %v", err)
	}
}

func TestRedisRateLimiterReiniciaTrasVentana(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	window := 30 * time.Second
	limiter := NewRedisRateLimiter(client, 1, window, "rl")

	actor := domain.Actor{ID: "cliente-1", Rol: domain.RolCliente}

	ctx := context.Background()
	if err := limiter.Validar(ctx, actor, "cobrar"); err != nil {
		t.Fatalf("operacion inicial deberia aceptarse: %v", err)
	}
	if err := limiter.Validar(ctx, actor, "cobrar"); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("segunda operacion antes de la ventana deberia fallar: %v", err)
	}

	mr.FastForward(window + time.Second)

	if err := limiter.Validar(ctx, actor, "cobrar"); err != nil {
		t.Fatalf("tras expirar la ventana deberia aceptarse: %v", err)
	}
}

func TestNoopSiempreAcepta(t *testing.T) {
	if err := NewNoop().Validar(context.Background(), domain.Actor{}, "pagar"); err != nil {
		t.Fatalf("noop no deberia fallar: %v", err)
	}
}

func TestRedisRateLimiterClaveNoExponeActor(t *testing.T) {
	limiter := NewRedisRateLimiter(nil, 1, time.Minute, "")
	actor := domain.Actor{ID: "01HVENDEDOR000000000000000", Rol: domain.RolVendedor}

	clave := limiter.clave(actor, "pago:premio")

	if !strings.HasPrefix(clave, "ratelimit:pago:premio:") {
		t.Fatalf("clave inesperada: %s", clave)
	}
	if strings.Contains(clave, string(actor.ID)) {
		t.Fatalf("la clave no deberia contener el id del actor: %s", clave)
	}
}
