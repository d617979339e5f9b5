// Paquete antifraude limita rafagas de operaciones sensibles por actor (rate limit Redis y modo noop).
package antifraude

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
)

var ErrRateLimitExceeded = errors.New("limite de operaciones alcanzado")

// RedisRateLimiter cuenta operaciones por actor y operacion en ventanas fijas. La clave deja la
// operacion legible y oculta el id del actor.
type RedisRateLimiter struct {
	client    *redis.Client
	limit     int
	window    time.Duration
	keyPrefix string
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimiter{
		client:    client,
		limit:     limit,
		window:    window,
		keyPrefix: prefix,
	}
}

func (r *RedisRateLimiter) Validar(ctx context.Context, actor domain.Actor, operacion string) error {
	if r.client == nil || r.limit <= 0 || r.window <= 0 {
		return nil
	}

	clave := r.clave(actor, operacion)
	count, err := r.client.Incr(ctx, clave).Result()
	if err != nil {
		return fmt.Errorf("antifraude: fallo al incrementar %s: %w", operacion, err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, clave, r.window).Err(); err != nil {
			return fmt.Errorf("antifraude: fallo al definir expiracion: %w", err)
		}
	}

	if count > int64(r.limit) {
		logger.Warn("antifraude: operacion bloqueada", "operacion", operacion, "rol", actor.Rol, "intentos", count)
		return fmt.Errorf("%w: %s", ErrRateLimitExceeded, operacion)
	}
	return nil
}

func (r *RedisRateLimiter) clave(actor domain.Actor, operacion string) string {
	hash := sha1.Sum([]byte(actor.ID))
	return fmt.Sprintf("%s:%s:%s", r.keyPrefix, operacion, hex.EncodeToString(hash[:8]))
}

var _ domain.Antifraude = (*RedisRateLimiter)(nil)
