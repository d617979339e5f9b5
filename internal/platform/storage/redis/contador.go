package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// Contador mantiene los totales en vivo del tablero bajo claves con prefijo.
type Contador struct {
	client *redis.Client
	prefix string
}

func NewContador(client *redis.Client, prefix string) *Contador {
	return &Contador{
		client: client,
		prefix: prefix,
	}
}

func (c *Contador) Incrementar(ctx context.Context, clave string, delta int64) (int64, error) {
	return c.client.IncrBy(ctx, c.key(clave), delta).Result()
}

func (c *Contador) Obtener(ctx context.Context, clave string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(clave)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

func (c *Contador) ObtenerTodos(ctx context.Context, claves []string) (map[string]int64, error) {
	if len(claves) == 0 {
		return map[string]int64{}, nil
	}

	keys := make([]string, len(claves))
	for i, cl := range claves {
		keys[i] = c.key(cl)
	}

	valores, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	resultado := make(map[string]int64, len(claves))
	for i, raw := range valores {
		if raw == nil {
			resultado[claves[i]] = 0
			continue
		}

		switch v := raw.(type) {
		case string:
			num, convErr := strconv.ParseInt(v, 10, 64)
			if convErr != nil {
				return nil, fmt.Errorf("redis contador: valor invalido para %s: %w", claves[i], convErr)
			}
			resultado[claves[i]] = num
		case int64:
			resultado[claves[i]] = v
		default:
			return nil, fmt.Errorf("redis contador: tipo inesperado %T", raw)
		}
	}

	return resultado, nil
}

func (c *Contador) key(clave string) string {
	if c.prefix == "" {
		return clave
	}
	return fmt.Sprintf("%s:%s", c.prefix, clave)
}

var _ domain.Contador = (*Contador)(nil)
