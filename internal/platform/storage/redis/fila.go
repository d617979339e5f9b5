// Paquete redis implementa la fila de eventos y los contadores en vivo sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
)

// Fila usa una lista Redis: LPUSH para publicar y BRPOP para consumir. Los payloads que no
// se pueden leer pasan a la lista <key>:descartados para revisarlos a mano.
type Fila struct {
	client      *redis.Client
	key         string
	descartados string
}

func NewFila(client *redis.Client, key string) *Fila {
	return &Fila{
		client:      client,
		key:         key,
		descartados: key + ":descartados",
	}
}

func (f *Fila) Publicar(ctx context.Context, evento domain.Evento) error {
	payload, err := json.Marshal(evento)
	if err != nil {
		return fmt.Errorf("redis fila: fallo serializando evento: %w", err)
	}
	if err := f.client.LPush(ctx, f.key, payload).Err(); err != nil {
		return fmt.Errorf("redis fila: fallo al encolar evento: %w", err)
	}
	return nil
}

func (f *Fila) Consumir(ctx context.Context, handler func(context.Context, domain.Evento) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Timeout corto para volver a mirar el contexto.
		res, err := f.client.BRPop(ctx, 5*time.Second, f.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("redis fila: fallo al consumir evento: %w", err)
		}

		if len(res) != 2 {
			continue
		}

		var evento domain.Evento
		if err := json.Unmarshal([]byte(res[1]), &evento); err != nil || evento.Tipo == "" {
			logger.Warn("redis fila: evento descartado", "fila", f.key, "error", err)
			if err := f.client.LPush(ctx, f.descartados, res[1]).Err(); err != nil {
				return fmt.Errorf("redis fila: fallo al mover evento descartado: %w", err)
			}
			continue
		}

		if err := handler(ctx, evento); err != nil {
			return err
		}
	}
}

var _ domain.Fila = (*Fila)(nil)
