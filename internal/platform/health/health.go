package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// Check es una dependencia adicional; un error marca el servicio como no listo.
type Check func(ctx context.Context) error

type Checker struct {
	db     *sql.DB
	redis  *redis.Client
	extras map[string]Check
	orden  []string
}

func NewChecker(db *sql.DB, redis *redis.Client) *Checker {
	return &Checker{db: db, redis: redis, extras: map[string]Check{}}
}

// Con registra un chequeo extra que se ejecuta despues de base de datos y redis.
func (c *Checker) Con(nombre string, check Check) *Checker {
	if _, ok := c.extras[nombre]; !ok {
		c.orden = append(c.orden, nombre)
	}
	c.extras[nombre] = check
	return c
}

func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if c.db != nil {
			if err := c.db.PingContext(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		if c.redis != nil {
			if err := c.redis.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		for _, nombre := range c.orden {
			if err := c.extras[nombre](ctx); err != nil {
				http.Error(w, nombre+" unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
