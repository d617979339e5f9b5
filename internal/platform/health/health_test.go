package health

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abrirDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func abrirRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func consultar(ctx context.Context, c *Checker) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c.ReadyHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil).WithContext(ctx))
	return w
}

var errSinBrokers = errors.New("sin brokers")

// Cada caso arma el checker como lo hacen los binarios: la API con postgres, redis y a veces kafka,
// el worker solo con redis.
func TestReadyHandler_Dependencias(t *testing.T) {
	casos := map[string]struct {
		armar  func(t *testing.T) *Checker
		status int
		cuerpo string
	}{
		"api con redis como fila": {
			armar:  func(t *testing.T) *Checker { return NewChecker(abrirDB(t), abrirRedis(t)) },
			status: http.StatusOK,
			cuerpo: "ok",
		},
		"api con kafka disponible": {
			armar: func(t *testing.T) *Checker {
				return NewChecker(abrirDB(t), abrirRedis(t)).Con("kafka", func(context.Context) error { return nil })
			},
			status: http.StatusOK,
			cuerpo: "ok",
		},
		"api con kafka caido": {
			armar: func(t *testing.T) *Checker {
				return NewChecker(abrirDB(t), abrirRedis(t)).Con("kafka", func(context.Context) error { return errSinBrokers })
			},
			status: http.StatusServiceUnavailable,
			cuerpo: "kafka unavailable\n",
		},
		"worker sin base": {
			armar:  func(t *testing.T) *Checker { return NewChecker(nil, abrirRedis(t)) },
			status: http.StatusOK,
			cuerpo: "ok",
		},
		"postgres caido": {
			armar: func(t *testing.T) *Checker {
				db := abrirDB(t)
				require.NoError(t, db.Close())
				return NewChecker(db, abrirRedis(t))
			},
			status: http.StatusServiceUnavailable,
			cuerpo: "database unavailable\n",
		},
		"redis caido antes que kafka": {
			armar: func(t *testing.T) *Checker {
				client := abrirRedis(t)
				require.NoError(t, client.Close())
				return NewChecker(nil, client).Con("kafka", func(context.Context) error { return errSinBrokers })
			},
			status: http.StatusServiceUnavailable,
			cuerpo: "redis unavailable\n",
		},
	}

	for nombre, c := range casos {
		t.Run(nombre, func(t *testing.T) {
			w := consultar(context.Background(), c.armar(t))

			assert.Equal(t, c.status, w.Code)
			assert.Equal(t, c.cuerpo, w.Body.String())
		})
	}
}

func TestChecker_Con_DebeRespetarOrdenYReemplazarPorNombre(t *testing.T) {
	var llamados []string
	registrar := func(nombre string, err error) Check {
		return func(context.Context) error {
			llamados = append(llamados, nombre)
			return err
		}
	}

	checker := NewChecker(nil, nil).
		Con("kafka", registrar("kafka-viejo", errSinBrokers)).
		Con("fila", registrar("fila", nil)).
		Con("kafka", registrar("kafka", nil))

	w := consultar(context.Background(), checker)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"kafka", "fila"}, llamados)
}

func TestChecker_Con_DebeRecibirContextoConLimite(t *testing.T) {
	var limite time.Time
	checker := NewChecker(nil, nil).Con("kafka", func(ctx context.Context) error {
		var ok bool
		limite, ok = ctx.Deadline()
		if !ok {
			return errors.New("sin limite")
		}
		return nil
	})

	w := consultar(context.Background(), checker)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), limite, time.Second)
}

func TestChecker_Con_CuandoSolicitudCancelada_DebeRetornar503(t *testing.T) {
	checker := NewChecker(nil, nil).Con("kafka", func(ctx context.Context) error { return ctx.Err() })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := consultar(ctx, checker)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "kafka unavailable\n", w.Body.String())
}
