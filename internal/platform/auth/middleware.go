package auth

import (
	"context"
	"net/http"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// Middleware rechaza solicitudes sin token valido y deja el actor en el contexto.
func Middleware(emisor *Emisor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := ExtraerToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			actor, err := emisor.Verificar(raw)
			if err != nil {
				http.Error(w, ErrTokenInvalido.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ConActor(r.Context(), actor)))
		})
	}
}

// Requiere corta la solicitud con 403 cuando el rol del actor no tiene el permiso.
func Requiere(matriz Matriz, permiso Permiso) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorDesde(r.Context())
			if !ok {
				http.Error(w, ErrTokenAusente.Error(), http.StatusUnauthorized)
				return
			}
			if !matriz.Permite(actor.Rol, permiso) {
				http.Error(w, domain.ErrProhibido.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ConActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func ActorDesde(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
