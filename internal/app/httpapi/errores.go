package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/marcelojr/rifaparatodos/internal/app/pagos"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/antifraude"
)

func errPayloadInvalido(err error) error {
	return fmt.Errorf("%w: payload invalido: %v", domain.ErrValidacion, err)
}

func statusDeError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidacion):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProhibido):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pagos.ErrVencido):
		return http.StatusGone
	case errors.Is(err, domain.ErrConflicto), errors.Is(err, domain.ErrDuplicado):
		return http.StatusConflict
	case errors.Is(err, antifraude.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// responderError oculta el detalle de los errores internos; el resto viaja tal cual al cliente.
func (a *API) responderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusDeError(err)
	mensaje := err.Error()
	if status == http.StatusInternalServerError {
		a.logger.Error("error interno", "ruta", r.URL.Path, "err", err)
		mensaje = "error interno"
	} else {
		a.logger.Warn("solicitud rechazada", "ruta", r.URL.Path, "status", status, "err", err)
	}

	var errLote *pagos.ErrLote
	if errors.As(err, &errLote) {
		responderJSON(w, status, map[string]any{"error": mensaje, "resultado": errLote.Resultado})
		return
	}
	responderJSON(w, status, map[string]string{"error": mensaje})
}
