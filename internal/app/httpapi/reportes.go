package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

func (a *API) reporteGeneral(w http.ResponseWriter, r *http.Request) {
	resumen, err := a.svc.Reportes.General(r.Context())
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, resumen)
}

func (a *API) reporteRifa(w http.ResponseWriter, r *http.Request) {
	resumen, err := a.svc.Reportes.PorRifa(r.Context(), domain.RifaID(chi.URLParam(r, "rifaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, resumen)
}

func (a *API) reporteEnVivo(w http.ResponseWriter, r *http.Request) {
	vivo, err := a.svc.Reportes.EnVivo(r.Context(), domain.RifaID(chi.URLParam(r, "rifaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, vivo)
}

func (a *API) reporteVendedor(w http.ResponseWriter, r *http.Request) {
	resumen, err := a.svc.Reportes.PorVendedor(r.Context(), actor(r), domain.UsuarioID(chi.URLParam(r, "usuarioID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, resumen)
}
