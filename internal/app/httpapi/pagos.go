package httpapi

import (
	"net/http"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type loteRequest struct {
	Premios []domain.GanadorClave `json:"premios"`
}

func (a *API) pagarPremio(w http.ResponseWriter, r *http.Request) {
	var clave domain.GanadorClave
	if err := decodificar(r, &clave); err != nil {
		a.responderError(w, r, err)
		return
	}
	res, err := a.svc.Pagos.PagarPremio(r.Context(), actor(r), clave)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, res)
}

func (a *API) cobrarPremio(w http.ResponseWriter, r *http.Request) {
	var clave domain.GanadorClave
	if err := decodificar(r, &clave); err != nil {
		a.responderError(w, r, err)
		return
	}
	res, err := a.svc.Pagos.CobrarPremio(r.Context(), actor(r), clave)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, res)
}

func (a *API) pagarLote(w http.ResponseWriter, r *http.Request) {
	var req loteRequest
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	res, err := a.svc.Pagos.PagarLote(r.Context(), actor(r), req.Premios)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, res)
}

func (a *API) listarPendientes(w http.ResponseWriter, r *http.Request) {
	vendedor := domain.UsuarioID(r.URL.Query().Get("vendedor_id"))
	pendientes, err := a.svc.Pagos.ListarPendientes(r.Context(), actor(r), vendedor)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, pendientes)
}
