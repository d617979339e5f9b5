package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type movimientoRequest struct {
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
}

func (a *API) recargar(w http.ResponseWriter, r *http.Request) {
	var req movimientoRequest
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	asiento, err := a.svc.Saldos.Recargar(r.Context(), actor(r), domain.UsuarioID(chi.URLParam(r, "usuarioID")), req.Monto, req.Descripcion)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, asiento)
}

func (a *API) retirar(w http.ResponseWriter, r *http.Request) {
	var req movimientoRequest
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	asiento, err := a.svc.Saldos.Retirar(r.Context(), actor(r), domain.UsuarioID(chi.URLParam(r, "usuarioID")), req.Monto, req.Descripcion)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, asiento)
}

func (a *API) movimientos(w http.ResponseWriter, r *http.Request) {
	asientos, err := a.svc.Saldos.Movimientos(r.Context(), actor(r), domain.UsuarioID(chi.URLParam(r, "usuarioID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, asientos)
}
