package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marcelojr/rifaparatodos/internal/app/sorteo"
	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type numeroRequest struct {
	Sorteo int    `json:"sorteo"`
	Nivel  int    `json:"nivel"`
	Numero string `json:"numero"`
}

func (a *API) declararNumero(w http.ResponseWriter, r *http.Request) {
	var req numeroRequest
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	res, err := a.svc.Sorteo.DeclararNumero(r.Context(), actor(r), sorteo.Declaracion{
		RifaID: domain.RifaID(chi.URLParam(r, "rifaID")),
		Sorteo: req.Sorteo,
		Nivel:  req.Nivel,
		Numero: req.Numero,
	})
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Revisado {
		status = http.StatusOK
	}
	responderJSON(w, status, res)
}

func (a *API) revalidarNumero(w http.ResponseWriter, r *http.Request) {
	res, err := a.svc.Sorteo.Revalidar(r.Context(), domain.NumeroGanadorID(chi.URLParam(r, "numeroID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, res)
}

func (a *API) listarNumeros(w http.ResponseWriter, r *http.Request) {
	numeros, err := a.svc.Sorteo.ListarNumeros(r.Context(), domain.RifaID(chi.URLParam(r, "rifaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, numeros)
}

func (a *API) listarGanadores(w http.ResponseWriter, r *http.Request) {
	ganadores, err := a.svc.Sorteo.ListarGanadores(r.Context(), domain.RifaID(chi.URLParam(r, "rifaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, ganadores)
}
