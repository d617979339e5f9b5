package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marcelojr/rifaparatodos/internal/app/catalogo"
	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type nombreRequest struct {
	Nombre string `json:"nombre"`
}

type tipoRequest struct {
	Nombre string `json:"nombre"`
	Cifras int    `json:"cifras"`
}

func (a *API) listarAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := a.svc.Catalogo.ListarAreas(r.Context())
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, areas)
}

func (a *API) crearArea(w http.ResponseWriter, r *http.Request) {
	var req nombreRequest
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	area, err := a.svc.Catalogo.CrearArea(r.Context(), req.Nombre)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, area)
}

func (a *API) listarTipos(w http.ResponseWriter, r *http.Request) {
	tipos, err := a.svc.Catalogo.ListarTipos(r.Context())
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, tipos)
}

func (a *API) crearTipo(w http.ResponseWriter, r *http.Request) {
	var req tipoRequest
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	tipo, err := a.svc.Catalogo.CrearTipoRifa(r.Context(), req.Nombre, req.Cifras)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, tipo)
}

func (a *API) listarPremios(w http.ResponseWriter, r *http.Request) {
	premios, err := a.svc.Catalogo.ListarPremios(r.Context(), domain.TipoRifaID(chi.URLParam(r, "tipoID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, premios)
}

func (a *API) configurarPremios(w http.ResponseWriter, r *http.Request) {
	var tabla catalogo.TablaPremios
	if err := decodificar(r, &tabla); err != nil {
		a.responderError(w, r, err)
		return
	}
	tabla.TipoRifaID = domain.TipoRifaID(chi.URLParam(r, "tipoID"))

	opciones, err := a.svc.Catalogo.ConfigurarPremios(r.Context(), tabla)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, opciones)
}

func (a *API) listarRifas(w http.ResponseWriter, r *http.Request) {
	var desde time.Time
	if raw := r.URL.Query().Get("desde"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			a.responderError(w, r, fmt.Errorf("%w: desde debe ser RFC3339", domain.ErrValidacion))
			return
		}
		desde = t
	}
	rifas, err := a.svc.Catalogo.ListarRifas(r.Context(), desde)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, rifas)
}

func (a *API) crearRifa(w http.ResponseWriter, r *http.Request) {
	var req catalogo.NuevaRifa
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	rifa, err := a.svc.Catalogo.CrearRifa(r.Context(), req)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, rifa)
}

func (a *API) listarUsuarios(w http.ResponseWriter, r *http.Request) {
	usuarios, err := a.svc.Catalogo.ListarUsuarios(r.Context(), domain.Rol(r.URL.Query().Get("rol")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, usuarios)
}

func (a *API) crearUsuario(w http.ResponseWriter, r *http.Request) {
	var req catalogo.NuevoUsuario
	if err := decodificar(r, &req); err != nil {
		a.responderError(w, r, err)
		return
	}
	usuario, err := a.svc.Catalogo.CrearUsuario(r.Context(), req)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, usuario)
}

func (a *API) obtenerUsuario(w http.ResponseWriter, r *http.Request) {
	usuario, err := a.svc.Catalogo.ObtenerUsuario(r.Context(), actor(r), domain.UsuarioID(chi.URLParam(r, "usuarioID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, usuario)
}
