package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marcelojr/rifaparatodos/internal/app/ventas"
	"github.com/marcelojr/rifaparatodos/internal/domain"
)

func (a *API) vender(w http.ResponseWriter, r *http.Request) {
	var sol ventas.Solicitud
	if err := decodificar(r, &sol); err != nil {
		a.responderError(w, r, err)
		return
	}
	factura, err := a.svc.Ventas.Vender(r.Context(), actor(r), sol)
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusCreated, factura)
}

func (a *API) eliminarVenta(w http.ResponseWriter, r *http.Request) {
	venta, err := a.svc.Ventas.Eliminar(r.Context(), actor(r), domain.VentaID(chi.URLParam(r, "ventaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, venta)
}

func (a *API) obtenerFactura(w http.ResponseWriter, r *http.Request) {
	factura, err := a.svc.Ventas.Factura(r.Context(), actor(r), domain.FacturaID(chi.URLParam(r, "facturaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	responderJSON(w, http.StatusOK, factura)
}

func (a *API) qrFactura(w http.ResponseWriter, r *http.Request) {
	png, err := a.svc.Ventas.QR(r.Context(), actor(r), domain.FacturaID(chi.URLParam(r, "facturaID")))
	if err != nil {
		a.responderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
