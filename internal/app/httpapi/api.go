// Paquete httpapi expone los servicios por HTTP: JSON de entrada y salida, actor desde el token bearer.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/app/catalogo"
	"github.com/marcelojr/rifaparatodos/internal/app/pagos"
	"github.com/marcelojr/rifaparatodos/internal/app/reportes"
	"github.com/marcelojr/rifaparatodos/internal/app/sorteo"
	"github.com/marcelojr/rifaparatodos/internal/app/ventas"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/auth"
	"github.com/marcelojr/rifaparatodos/internal/platform/metrics"
)

type CatalogoService interface {
	CrearArea(ctx context.Context, nombre string) (domain.Area, error)
	ListarAreas(ctx context.Context) ([]domain.Area, error)
	CrearTipoRifa(ctx context.Context, nombre string, cifras int) (domain.TipoRifa, error)
	ListarTipos(ctx context.Context) ([]domain.TipoRifa, error)
	ConfigurarPremios(ctx context.Context, tabla catalogo.TablaPremios) ([]domain.OpcionPremio, error)
	ListarPremios(ctx context.Context, tipo domain.TipoRifaID) ([]domain.OpcionPremio, error)
	CrearRifa(ctx context.Context, nueva catalogo.NuevaRifa) (domain.Rifa, error)
	ListarRifas(ctx context.Context, desde time.Time) ([]domain.Rifa, error)
	CrearUsuario(ctx context.Context, nuevo catalogo.NuevoUsuario) (domain.Usuario, error)
	ListarUsuarios(ctx context.Context, rol domain.Rol) ([]domain.Usuario, error)
	ObtenerUsuario(ctx context.Context, actor domain.Actor, id domain.UsuarioID) (domain.Usuario, error)
}

type VentasService interface {
	Vender(ctx context.Context, actor domain.Actor, sol ventas.Solicitud) (domain.Factura, error)
	Eliminar(ctx context.Context, actor domain.Actor, id domain.VentaID) (domain.Venta, error)
	Factura(ctx context.Context, actor domain.Actor, id domain.FacturaID) (domain.Factura, error)
	QR(ctx context.Context, actor domain.Actor, id domain.FacturaID) ([]byte, error)
}

type SorteoService interface {
	DeclararNumero(ctx context.Context, actor domain.Actor, d sorteo.Declaracion) (sorteo.Resultado, error)
	Revalidar(ctx context.Context, id domain.NumeroGanadorID) (sorteo.Resultado, error)
	ListarGanadores(ctx context.Context, rifa domain.RifaID) ([]domain.Ganador, error)
	ListarNumeros(ctx context.Context, rifa domain.RifaID) ([]domain.NumeroGanador, error)
}

type PagosService interface {
	PagarPremio(ctx context.Context, actor domain.Actor, clave domain.GanadorClave) (pagos.ResultadoPago, error)
	CobrarPremio(ctx context.Context, actor domain.Actor, clave domain.GanadorClave) (pagos.ResultadoPago, error)
	PagarLote(ctx context.Context, actor domain.Actor, claves []domain.GanadorClave) (pagos.ResultadoLote, error)
	ListarPendientes(ctx context.Context, actor domain.Actor, vendedor domain.UsuarioID) ([]pagos.PendientePago, error)
}

type SaldosService interface {
	Recargar(ctx context.Context, actor domain.Actor, usuario domain.UsuarioID, monto decimal.Decimal, descripcion string) (domain.Transaccion, error)
	Retirar(ctx context.Context, actor domain.Actor, usuario domain.UsuarioID, monto decimal.Decimal, descripcion string) (domain.Transaccion, error)
	Movimientos(ctx context.Context, actor domain.Actor, usuario domain.UsuarioID) ([]domain.Transaccion, error)
}

type ReportesService interface {
	General(ctx context.Context) (domain.ResumenGeneral, error)
	PorRifa(ctx context.Context, id domain.RifaID) (domain.ResumenRifa, error)
	PorVendedor(ctx context.Context, actor domain.Actor, id domain.UsuarioID) (domain.ResumenVendedor, error)
	EnVivo(ctx context.Context, id domain.RifaID) (reportes.EnVivo, error)
}

type Servicios struct {
	Catalogo CatalogoService
	Ventas   VentasService
	Sorteo   SorteoService
	Pagos    PagosService
	Saldos   SaldosService
	Reportes ReportesService
}

// API agrupa los handlers con sus dependencias.
type API struct {
	svc    Servicios
	emisor *auth.Emisor
	matriz auth.Matriz
	logger *slog.Logger
}

func New(svc Servicios, emisor *auth.Emisor, matriz auth.Matriz, logger *slog.Logger) *API {
	if matriz == nil {
		matriz = auth.MatrizPorDefecto()
	}
	return &API{svc: svc, emisor: emisor, matriz: matriz, logger: logger}
}

// Routes arma el router completo. /healthz queda fuera de la autenticacion.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observarSolicitud)

	r.Get("/healthz", a.handleHealthz)

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(a.emisor))

		r.Route("/catalogo", func(r chi.Router) {
			r.With(a.requiere(auth.PermisoConsultar)).Get("/areas", a.listarAreas)
			r.With(a.requiere(auth.PermisoCatalogo)).Post("/areas", a.crearArea)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/tipos", a.listarTipos)
			r.With(a.requiere(auth.PermisoCatalogo)).Post("/tipos", a.crearTipo)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/tipos/{tipoID}/premios", a.listarPremios)
			r.With(a.requiere(auth.PermisoCatalogo)).Put("/tipos/{tipoID}/premios", a.configurarPremios)
		})

		r.Route("/usuarios", func(r chi.Router) {
			r.With(a.requiere(auth.PermisoUsuarios)).Get("/", a.listarUsuarios)
			r.With(a.requiere(auth.PermisoUsuarios)).Post("/", a.crearUsuario)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/{usuarioID}", a.obtenerUsuario)
		})

		r.Route("/rifas", func(r chi.Router) {
			r.With(a.requiere(auth.PermisoConsultar)).Get("/", a.listarRifas)
			r.With(a.requiere(auth.PermisoCatalogo)).Post("/", a.crearRifa)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/{rifaID}/numeros", a.listarNumeros)
			r.With(a.requiere(auth.PermisoDeclararNumero)).Post("/{rifaID}/numeros", a.declararNumero)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/{rifaID}/ganadores", a.listarGanadores)
		})
		r.With(a.requiere(auth.PermisoDeclararNumero)).Post("/numeros/{numeroID}/revalidar", a.revalidarNumero)

		r.With(a.requiere(auth.PermisoVender)).Post("/ventas", a.vender)
		r.With(a.requiere(auth.PermisoVender)).Delete("/ventas/{ventaID}", a.eliminarVenta)
		r.With(a.requiere(auth.PermisoConsultar)).Get("/facturas/{facturaID}", a.obtenerFactura)
		r.With(a.requiere(auth.PermisoConsultar)).Get("/facturas/{facturaID}/qr", a.qrFactura)

		r.Route("/pagos", func(r chi.Router) {
			r.With(a.requiere(auth.PermisoPagarPremio)).Post("/", a.pagarPremio)
			r.With(a.requiere(auth.PermisoPagarPremio)).Post("/lote", a.pagarLote)
			r.With(a.requiere(auth.PermisoCobrarPremio)).Post("/cobro", a.cobrarPremio)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/pendientes", a.listarPendientes)
		})

		r.Route("/saldos/{usuarioID}", func(r chi.Router) {
			r.With(a.requiere(auth.PermisoSaldos)).Post("/recargas", a.recargar)
			r.With(a.requiere(auth.PermisoSaldos)).Post("/retiros", a.retirar)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/movimientos", a.movimientos)
		})

		r.Route("/reportes", func(r chi.Router) {
			r.With(a.requiere(auth.PermisoReportes)).Get("/general", a.reporteGeneral)
			r.With(a.requiere(auth.PermisoReportes)).Get("/rifas/{rifaID}", a.reporteRifa)
			r.With(a.requiere(auth.PermisoReportes)).Get("/rifas/{rifaID}/vivo", a.reporteEnVivo)
			r.With(a.requiere(auth.PermisoConsultar)).Get("/vendedores/{usuarioID}", a.reporteVendedor)
		})
	})

	return r
}

func (a *API) requiere(p auth.Permiso) func(http.Handler) http.Handler {
	return auth.Requiere(a.matriz, p)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// observarSolicitud cuenta solicitudes por patron de ruta, no por URL, para no disparar la cardinalidad.
func observarSolicitud(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		ruta := "desconocida"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			ruta = r.Method + " " + rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.ObserveHTTPRequest(ruta, strconv.Itoa(status))
	})
}

// actor siempre existe detras de auth.Middleware.
func actor(r *http.Request) domain.Actor {
	a, _ := auth.ActorDesde(r.Context())
	return a
}

func decodificar(r *http.Request, destino any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(destino); err != nil {
		return errPayloadInvalido(err)
	}
	return nil
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
