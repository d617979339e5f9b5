// Paquete apptest arma un entorno SQLite en memoria con datos de ejemplo para las pruebas de servicios.
package apptest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
	"github.com/marcelojr/rifaparatodos/internal/platform/storage/postgres"
	"github.com/marcelojr/rifaparatodos/internal/platform/storage/sqlitetest"
)

func Dinero(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type RelojFijo struct {
	mu sync.Mutex
	t  time.Time
}

func NewRelojFijo(t time.Time) *RelojFijo {
	return &RelojFijo{t: t}
}

func (r *RelojFijo) Ahora() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.t
}

func (r *RelojFijo) Fijar(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.t = t
}

// PublicadorMemoria guarda los eventos publicados; Err simula una fila caida.
type PublicadorMemoria struct {
	mu      sync.Mutex
	eventos []domain.Evento
	Err     error
}

func (p *PublicadorMemoria) Publicar(_ context.Context, e domain.Evento) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.eventos = append(p.eventos, e)
	return nil
}

func (p *PublicadorMemoria) Eventos() []domain.Evento {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Evento(nil), p.eventos...)
}

type Entorno struct {
	DB         *gorm.DB
	Store      *postgres.Store
	Reloj      *RelojFijo
	IDs        *ids.Generator
	Publicador *PublicadorMemoria

	sorteos int
}

// Nuevo fija el reloj en 2026-03-10 12:00 UTC.
func Nuevo(t *testing.T) *Entorno {
	db := sqlitetest.Open(t)
	return &Entorno{
		DB:         db,
		Store:      postgres.NewStore(db),
		Reloj:      NewRelojFijo(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)),
		IDs:        ids.NewGenerator(),
		Publicador: &PublicadorMemoria{},
	}
}

func (e *Entorno) Area(t *testing.T, nombre string) domain.Area {
	t.Helper()
	a := domain.Area{ID: domain.AreaID(e.IDs.New()), Nombre: nombre}
	require.NoError(t, e.Store.Areas().Create(context.Background(), a))
	return a
}

func (e *Entorno) Usuario(t *testing.T, nombre string, rol domain.Rol, area domain.AreaID) domain.Usuario {
	t.Helper()
	u := domain.Usuario{ID: domain.UsuarioID(e.IDs.New()), Nombre: nombre, Rol: rol, AreaID: area, Activo: true}
	require.NoError(t, e.Store.Usuarios().Create(context.Background(), u))
	return u
}

func (e *Entorno) TipoRifa(t *testing.T, nombre string, cifras int) domain.TipoRifa {
	t.Helper()
	tipo := domain.TipoRifa{ID: domain.TipoRifaID(e.IDs.New()), Nombre: nombre, Cifras: cifras}
	require.NoError(t, e.Store.TiposRifa().Create(context.Background(), tipo))
	return tipo
}

func (e *Entorno) Rifa(t *testing.T, tipo domain.TipoRifaID, juego time.Time) domain.Rifa {
	t.Helper()
	r := domain.Rifa{ID: domain.RifaID(e.IDs.New()), TipoRifaID: tipo, Nombre: "Sorteo " + juego.Format("2006-01-02"), FechaHoraJuego: juego}
	require.NoError(t, e.Store.Rifas().Create(context.Background(), r))
	return r
}

// Premios configura los niveles 1..len(premios) de una combinacion.
func (e *Entorno) Premios(t *testing.T, tipo domain.TipoRifaID, area domain.AreaID, monto string, cifras int, premios ...string) {
	t.Helper()
	opciones := make([]domain.OpcionPremio, len(premios))
	for i, p := range premios {
		opciones[i] = domain.OpcionPremio{
			TipoRifaID: tipo,
			AreaID:     area,
			Monto:      Dinero(monto),
			Cifras:     cifras,
			Nivel:      i + 1,
			Premio:     Dinero(p),
		}
	}
	require.NoError(t, e.Store.Premios().Reemplazar(context.Background(), tipo, area, Dinero(monto), cifras, opciones))
}

// Linea es una venta de prueba; RifaID vacio usa la rifa de la factura.
type Linea struct {
	RifaID domain.RifaID
	Numero string
	Monto  string
}

// Factura inserta una factura con una venta activa por linea, sin pasar por las reglas de venta.
func (e *Entorno) Factura(t *testing.T, vendedor, comprador domain.UsuarioID, rifa domain.RifaID, lineas ...Linea) (domain.Factura, []domain.Venta) {
	t.Helper()
	ctx := context.Background()
	f := domain.Factura{ID: domain.FacturaID(e.IDs.New()), CompradorID: comprador, VendedorID: vendedor, Total: decimal.Zero}
	ventas := make([]domain.Venta, len(lineas))
	for i, l := range lineas {
		rifaLinea := rifa
		if l.RifaID != "" {
			rifaLinea = l.RifaID
		}
		ventas[i] = domain.Venta{
			ID:          domain.VentaID(e.IDs.New()),
			FacturaID:   f.ID,
			CompradorID: comprador,
			VendedorID:  vendedor,
			RifaID:      rifaLinea,
			Numero:      l.Numero,
			Monto:       Dinero(l.Monto),
			Total:       Dinero(l.Monto),
			Estado:      domain.VentaActiva,
		}
		f.Total = f.Total.Add(ventas[i].Total)
	}
	require.NoError(t, e.Store.Facturas().Create(ctx, f))
	require.NoError(t, e.Store.Ventas().BulkCreate(ctx, ventas))
	return f, ventas
}

// Ganador inserta un premio candidato para la venta, colgado de un numero ganador nuevo.
func (e *Entorno) Ganador(t *testing.T, v domain.Venta, nivel int, premio string) domain.Ganador {
	t.Helper()
	ctx := context.Background()
	e.sorteos++
	ng := domain.NumeroGanador{
		ID:     domain.NumeroGanadorID(e.IDs.New()),
		RifaID: v.RifaID,
		Sorteo: e.sorteos,
		Nivel:  nivel,
		Numero: v.Numero,
	}
	require.NoError(t, e.Store.NumerosGanadores().Create(ctx, ng))
	g := domain.Ganador{
		ID:              domain.GanadorID(e.IDs.New()),
		CompradorID:     v.CompradorID,
		FacturaID:       v.FacturaID,
		VentaID:         v.ID,
		Numero:          v.Numero,
		Nivel:           nivel,
		Fecha:           e.Reloj.Ahora(),
		Premio:          Dinero(premio),
		NumeroGanadorID: ng.ID,
		RifaID:          v.RifaID,
	}
	_, err := e.Store.Ganadores().BulkCreate(ctx, []domain.Ganador{g})
	require.NoError(t, err)
	return g
}

func (e *Entorno) Saldo(t *testing.T, id domain.UsuarioID) decimal.Decimal {
	t.Helper()
	u, err := e.Store.Usuarios().FindByID(context.Background(), id)
	require.NoError(t, err)
	return u.Saldo
}
