package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u Usuario) error
	FindByID(ctx context.Context, id UsuarioID) (Usuario, error)
	// FindByIDParaActualizar bloquea la fila del usuario hasta el fin de la transaccion.
	FindByIDParaActualizar(ctx context.Context, id UsuarioID) (Usuario, error)
	ActualizarSaldo(ctx context.Context, id UsuarioID, saldo decimal.Decimal) error
	ListByRol(ctx context.Context, rol Rol) ([]Usuario, error)
}

type AreaRepository interface {
	Create(ctx context.Context, a Area) error
	FindByID(ctx context.Context, id AreaID) (Area, error)
	List(ctx context.Context) ([]Area, error)
}

type TipoRifaRepository interface {
	Create(ctx context.Context, t TipoRifa) error
	FindByID(ctx context.Context, id TipoRifaID) (TipoRifa, error)
	List(ctx context.Context) ([]TipoRifa, error)
}

type OpcionPremioRepository interface {
	Reemplazar(ctx context.Context, tipo TipoRifaID, area AreaID, monto decimal.Decimal, cifras int, opciones []OpcionPremio) error
	Buscar(ctx context.Context, tipo TipoRifaID, area AreaID, monto decimal.Decimal, cifras, nivel int) (OpcionPremio, error)
	ListByTipo(ctx context.Context, tipo TipoRifaID) ([]OpcionPremio, error)
}

type RifaRepository interface {
	Create(ctx context.Context, r Rifa) error
	FindByID(ctx context.Context, id RifaID) (Rifa, error)
	ListDesde(ctx context.Context, desde time.Time) ([]Rifa, error)
}

type FacturaRepository interface {
	Create(ctx context.Context, f Factura) error
	FindByID(ctx context.Context, id FacturaID) (Factura, error)
}

// VentaRepository solo expone ventas activas a las consultas de juego; las eliminadas quedan
// fuera por construccion.
type VentaRepository interface {
	BulkCreate(ctx context.Context, ventas []Venta) error
	FindByID(ctx context.Context, id VentaID) (Venta, error)
	FindActivaPorFacturaNumero(ctx context.Context, factura FacturaID, numero string) (Venta, error)
	ListActivasPorRifa(ctx context.Context, rifa RifaID) ([]Venta, error)
	MarcarEliminada(ctx context.Context, id VentaID, en time.Time) (bool, error)
	MarcarPagada(ctx context.Context, id VentaID, en time.Time) error
}

type NumeroGanadorRepository interface {
	Create(ctx context.Context, n NumeroGanador) error
	FindByID(ctx context.Context, id NumeroGanadorID) (NumeroGanador, error)
	FindByClave(ctx context.Context, rifa RifaID, sorteo, nivel int) (NumeroGanador, error)
	ActualizarNumero(ctx context.Context, id NumeroGanadorID, numero string) error
	ListByRifa(ctx context.Context, rifa RifaID) ([]NumeroGanador, error)
}

type GanadorRepository interface {
	// BulkCreate ignora filas que ya existen para la misma clave y devuelve cuantas se insertaron.
	BulkCreate(ctx context.Context, ganadores []Ganador) (int64, error)
	DeleteByNumeroGanador(ctx context.Context, id NumeroGanadorID) (int64, error)
	FindByClave(ctx context.Context, clave GanadorClave) (Ganador, error)
	// MarcarPagado solo actualiza filas no pagadas; false indica que otro pago llego antes.
	MarcarPagado(ctx context.Context, id GanadorID, por UsuarioID, en time.Time) (bool, error)
	ListByNumeroGanador(ctx context.Context, id NumeroGanadorID) ([]Ganador, error)
	ListByRifa(ctx context.Context, rifa RifaID) ([]Ganador, error)
	ListPendientesPorComprador(ctx context.Context, comprador UsuarioID) ([]Ganador, error)
	ListPendientesPorVendedor(ctx context.Context, vendedor UsuarioID) ([]Ganador, error)
}

type TransaccionRepository interface {
	Create(ctx context.Context, t Transaccion) error
	ListByUsuario(ctx context.Context, id UsuarioID) ([]Transaccion, error)
	ListByReferencia(ctx context.Context, referencia string) ([]Transaccion, error)
}

type ReporteRepository interface {
	ResumenGeneral(ctx context.Context) (ResumenGeneral, error)
	ResumenRifa(ctx context.Context, id RifaID) (ResumenRifa, error)
	ResumenVendedor(ctx context.Context, id UsuarioID) (ResumenVendedor, error)
}

type Repositorios interface {
	Usuarios() UsuarioRepository
	Areas() AreaRepository
	TiposRifa() TipoRifaRepository
	Premios() OpcionPremioRepository
	Rifas() RifaRepository
	Facturas() FacturaRepository
	Ventas() VentaRepository
	NumerosGanadores() NumeroGanadorRepository
	Ganadores() GanadorRepository
	Transacciones() TransaccionRepository
}

// Tx entrega repositorios ligados a una transaccion abierta.
type Tx interface {
	Repositorios
	// Anidada ejecuta fn en un savepoint: un error revierte solo lo hecho dentro de fn.
	Anidada(ctx context.Context, fn func(Tx) error) error
}

// UnitOfWork abre transacciones; si fn devuelve error todo se revierte.
type UnitOfWork interface {
	Repositorios
	Ejecutar(ctx context.Context, fn func(Tx) error) error
}

type Contador interface {
	Incrementar(ctx context.Context, clave string, delta int64) (int64, error)
	Obtener(ctx context.Context, clave string) (int64, error)
	ObtenerTodos(ctx context.Context, claves []string) (map[string]int64, error)
}

type Publicador interface {
	Publicar(ctx context.Context, evento Evento) error
}

type Fila interface {
	Publicador
	Consumir(ctx context.Context, handler func(context.Context, Evento) error) error
}

type Antifraude interface {
	Validar(ctx context.Context, actor Actor, operacion string) error
}

type Clock interface {
	Ahora() time.Time
}

// Actor es quien ejecuta una operacion, ya autenticado por la capa HTTP.
type Actor struct {
	ID  UsuarioID `json:"id"`
	Rol Rol       `json:"rol"`
}

func (a Actor) EsGestor() bool {
	return a.Rol == RolAdministrador || a.Rol == RolSupervisor
}
