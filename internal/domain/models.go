package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type (
	UsuarioID       string
	AreaID          string
	TipoRifaID      string
	RifaID          string
	FacturaID       string
	VentaID         string
	NumeroGanadorID string
	GanadorID       string
	TransaccionID   string
)

type Rol string

const (
	RolAdministrador Rol = "administrador"
	RolSupervisor    Rol = "supervisor"
	RolVendedor      Rol = "vendedor"
	RolCliente       Rol = "cliente"
)

func (r Rol) Valido() bool {
	switch r {
	case RolAdministrador, RolSupervisor, RolVendedor, RolCliente:
		return true
	}
	return false
}

// NivelesPremio es la cantidad de niveles de la tabla de premios; el nivel 1 es el acierto completo.
const NivelesPremio = 10

type Usuario struct {
	ID            UsuarioID       `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Nombre        string          `gorm:"column:nombre;type:text;not null" json:"nombre"`
	Rol           Rol             `gorm:"column:rol;type:varchar(20);not null;index" json:"rol"`
	AreaID        AreaID          `gorm:"column:area_id;type:char(26);index" json:"area_id"`
	Saldo         decimal.Decimal `gorm:"column:saldo;type:decimal(12,2);not null;default:0" json:"saldo"`
	Activo        bool            `gorm:"column:activo;not null;default:true" json:"activo"`
	CreadoEn      time.Time       `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
	ActualizadoEn time.Time       `gorm:"column:actualizado_en;autoUpdateTime" json:"actualizado_en"`
}

type Area struct {
	ID       AreaID    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Nombre   string    `gorm:"column:nombre;type:text;not null;uniqueIndex" json:"nombre"`
	CreadoEn time.Time `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
}

type TipoRifa struct {
	ID       TipoRifaID `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Nombre   string     `gorm:"column:nombre;type:text;not null;uniqueIndex" json:"nombre"`
	Cifras   int        `gorm:"column:cifras;not null" json:"cifras"`
	CreadoEn time.Time  `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
}

// OpcionPremio es una celda de la tabla de premios. AreaID vacio indica la tabla general del tipo.
type OpcionPremio struct {
	TipoRifaID TipoRifaID      `gorm:"column:tipo_rifa_id;type:char(26);primaryKey" json:"tipo_rifa_id"`
	AreaID     AreaID          `gorm:"column:area_id;type:varchar(26);primaryKey" json:"area_id"`
	Monto      decimal.Decimal `gorm:"column:monto;type:decimal(12,2);primaryKey" json:"monto"`
	Cifras     int             `gorm:"column:cifras;primaryKey" json:"cifras"`
	Nivel      int             `gorm:"column:nivel;primaryKey" json:"nivel"`
	Premio     decimal.Decimal `gorm:"column:premio;type:decimal(12,2);not null" json:"premio"`
}

type Rifa struct {
	ID             RifaID     `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	TipoRifaID     TipoRifaID `gorm:"column:tipo_rifa_id;type:char(26);not null;index" json:"tipo_rifa_id"`
	Nombre         string     `gorm:"column:nombre;type:text;not null" json:"nombre"`
	FechaHoraJuego time.Time  `gorm:"column:fecha_hora_juego;not null;index" json:"fecha_hora_juego"`
	CreadoEn       time.Time  `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
}

type Factura struct {
	ID          FacturaID       `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	CompradorID UsuarioID       `gorm:"column:comprador_id;type:char(26);not null;index" json:"comprador_id"`
	VendedorID  UsuarioID       `gorm:"column:vendedor_id;type:char(26);not null;index" json:"vendedor_id"`
	Total       decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Ventas      []Venta         `gorm:"foreignKey:FacturaID" json:"ventas,omitempty"`
	CreadoEn    time.Time       `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
}

type EstadoVenta string

const (
	VentaActiva    EstadoVenta = "activa"
	VentaEliminada EstadoVenta = "eliminada"
)

type Venta struct {
	ID            VentaID         `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	FacturaID     FacturaID       `gorm:"column:factura_id;type:char(26);not null;index" json:"factura_id"`
	CompradorID   UsuarioID       `gorm:"column:comprador_id;type:char(26);not null;index" json:"comprador_id"`
	VendedorID    UsuarioID       `gorm:"column:vendedor_id;type:char(26);not null;index" json:"vendedor_id"`
	RifaID        RifaID          `gorm:"column:rifa_id;type:char(26);not null;index:idx_ventas_rifa_estado,priority:1" json:"rifa_id"`
	Numero        string          `gorm:"column:numero;type:varchar(10);not null" json:"numero"`
	Monto         decimal.Decimal `gorm:"column:monto;type:decimal(12,2);not null" json:"monto"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null" json:"total"`
	Estado        EstadoVenta     `gorm:"column:estado;type:varchar(12);not null;default:'activa';index:idx_ventas_rifa_estado,priority:2" json:"estado"`
	Pagada        bool            `gorm:"column:pagada;not null;default:false" json:"pagada"`
	FechaPago     *time.Time      `gorm:"column:fecha_pago" json:"fecha_pago,omitempty"`
	EliminadaEn   *time.Time      `gorm:"column:eliminada_en" json:"eliminada_en,omitempty"`
	CreadoEn      time.Time       `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
	ActualizadoEn time.Time       `gorm:"column:actualizado_en;autoUpdateTime" json:"actualizado_en"`
}

func (v Venta) Activa() bool { return v.Estado == VentaActiva }

type NumeroGanador struct {
	ID            NumeroGanadorID `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	RifaID        RifaID          `gorm:"column:rifa_id;type:char(26);not null;uniqueIndex:uq_numero_ganador,priority:1" json:"rifa_id"`
	Sorteo        int             `gorm:"column:sorteo;not null;uniqueIndex:uq_numero_ganador,priority:2" json:"sorteo"`
	Nivel         int             `gorm:"column:nivel;not null;uniqueIndex:uq_numero_ganador,priority:3" json:"nivel"`
	Numero        string          `gorm:"column:numero;type:varchar(10);not null" json:"numero"`
	CreadoEn      time.Time       `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
	ActualizadoEn time.Time       `gorm:"column:actualizado_en;autoUpdateTime" json:"actualizado_en"`
}

// Ganador es un premio candidato derivado de una venta y un numero ganador.
type Ganador struct {
	ID              GanadorID       `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	CompradorID     UsuarioID       `gorm:"column:comprador_id;type:char(26);not null;uniqueIndex:uq_ganador_rifa_clave,priority:2" json:"comprador_id"`
	FacturaID       FacturaID       `gorm:"column:factura_id;type:char(26);not null;uniqueIndex:uq_ganador_rifa_clave,priority:3" json:"factura_id"`
	Numero          string          `gorm:"column:numero;type:varchar(10);not null;uniqueIndex:uq_ganador_rifa_clave,priority:4" json:"numero"`
	Nivel           int             `gorm:"column:nivel;not null;uniqueIndex:uq_ganador_rifa_clave,priority:5" json:"nivel"`
	VentaID         VentaID         `gorm:"column:venta_id;type:char(26);not null;index" json:"venta_id"`
	Fecha           time.Time       `gorm:"column:fecha;not null" json:"fecha"`
	Premio          decimal.Decimal `gorm:"column:premio;type:decimal(12,2);not null" json:"premio"`
	AreaID          AreaID          `gorm:"column:area_id;type:varchar(26)" json:"area_id"`
	NumeroGanadorID NumeroGanadorID `gorm:"column:numero_ganador_id;type:char(26);not null;index" json:"numero_ganador_id"`
	RifaID          RifaID          `gorm:"column:rifa_id;type:char(26);not null;uniqueIndex:uq_ganador_rifa_clave,priority:1" json:"rifa_id"`
	Pagada          bool            `gorm:"column:pagada;not null;default:false" json:"pagada"`
	FechaHoraPago   *time.Time      `gorm:"column:fecha_hora_pago" json:"fecha_hora_pago,omitempty"`
	PagadoPorID     *UsuarioID      `gorm:"column:pagado_por_id;type:char(26)" json:"pagado_por_id,omitempty"`
	CreadoEn        time.Time       `gorm:"column:creado_en;autoCreateTime" json:"creado_en"`
}

func (g Ganador) Clave() GanadorClave {
	return GanadorClave{RifaID: g.RifaID, CompradorID: g.CompradorID, FacturaID: g.FacturaID, Numero: g.Numero, Nivel: g.Nivel}
}

// GanadorClave identifica un premio candidato desde fuera del sistema. La rifa forma parte de la
// clave porque una factura puede llevar el mismo numero en varias rifas.
type GanadorClave struct {
	RifaID      RifaID    `json:"rifa_id"`
	CompradorID UsuarioID `json:"comprador_id"`
	FacturaID   FacturaID `json:"factura_id"`
	Numero      string    `json:"numero"`
	Nivel       int       `json:"nivel"`
}

type TipoTransaccion string

const (
	TransaccionRecarga TipoTransaccion = "recarga"
	TransaccionRetiro  TipoTransaccion = "retiro"
)

// Transaccion es un asiento inmutable del libro de saldos.
type Transaccion struct {
	ID             TransaccionID   `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	UsuarioID      UsuarioID       `gorm:"column:usuario_id;type:char(26);not null;index" json:"usuario_id"`
	RealizadoPorID *UsuarioID      `gorm:"column:realizado_por_id;type:char(26)" json:"realizado_por_id,omitempty"`
	Tipo           TipoTransaccion `gorm:"column:tipo;type:varchar(10);not null" json:"tipo"`
	Monto          decimal.Decimal `gorm:"column:monto;type:decimal(12,2);not null" json:"monto"`
	SaldoAnterior  decimal.Decimal `gorm:"column:saldo_anterior;type:decimal(12,2);not null" json:"saldo_anterior"`
	SaldoNuevo     decimal.Decimal `gorm:"column:saldo_nuevo;type:decimal(12,2);not null" json:"saldo_nuevo"`
	Descripcion    string          `gorm:"column:descripcion;type:text" json:"descripcion"`
	ReferenciaID   *string         `gorm:"column:referencia_id;type:char(26);index" json:"referencia_id,omitempty"`
	CreadoEn       time.Time       `gorm:"column:creado_en;not null" json:"creado_en"`
}

type TipoEvento string

const (
	EventoVentaRegistrada    TipoEvento = "venta_registrada"
	EventoVentaEliminada     TipoEvento = "venta_eliminada"
	EventoGanadoresGenerados TipoEvento = "ganadores_generados"
	EventoPremioPagado       TipoEvento = "premio_pagado"
)

// Evento notifica hechos ya confirmados en la base; alimenta contadores en vivo.
type Evento struct {
	Tipo       TipoEvento      `json:"tipo"`
	RifaID     RifaID          `json:"rifa_id"`
	UsuarioID  UsuarioID       `json:"usuario_id,omitempty"`
	Monto      decimal.Decimal `json:"monto"`
	Cantidad   int64           `json:"cantidad"`
	OcurridoEn time.Time       `json:"ocurrido_en"`
}

type ResumenGeneral struct {
	Ventas           int64           `json:"ventas"`
	TotalVendido     decimal.Decimal `json:"total_vendido"`
	PremiosGenerados int64           `json:"premios_generados"`
	PremiosPagados   int64           `json:"premios_pagados"`
	MontoPagado      decimal.Decimal `json:"monto_pagado"`
	MontoPendiente   decimal.Decimal `json:"monto_pendiente"`
	SaldoClientes    decimal.Decimal `json:"saldo_clientes"`
}

type ResumenRifa struct {
	RifaID         RifaID          `json:"rifa_id"`
	Ventas         int64           `json:"ventas"`
	TotalVendido   decimal.Decimal `json:"total_vendido"`
	Ganadores      int64           `json:"ganadores"`
	MontoPagado    decimal.Decimal `json:"monto_pagado"`
	MontoPendiente decimal.Decimal `json:"monto_pendiente"`
}

type ResumenVendedor struct {
	VendedorID     UsuarioID       `json:"vendedor_id"`
	Facturas       int64           `json:"facturas"`
	Ventas         int64           `json:"ventas"`
	TotalVendido   decimal.Decimal `json:"total_vendido"`
	PremiosPagados int64           `json:"premios_pagados"`
	MontoPagado    decimal.Decimal `json:"monto_pagado"`
}

func (Usuario) TableName() string { return "usuario" }

func (Area) TableName() string { return "area" }

func (TipoRifa) TableName() string { return "tipo_rifa" }

func (OpcionPremio) TableName() string { return "opciones_premios" }

func (Rifa) TableName() string { return "rifa" }

func (Factura) TableName() string { return "factura" }

func (Venta) TableName() string { return "venta" }

func (NumeroGanador) TableName() string { return "numero_ganadores" }

func (Ganador) TableName() string { return "ganadores" }

func (Transaccion) TableName() string { return "transaccion" }
