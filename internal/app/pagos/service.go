// Paquete pagos convierte premios candidatos en premios pagados, una sola vez y con su asiento en el libro.
package pagos

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/app/saldos"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
	"github.com/marcelojr/rifaparatodos/internal/platform/metrics"
)

var (
	ErrClaveInvalida      = fmt.Errorf("%w: clave de premio invalida", domain.ErrValidacion)
	ErrLoteVacio          = fmt.Errorf("%w: el lote no tiene premios", domain.ErrValidacion)
	ErrPremioNoEncontrado = fmt.Errorf("%w: premio no encontrado", domain.ErrNotFound)
	ErrYaPagado           = fmt.Errorf("%w: premio ya pagado", domain.ErrConflicto)
	ErrVencido            = errors.New("premio vencido")
	ErrNoAutorizado       = fmt.Errorf("%w: el premio no corresponde al usuario", domain.ErrProhibido)
)

type flujo int

const (
	flujoVendedor flujo = iota
	flujoComprador
)

type ResultadoPago struct {
	Pagado  bool               `json:"pagado"`
	Monto   decimal.Decimal    `json:"monto"`
	Ganador domain.Ganador     `json:"ganador"`
	Asiento domain.Transaccion `json:"asiento"`
}

type PendientePago struct {
	Ganador domain.Ganador `json:"ganador"`
	Vencido bool           `json:"vencido"`
}

type Service struct {
	uow        domain.UnitOfWork
	libro      *saldos.Libro
	publicador domain.Publicador
	antifraude domain.Antifraude
	clock      domain.Clock
	politica   string
}

func NewService(uow domain.UnitOfWork, libro *saldos.Libro, publicador domain.Publicador, antifraude domain.Antifraude, clock domain.Clock, politica string) *Service {
	if politica == "" {
		politica = PoliticaTodoONada
	}
	return &Service{
		uow:        uow,
		libro:      libro,
		publicador: publicador,
		antifraude: antifraude,
		clock:      clock,
		politica:   politica,
	}
}

// PagarPremio registra que el vendedor entrego el premio en efectivo: descuenta el saldo del comprador.
func (s *Service) PagarPremio(ctx context.Context, actor domain.Actor, clave domain.GanadorClave) (ResultadoPago, error) {
	return s.pagarUno(ctx, actor, clave, flujoVendedor)
}

// CobrarPremio acredita el premio al saldo del propio comprador.
func (s *Service) CobrarPremio(ctx context.Context, actor domain.Actor, clave domain.GanadorClave) (ResultadoPago, error) {
	return s.pagarUno(ctx, actor, clave, flujoComprador)
}

func (s *Service) pagarUno(ctx context.Context, actor domain.Actor, clave domain.GanadorClave, f flujo) (ResultadoPago, error) {
	if err := s.validarAntifraude(ctx, actor, f.operacion()); err != nil {
		return ResultadoPago{}, err
	}

	var res ResultadoPago
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		var err error
		res, err = s.pagar(ctx, tx, actor, clave, f)
		return err
	})
	metrics.ObservePago(resultadoMetrica(err))
	if err != nil {
		return ResultadoPago{}, err
	}

	s.publicarPagos(ctx, res.Ganador)
	logger.Info("premio pagado",
		"ganador", res.Ganador.ID,
		"comprador", res.Ganador.CompradorID,
		"usuario", actor.ID,
		"monto", res.Monto.StringFixed(2),
		"flujo", f.operacion(),
	)
	return res, nil
}

// PagarLote paga varios premios en una transaccion. Los ya pagados se omiten; el resto de fallos se trata
// segun la politica configurada.
func (s *Service) PagarLote(ctx context.Context, actor domain.Actor, claves []domain.GanadorClave) (ResultadoLote, error) {
	if len(claves) == 0 {
		return ResultadoLote{}, ErrLoteVacio
	}
	if err := s.validarAntifraude(ctx, actor, "pago:lote"); err != nil {
		return ResultadoLote{}, err
	}

	res := ResultadoLote{Politica: s.politica, Total: decimal.Zero, Items: make([]ItemLote, len(claves))}
	for i, c := range claves {
		res.Items[i] = ItemLote{Clave: c, Monto: decimal.Zero}
	}

	var pagados []domain.Ganador
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		pagados = pagados[:0]
		var primera error
		for i, clave := range claves {
			var pago ResultadoPago
			var err error
			if s.politica == PoliticaParcial {
				err = tx.Anidada(ctx, func(sub domain.Tx) error {
					var errItem error
					pago, errItem = s.pagar(ctx, sub, actor, clave, flujoVendedor)
					return errItem
				})
			} else {
				pago, err = s.pagar(ctx, tx, actor, clave, flujoVendedor)
			}
			metrics.ObservePago(resultadoMetrica(err))

			switch {
			case err == nil:
				res.sumar(i, pago.Monto)
				pagados = append(pagados, pago.Ganador)
			case errors.Is(err, ErrYaPagado):
				res.fallar(i, ItemOmitido, err)
			case esFalloDeNegocio(err):
				res.fallar(i, ItemFallido, err)
				if primera == nil {
					primera = err
				}
			default:
				return err
			}
		}
		if primera != nil && s.politica == PoliticaTodoONada {
			return &ErrLote{Causa: primera}
		}
		return nil
	})

	var errLote *ErrLote
	if errors.As(err, &errLote) {
		res.revertir()
		errLote.Resultado = res
		logger.Warn("lote de pagos revertido", "usuario", actor.ID, "items", len(claves), "error", errLote.Causa)
		return res, errLote
	}
	if err != nil {
		return ResultadoLote{}, err
	}

	s.publicarPagos(ctx, pagados...)
	logger.Info("lote de pagos confirmado",
		"usuario", actor.ID,
		"politica", s.politica,
		"items", len(claves),
		"pagados", res.Pagados,
		"total", res.Total.StringFixed(2),
	)
	return res, nil
}

// ListarPendientes devuelve premios sin pagar: los propios de un cliente, los de las facturas de un vendedor,
// o los del vendedor indicado cuando consulta un administrador o supervisor.
func (s *Service) ListarPendientes(ctx context.Context, actor domain.Actor, vendedor domain.UsuarioID) ([]PendientePago, error) {
	var (
		ganadores []domain.Ganador
		err       error
	)
	switch {
	case actor.Rol == domain.RolCliente:
		ganadores, err = s.uow.Ganadores().ListPendientesPorComprador(ctx, actor.ID)
	case actor.Rol == domain.RolVendedor:
		ganadores, err = s.uow.Ganadores().ListPendientesPorVendedor(ctx, actor.ID)
	case actor.EsGestor():
		if vendedor == "" {
			return nil, fmt.Errorf("%w: vendedor_id obligatorio", domain.ErrValidacion)
		}
		ganadores, err = s.uow.Ganadores().ListPendientesPorVendedor(ctx, vendedor)
	default:
		return nil, domain.ErrProhibido
	}
	if err != nil {
		return nil, err
	}

	ahora := s.clock.Ahora()
	juegos := make(map[domain.RifaID]domain.Rifa)
	out := make([]PendientePago, 0, len(ganadores))
	for _, g := range ganadores {
		rifa, ok := juegos[g.RifaID]
		if !ok {
			rifa, err = s.uow.Rifas().FindByID(ctx, g.RifaID)
			if err != nil {
				return nil, err
			}
			juegos[g.RifaID] = rifa
		}
		out = append(out, PendientePago{Ganador: g, Vencido: Vencido(rifa.FechaHoraJuego, ahora)})
	}
	return out, nil
}

// pagar aplica un pago dentro de tx. Orden de verificacion: clave, existencia, vigencia, estado, propiedad.
func (s *Service) pagar(ctx context.Context, tx domain.Repositorios, actor domain.Actor, clave domain.GanadorClave, f flujo) (ResultadoPago, error) {
	if err := validarClave(clave); err != nil {
		return ResultadoPago{}, err
	}

	g, err := tx.Ganadores().FindByClave(ctx, clave)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ResultadoPago{}, ErrPremioNoEncontrado
		}
		return ResultadoPago{}, err
	}

	rifa, err := tx.Rifas().FindByID(ctx, g.RifaID)
	if err != nil {
		return ResultadoPago{}, fmt.Errorf("pagos: rifa del premio %s: %w", g.ID, err)
	}
	ahora := s.clock.Ahora()
	if Vencido(rifa.FechaHoraJuego, ahora) {
		return ResultadoPago{}, ErrVencido
	}

	if g.Pagada {
		return ResultadoPago{}, ErrYaPagado
	}

	venta, err := tx.Ventas().FindByID(ctx, g.VentaID)
	if err != nil {
		return ResultadoPago{}, fmt.Errorf("pagos: venta del premio %s: %w", g.ID, err)
	}
	if err := autorizar(actor, g, venta, f); err != nil {
		return ResultadoPago{}, err
	}

	ok, err := tx.Ganadores().MarcarPagado(ctx, g.ID, actor.ID, ahora)
	if err != nil {
		return ResultadoPago{}, err
	}
	if !ok {
		return ResultadoPago{}, ErrYaPagado
	}
	if err := tx.Ventas().MarcarPagada(ctx, venta.ID, ahora); err != nil {
		return ResultadoPago{}, err
	}

	realizadoPor := actor.ID
	referencia := string(g.ID)
	mov := saldos.Movimiento{
		UsuarioID:      g.CompradorID,
		RealizadoPorID: &realizadoPor,
		Monto:          g.Premio,
		ReferenciaID:   &referencia,
	}
	if f == flujoVendedor {
		mov.Tipo = domain.TransaccionRetiro
		mov.Descripcion = fmt.Sprintf("Pago de premio nivel %d, numero %s", g.Nivel, g.Numero)
		mov.PermitirNegativo = true
	} else {
		mov.Tipo = domain.TransaccionRecarga
		mov.Descripcion = fmt.Sprintf("Cobro de premio nivel %d, numero %s", g.Nivel, g.Numero)
	}
	asiento, err := s.libro.Aplicar(ctx, tx, mov)
	if err != nil {
		return ResultadoPago{}, err
	}

	g.Pagada = true
	g.FechaHoraPago = &ahora
	g.PagadoPorID = &realizadoPor
	return ResultadoPago{Pagado: true, Monto: g.Premio, Ganador: g, Asiento: asiento}, nil
}

func autorizar(actor domain.Actor, g domain.Ganador, venta domain.Venta, f flujo) error {
	switch f {
	case flujoComprador:
		if g.CompradorID != actor.ID {
			return ErrNoAutorizado
		}
	default:
		if !actor.EsGestor() && venta.VendedorID != actor.ID {
			return ErrNoAutorizado
		}
	}
	return nil
}

func validarClave(c domain.GanadorClave) error {
	if c.RifaID == "" || c.CompradorID == "" || c.FacturaID == "" || c.Numero == "" {
		return ErrClaveInvalida
	}
	if c.Nivel < 1 || c.Nivel > domain.NivelesPremio {
		return fmt.Errorf("%w: nivel fuera de rango", ErrClaveInvalida)
	}
	return nil
}

func (s *Service) validarAntifraude(ctx context.Context, actor domain.Actor, operacion string) error {
	if s.antifraude == nil {
		return nil
	}
	return s.antifraude.Validar(ctx, actor, operacion)
}

func (s *Service) publicarPagos(ctx context.Context, ganadores ...domain.Ganador) {
	if s.publicador == nil {
		return
	}
	for _, g := range ganadores {
		evento := domain.Evento{
			Tipo:       domain.EventoPremioPagado,
			RifaID:     g.RifaID,
			UsuarioID:  g.CompradorID,
			Monto:      g.Premio,
			Cantidad:   1,
			OcurridoEn: s.clock.Ahora(),
		}
		if err := s.publicador.Publicar(ctx, evento); err != nil {
			logger.Warn("no se pudo publicar evento", "tipo", evento.Tipo, "ganador", g.ID, "error", err)
		}
	}
}

func (f flujo) operacion() string {
	if f == flujoComprador {
		return "pago:cobro"
	}
	return "pago:premio"
}

func esFalloDeNegocio(err error) bool {
	return errors.Is(err, ErrVencido) ||
		errors.Is(err, domain.ErrValidacion) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrProhibido) ||
		errors.Is(err, domain.ErrConflicto)
}

func resultadoMetrica(err error) string {
	switch {
	case err == nil:
		return "pagado"
	case errors.Is(err, ErrYaPagado):
		return "ya_pagado"
	case errors.Is(err, ErrVencido):
		return "vencido"
	case errors.Is(err, domain.ErrProhibido):
		return "prohibido"
	case errors.Is(err, domain.ErrNotFound):
		return "no_encontrado"
	default:
		return "error"
	}
}
