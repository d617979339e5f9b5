// Paquete ventas registra facturas de numeros vendidos y su eliminacion logica.
package ventas

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
	"github.com/marcelojr/rifaparatodos/internal/platform/metrics"
)

var (
	ErrSolicitudInvalida   = fmt.Errorf("%w: venta invalida", domain.ErrValidacion)
	ErrCompradorInvalido   = fmt.Errorf("%w: el comprador debe ser un cliente activo", domain.ErrValidacion)
	ErrNumeroDuplicado     = fmt.Errorf("%w: numero repetido en la factura", domain.ErrValidacion)
	ErrRifaCerrada         = fmt.Errorf("%w: la rifa ya se jugo", domain.ErrValidacion)
	ErrRifaNoEncontrada    = fmt.Errorf("%w: rifa no encontrada", domain.ErrNotFound)
	ErrVentaNoEncontrada   = fmt.Errorf("%w: venta no encontrada", domain.ErrNotFound)
	ErrFacturaNoEncontrada = fmt.Errorf("%w: factura no encontrada", domain.ErrNotFound)
	ErrVentaNoEliminable   = fmt.Errorf("%w: la venta ya fue eliminada o pagada", domain.ErrConflicto)
)

type Linea struct {
	RifaID domain.RifaID   `json:"rifa_id"`
	Numero string          `json:"numero"`
	Monto  decimal.Decimal `json:"monto"`
}

type Solicitud struct {
	CompradorID domain.UsuarioID `json:"comprador_id"`
	Lineas      []Linea          `json:"lineas"`
}

type Service struct {
	uow        domain.UnitOfWork
	publicador domain.Publicador
	antifraude domain.Antifraude
	clock      domain.Clock
	ids        *ids.Generator
}

func NewService(uow domain.UnitOfWork, publicador domain.Publicador, antifraude domain.Antifraude, clock domain.Clock, idsGen *ids.Generator) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{uow: uow, publicador: publicador, antifraude: antifraude, clock: clock, ids: idsGen}
}

// Vender crea una factura con una venta por linea. Todas las lineas se validan antes de escribir.
func (s *Service) Vender(ctx context.Context, actor domain.Actor, sol Solicitud) (domain.Factura, error) {
	if sol.CompradorID == "" || len(sol.Lineas) == 0 {
		return domain.Factura{}, fmt.Errorf("%w: comprador y al menos una linea", ErrSolicitudInvalida)
	}
	if s.antifraude != nil {
		if err := s.antifraude.Validar(ctx, actor, "venta"); err != nil {
			return domain.Factura{}, err
		}
	}

	ahora := s.clock.Ahora()
	var factura domain.Factura
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		comprador, err := tx.Usuarios().FindByID(ctx, sol.CompradorID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrCompradorInvalido
			}
			return err
		}
		if comprador.Rol != domain.RolCliente || !comprador.Activo {
			return ErrCompradorInvalido
		}

		factura = domain.Factura{
			ID:          domain.FacturaID(s.ids.NewAt(ahora)),
			CompradorID: comprador.ID,
			VendedorID:  actor.ID,
			Total:       decimal.Zero,
		}

		rifas := make(map[domain.RifaID]domain.TipoRifa)
		vistos := make(map[string]bool, len(sol.Lineas))
		ventas := make([]domain.Venta, 0, len(sol.Lineas))
		for i, l := range sol.Lineas {
			tipo, ok := rifas[l.RifaID]
			if !ok {
				tipo, err = s.rifaAbierta(ctx, tx, l.RifaID)
				if err != nil {
					return err
				}
				rifas[l.RifaID] = tipo
			}
			if err := validarLinea(l, tipo); err != nil {
				return fmt.Errorf("linea %d: %w", i+1, err)
			}
			clave := string(l.RifaID) + "|" + l.Numero
			if vistos[clave] {
				return fmt.Errorf("linea %d: %w", i+1, ErrNumeroDuplicado)
			}
			vistos[clave] = true

			ventas = append(ventas, domain.Venta{
				ID:          domain.VentaID(s.ids.NewAt(ahora)),
				FacturaID:   factura.ID,
				CompradorID: comprador.ID,
				VendedorID:  actor.ID,
				RifaID:      l.RifaID,
				Numero:      l.Numero,
				Monto:       l.Monto,
				Total:       l.Monto,
				Estado:      domain.VentaActiva,
			})
			factura.Total = factura.Total.Add(l.Monto)
		}

		if err := tx.Facturas().Create(ctx, factura); err != nil {
			return err
		}
		if err := tx.Ventas().BulkCreate(ctx, ventas); err != nil {
			return err
		}
		factura.Ventas = ventas
		return nil
	})
	if err != nil {
		return domain.Factura{}, err
	}

	metrics.AddVentasRegistradas(len(factura.Ventas))
	s.publicarVentas(ctx, domain.EventoVentaRegistrada, factura.Ventas...)
	logger.Info("factura registrada",
		"factura", factura.ID,
		"vendedor", actor.ID,
		"comprador", factura.CompradorID,
		"lineas", len(factura.Ventas),
		"total", factura.Total.StringFixed(2),
	)
	return factura, nil
}

// Eliminar marca la venta como eliminada. Solo el vendedor de la venta o un gestor, antes del juego.
func (s *Service) Eliminar(ctx context.Context, actor domain.Actor, id domain.VentaID) (domain.Venta, error) {
	var venta domain.Venta
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		var err error
		venta, err = tx.Ventas().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrVentaNoEncontrada
			}
			return err
		}
		if venta.VendedorID != actor.ID && !actor.EsGestor() {
			return domain.ErrProhibido
		}
		if _, err := s.rifaAbierta(ctx, tx, venta.RifaID); err != nil {
			return err
		}

		ahora := s.clock.Ahora()
		ok, err := tx.Ventas().MarcarEliminada(ctx, venta.ID, ahora)
		if err != nil {
			return err
		}
		if !ok {
			return ErrVentaNoEliminable
		}
		venta.Estado = domain.VentaEliminada
		venta.EliminadaEn = &ahora
		return nil
	})
	if err != nil {
		return domain.Venta{}, err
	}

	s.publicarVentas(ctx, domain.EventoVentaEliminada, venta)
	logger.Info("venta eliminada", "venta", venta.ID, "usuario", actor.ID)
	return venta, nil
}

// Factura devuelve la factura con sus ventas al comprador, al vendedor o a un gestor.
func (s *Service) Factura(ctx context.Context, actor domain.Actor, id domain.FacturaID) (domain.Factura, error) {
	f, err := s.uow.Facturas().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Factura{}, ErrFacturaNoEncontrada
		}
		return domain.Factura{}, err
	}
	if !actor.EsGestor() && actor.ID != f.CompradorID && actor.ID != f.VendedorID {
		return domain.Factura{}, domain.ErrProhibido
	}
	return f, nil
}

// QR genera un PNG con el identificador de la factura.
func (s *Service) QR(ctx context.Context, actor domain.Actor, id domain.FacturaID) ([]byte, error) {
	f, err := s.Factura(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode("factura:"+string(f.ID), qrcode.Medium, 256)
}

func (s *Service) rifaAbierta(ctx context.Context, tx domain.Repositorios, id domain.RifaID) (domain.TipoRifa, error) {
	rifa, err := tx.Rifas().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TipoRifa{}, ErrRifaNoEncontrada
		}
		return domain.TipoRifa{}, err
	}
	if !rifa.FechaHoraJuego.After(s.clock.Ahora()) {
		return domain.TipoRifa{}, ErrRifaCerrada
	}
	tipo, err := tx.TiposRifa().FindByID(ctx, rifa.TipoRifaID)
	if err != nil {
		return domain.TipoRifa{}, fmt.Errorf("ventas: tipo de la rifa %s: %w", rifa.ID, err)
	}
	return tipo, nil
}

func (s *Service) publicarVentas(ctx context.Context, tipo domain.TipoEvento, ventas ...domain.Venta) {
	if s.publicador == nil {
		return
	}
	porRifa := make(map[domain.RifaID]*domain.Evento)
	var orden []domain.RifaID
	for _, v := range ventas {
		e, ok := porRifa[v.RifaID]
		if !ok {
			e = &domain.Evento{Tipo: tipo, RifaID: v.RifaID, UsuarioID: v.VendedorID, Monto: decimal.Zero, OcurridoEn: s.clock.Ahora()}
			porRifa[v.RifaID] = e
			orden = append(orden, v.RifaID)
		}
		e.Monto = e.Monto.Add(v.Monto)
		e.Cantidad++
	}
	for _, id := range orden {
		if err := s.publicador.Publicar(ctx, *porRifa[id]); err != nil {
			logger.Warn("no se pudo publicar evento", "tipo", tipo, "rifa", id, "error", err)
		}
	}
}

func validarLinea(l Linea, tipo domain.TipoRifa) error {
	if len(l.Numero) == 0 || len(l.Numero) > tipo.Cifras {
		return fmt.Errorf("%w: el numero debe tener entre 1 y %d cifras", ErrSolicitudInvalida, tipo.Cifras)
	}
	for _, r := range l.Numero {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: solo se aceptan digitos", ErrSolicitudInvalida)
		}
	}
	if !l.Monto.IsPositive() {
		return fmt.Errorf("%w: monto debe ser positivo", ErrSolicitudInvalida)
	}
	if !l.Monto.Equal(l.Monto.Round(2)) {
		return fmt.Errorf("%w: monto con mas de dos decimales", ErrSolicitudInvalida)
	}
	return nil
}
