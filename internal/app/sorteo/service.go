// Paquete sorteo declara los numeros ganadores y deriva los premios candidatos a partir de las ventas.
package sorteo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
	"github.com/marcelojr/rifaparatodos/internal/platform/metrics"
)

var (
	ErrNumeroInvalido     = fmt.Errorf("%w: numero ganador invalido", domain.ErrValidacion)
	ErrRifaNoEncontrada   = fmt.Errorf("%w: rifa no encontrada", domain.ErrNotFound)
	ErrNumeroNoEncontrado = fmt.Errorf("%w: numero ganador no encontrado", domain.ErrNotFound)
	ErrNumeroConPagos     = fmt.Errorf("%w: numero ganador con premios pagados", domain.ErrConflicto)
	ErrRifaSinJugar       = fmt.Errorf("%w: la rifa aun no se juega", domain.ErrValidacion)
)

type Declaracion struct {
	RifaID domain.RifaID `json:"rifa_id"`
	Sorteo int           `json:"sorteo"`
	Nivel  int           `json:"nivel"`
	Numero string        `json:"numero"`
}

type Resultado struct {
	Numero     domain.NumeroGanador `json:"numero"`
	Revisado   bool                 `json:"revisado"`
	Eliminados int64                `json:"eliminados"`
	Generados  int64                `json:"generados"`
}

type Service struct {
	uow        domain.UnitOfWork
	publicador domain.Publicador
	clock      domain.Clock
	ids        *ids.Generator
}

func NewService(uow domain.UnitOfWork, publicador domain.Publicador, clock domain.Clock, idsGen *ids.Generator) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{uow: uow, publicador: publicador, clock: clock, ids: idsGen}
}

// DeclararNumero registra o corrige el numero ganador de (rifa, sorteo, nivel) y regenera sus premios
// candidatos en la misma transaccion.
func (s *Service) DeclararNumero(ctx context.Context, actor domain.Actor, d Declaracion) (Resultado, error) {
	if err := validarDeclaracion(d); err != nil {
		return Resultado{}, err
	}

	inicio := time.Now()
	var (
		res  Resultado
		rifa domain.Rifa
	)
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		var tipo domain.TipoRifa
		var err error
		rifa, tipo, err = s.cargarRifa(ctx, tx, d.RifaID)
		if err != nil {
			return err
		}
		if len(d.Numero) > tipo.Cifras {
			return fmt.Errorf("%w: %d cifras, maximo %d", ErrNumeroInvalido, len(d.Numero), tipo.Cifras)
		}
		if rifa.FechaHoraJuego.After(s.clock.Ahora()) {
			return ErrRifaSinJugar
		}

		existente, err := tx.NumerosGanadores().FindByClave(ctx, d.RifaID, d.Sorteo, d.Nivel)
		switch {
		case err == nil:
			if err := s.verificarSinPagos(ctx, tx, existente.ID); err != nil {
				return err
			}
			if err := tx.NumerosGanadores().ActualizarNumero(ctx, existente.ID, d.Numero); err != nil {
				return err
			}
			existente.Numero = d.Numero
			res.Numero = existente
			res.Revisado = true
		case errors.Is(err, domain.ErrNotFound):
			res.Numero = domain.NumeroGanador{
				ID:     domain.NumeroGanadorID(s.ids.New()),
				RifaID: d.RifaID,
				Sorteo: d.Sorteo,
				Nivel:  d.Nivel,
				Numero: d.Numero,
			}
			if err := tx.NumerosGanadores().Create(ctx, res.Numero); err != nil {
				return err
			}
		default:
			return err
		}

		res.Eliminados, res.Generados, err = s.regenerar(ctx, tx, res.Numero, rifa, tipo)
		return err
	})
	if err != nil {
		return Resultado{}, err
	}

	s.registrarCruce(ctx, rifa.ID, res, inicio)
	logger.Debug("numero ganador declarado", "rifa", rifa.ID, "usuario", actor.ID, "nivel", d.Nivel)
	return res, nil
}

// Revalidar borra y vuelve a derivar los premios de un numero ganador existente.
func (s *Service) Revalidar(ctx context.Context, id domain.NumeroGanadorID) (Resultado, error) {
	inicio := time.Now()
	var res Resultado
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		numero, err := tx.NumerosGanadores().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return ErrNumeroNoEncontrado
			}
			return err
		}
		rifa, tipo, err := s.cargarRifa(ctx, tx, numero.RifaID)
		if err != nil {
			return err
		}
		if err := s.verificarSinPagos(ctx, tx, numero.ID); err != nil {
			return err
		}
		res.Numero = numero
		res.Revisado = true
		res.Eliminados, res.Generados, err = s.regenerar(ctx, tx, numero, rifa, tipo)
		return err
	})
	if err != nil {
		return Resultado{}, err
	}

	s.registrarCruce(ctx, res.Numero.RifaID, res, inicio)
	return res, nil
}

func (s *Service) ListarGanadores(ctx context.Context, rifa domain.RifaID) ([]domain.Ganador, error) {
	if _, err := s.uow.Rifas().FindByID(ctx, rifa); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRifaNoEncontrada
		}
		return nil, err
	}
	return s.uow.Ganadores().ListByRifa(ctx, rifa)
}

func (s *Service) ListarNumeros(ctx context.Context, rifa domain.RifaID) ([]domain.NumeroGanador, error) {
	if _, err := s.uow.Rifas().FindByID(ctx, rifa); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrRifaNoEncontrada
		}
		return nil, err
	}
	return s.uow.NumerosGanadores().ListByRifa(ctx, rifa)
}

func (s *Service) cargarRifa(ctx context.Context, tx domain.Repositorios, id domain.RifaID) (domain.Rifa, domain.TipoRifa, error) {
	rifa, err := tx.Rifas().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Rifa{}, domain.TipoRifa{}, ErrRifaNoEncontrada
		}
		return domain.Rifa{}, domain.TipoRifa{}, err
	}
	tipo, err := tx.TiposRifa().FindByID(ctx, rifa.TipoRifaID)
	if err != nil {
		return domain.Rifa{}, domain.TipoRifa{}, fmt.Errorf("sorteo: tipo de la rifa %s: %w", rifa.ID, err)
	}
	return rifa, tipo, nil
}

// verificarSinPagos impide regenerar premios ya pagados: borrarlos dejaria ventas pagadas sin premio.
func (s *Service) verificarSinPagos(ctx context.Context, tx domain.Repositorios, id domain.NumeroGanadorID) error {
	actuales, err := tx.Ganadores().ListByNumeroGanador(ctx, id)
	if err != nil {
		return err
	}
	for _, g := range actuales {
		if g.Pagada {
			return ErrNumeroConPagos
		}
	}
	return nil
}

// regenerar borra los premios del numero y vuelve a cruzar todos los numeros ganadores de la rifa. Un
// premio que otro numero no pudo insertar por repetir la clave vuelve a aparecer si ese numero sigue
// acertando; los que ya existen quedan intactos.
func (s *Service) regenerar(ctx context.Context, tx domain.Repositorios, numero domain.NumeroGanador, rifa domain.Rifa, tipo domain.TipoRifa) (int64, int64, error) {
	eliminados, err := tx.Ganadores().DeleteByNumeroGanador(ctx, numero.ID)
	if err != nil {
		return 0, 0, err
	}

	ventas, err := tx.Ventas().ListActivasPorRifa(ctx, rifa.ID)
	if err != nil {
		return 0, 0, err
	}
	declarados, err := tx.NumerosGanadores().ListByRifa(ctx, rifa.ID)
	if err != nil {
		return 0, 0, err
	}

	numeros := make([]domain.NumeroGanador, 0, len(declarados)+1)
	numeros = append(numeros, numero)
	for _, n := range declarados {
		if n.ID != numero.ID {
			numeros = append(numeros, n)
		}
	}

	areas := make(map[domain.UsuarioID]domain.AreaID)
	var ganadores []domain.Ganador
	for _, n := range numeros {
		for _, c := range Cruzar(n, ventas) {
			area, ok := areas[c.Venta.CompradorID]
			if !ok {
				comprador, err := tx.Usuarios().FindByID(ctx, c.Venta.CompradorID)
				if err != nil {
					return 0, 0, fmt.Errorf("sorteo: comprador %s: %w", c.Venta.CompradorID, err)
				}
				area = comprador.AreaID
				areas[c.Venta.CompradorID] = area
			}

			premio, err := buscarPremio(ctx, tx.Premios(), tipo.ID, area, c.Venta.Monto, len(n.Numero), c.Nivel)
			if err != nil {
				return 0, 0, err
			}

			ganadores = append(ganadores, domain.Ganador{
				ID:              domain.GanadorID(s.ids.New()),
				CompradorID:     c.Venta.CompradorID,
				FacturaID:       c.Venta.FacturaID,
				VentaID:         c.Venta.ID,
				Numero:          c.Venta.Numero,
				Nivel:           c.Nivel,
				Fecha:           c.Venta.CreadoEn,
				Premio:          premio,
				AreaID:          area,
				NumeroGanadorID: n.ID,
				RifaID:          rifa.ID,
			})
		}
	}
	if len(ganadores) == 0 {
		return eliminados, 0, nil
	}

	generados, err := tx.Ganadores().BulkCreate(ctx, ganadores)
	if err != nil {
		return 0, 0, err
	}
	return eliminados, generados, nil
}

// buscarPremio consulta la tabla del area del comprador y luego la general; sin configuracion el premio es cero.
func buscarPremio(ctx context.Context, premios domain.OpcionPremioRepository, tipo domain.TipoRifaID, area domain.AreaID, monto decimal.Decimal, cifras, nivel int) (decimal.Decimal, error) {
	areas := []domain.AreaID{area}
	if area != "" {
		areas = append(areas, "")
	}
	for _, a := range areas {
		opcion, err := premios.Buscar(ctx, tipo, a, monto, cifras, nivel)
		if err == nil {
			return opcion.Premio, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return decimal.Zero, err
		}
	}
	return decimal.Zero, nil
}

func (s *Service) registrarCruce(ctx context.Context, rifa domain.RifaID, res Resultado, inicio time.Time) {
	metrics.ObserveCruceDuration(time.Since(inicio).Seconds())
	metrics.AddGanadoresGenerados(res.Generados)
	logger.Info("numero ganador procesado",
		"rifa", rifa,
		"numero_ganador", res.Numero.ID,
		"revisado", res.Revisado,
		"eliminados", res.Eliminados,
		"generados", res.Generados,
	)

	if s.publicador == nil {
		return
	}
	evento := domain.Evento{
		Tipo:       domain.EventoGanadoresGenerados,
		RifaID:     rifa,
		Cantidad:   res.Generados - res.Eliminados,
		OcurridoEn: s.clock.Ahora(),
	}
	if err := s.publicador.Publicar(ctx, evento); err != nil {
		logger.Warn("no se pudo publicar evento", "tipo", evento.Tipo, "rifa", rifa, "error", err)
	}
}

func validarDeclaracion(d Declaracion) error {
	if d.RifaID == "" {
		return fmt.Errorf("%w: rifa obligatoria", ErrNumeroInvalido)
	}
	if d.Sorteo < 1 {
		return fmt.Errorf("%w: sorteo debe ser mayor que cero", ErrNumeroInvalido)
	}
	if d.Nivel < 1 || d.Nivel > domain.NivelesPremio {
		return fmt.Errorf("%w: nivel fuera de rango", ErrNumeroInvalido)
	}
	if !soloDigitos(d.Numero) {
		return fmt.Errorf("%w: solo se aceptan digitos", ErrNumeroInvalido)
	}
	return nil
}
