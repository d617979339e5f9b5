// Paquete catalogo administra areas, tipos de rifa, tablas de premios, rifas y usuarios.
package catalogo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
)

// MaxCifras limita el largo de los numeros de una rifa; coincide con el ancho de las columnas numero.
const MaxCifras = 10

var (
	ErrNombreObligatorio   = fmt.Errorf("%w: nombre obligatorio", domain.ErrValidacion)
	ErrCifrasInvalidas     = fmt.Errorf("%w: cifras fuera de rango", domain.ErrValidacion)
	ErrRolInvalido         = fmt.Errorf("%w: rol desconocido", domain.ErrValidacion)
	ErrTablaInvalida       = fmt.Errorf("%w: tabla de premios invalida", domain.ErrValidacion)
	ErrAreaNoEncontrada    = fmt.Errorf("%w: area no encontrada", domain.ErrNotFound)
	ErrTipoNoEncontrado    = fmt.Errorf("%w: tipo de rifa no encontrado", domain.ErrNotFound)
	ErrUsuarioNoEncontrado = fmt.Errorf("%w: usuario no encontrado", domain.ErrNotFound)
)

// TablaPremios es la configuracion de los diez niveles de una combinacion tipo, area, monto y cifras.
// Premios[0] corresponde al nivel 1.
type TablaPremios struct {
	TipoRifaID domain.TipoRifaID                     `json:"tipo_rifa_id"`
	AreaID     domain.AreaID                         `json:"area_id"`
	Monto      decimal.Decimal                       `json:"monto"`
	Cifras     int                                   `json:"cifras"`
	Premios    [domain.NivelesPremio]decimal.Decimal `json:"premios"`
}

type NuevaRifa struct {
	TipoRifaID     domain.TipoRifaID `json:"tipo_rifa_id"`
	Nombre         string            `json:"nombre"`
	FechaHoraJuego time.Time         `json:"fecha_hora_juego"`
}

type NuevoUsuario struct {
	Nombre string        `json:"nombre"`
	Rol    domain.Rol    `json:"rol"`
	AreaID domain.AreaID `json:"area_id"`
}

type Service struct {
	uow domain.UnitOfWork
	ids *ids.Generator
}

func NewService(uow domain.UnitOfWork, idsGen *ids.Generator) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{uow: uow, ids: idsGen}
}

func (s *Service) CrearArea(ctx context.Context, nombre string) (domain.Area, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return domain.Area{}, ErrNombreObligatorio
	}
	a := domain.Area{ID: domain.AreaID(s.ids.New()), Nombre: nombre}
	if err := s.uow.Areas().Create(ctx, a); err != nil {
		return domain.Area{}, err
	}
	logger.Info("area creada", "area", a.ID, "nombre", a.Nombre)
	return a, nil
}

func (s *Service) ListarAreas(ctx context.Context) ([]domain.Area, error) {
	return s.uow.Areas().List(ctx)
}

func (s *Service) CrearTipoRifa(ctx context.Context, nombre string, cifras int) (domain.TipoRifa, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return domain.TipoRifa{}, ErrNombreObligatorio
	}
	if cifras < 1 || cifras > MaxCifras {
		return domain.TipoRifa{}, ErrCifrasInvalidas
	}
	t := domain.TipoRifa{ID: domain.TipoRifaID(s.ids.New()), Nombre: nombre, Cifras: cifras}
	if err := s.uow.TiposRifa().Create(ctx, t); err != nil {
		return domain.TipoRifa{}, err
	}
	logger.Info("tipo de rifa creado", "tipo", t.ID, "cifras", t.Cifras)
	return t, nil
}

func (s *Service) ListarTipos(ctx context.Context) ([]domain.TipoRifa, error) {
	return s.uow.TiposRifa().List(ctx)
}

// ConfigurarPremios reemplaza los diez niveles de la combinacion indicada.
func (s *Service) ConfigurarPremios(ctx context.Context, tabla TablaPremios) ([]domain.OpcionPremio, error) {
	tipo, err := s.uow.TiposRifa().FindByID(ctx, tabla.TipoRifaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTipoNoEncontrado
		}
		return nil, err
	}
	if tabla.AreaID != "" {
		if _, err := s.uow.Areas().FindByID(ctx, tabla.AreaID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, ErrAreaNoEncontrada
			}
			return nil, err
		}
	}
	if tabla.Cifras < 1 || tabla.Cifras > tipo.Cifras {
		return nil, fmt.Errorf("%w: cifras debe estar entre 1 y %d", ErrTablaInvalida, tipo.Cifras)
	}
	if !tabla.Monto.IsPositive() {
		return nil, fmt.Errorf("%w: monto debe ser positivo", ErrTablaInvalida)
	}

	opciones := make([]domain.OpcionPremio, 0, domain.NivelesPremio)
	for i, premio := range tabla.Premios {
		if premio.IsNegative() {
			return nil, fmt.Errorf("%w: premio negativo en nivel %d", ErrTablaInvalida, i+1)
		}
		opciones = append(opciones, domain.OpcionPremio{
			TipoRifaID: tabla.TipoRifaID,
			AreaID:     tabla.AreaID,
			Monto:      tabla.Monto,
			Cifras:     tabla.Cifras,
			Nivel:      i + 1,
			Premio:     premio,
		})
	}

	if err := s.uow.Premios().Reemplazar(ctx, tabla.TipoRifaID, tabla.AreaID, tabla.Monto, tabla.Cifras, opciones); err != nil {
		return nil, err
	}
	logger.Info("tabla de premios configurada",
		"tipo", tabla.TipoRifaID,
		"area", tabla.AreaID,
		"monto", tabla.Monto.StringFixed(2),
		"cifras", tabla.Cifras,
	)
	return opciones, nil
}

func (s *Service) ListarPremios(ctx context.Context, tipo domain.TipoRifaID) ([]domain.OpcionPremio, error) {
	if _, err := s.uow.TiposRifa().FindByID(ctx, tipo); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTipoNoEncontrado
		}
		return nil, err
	}
	return s.uow.Premios().ListByTipo(ctx, tipo)
}

func (s *Service) CrearRifa(ctx context.Context, nueva NuevaRifa) (domain.Rifa, error) {
	if nueva.FechaHoraJuego.IsZero() {
		return domain.Rifa{}, fmt.Errorf("%w: fecha_hora_juego obligatoria", domain.ErrValidacion)
	}
	tipo, err := s.uow.TiposRifa().FindByID(ctx, nueva.TipoRifaID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Rifa{}, ErrTipoNoEncontrado
		}
		return domain.Rifa{}, err
	}
	nombre := strings.TrimSpace(nueva.Nombre)
	if nombre == "" {
		nombre = tipo.Nombre + " " + nueva.FechaHoraJuego.UTC().Format("2006-01-02 15:04")
	}
	r := domain.Rifa{
		ID:             domain.RifaID(s.ids.New()),
		TipoRifaID:     tipo.ID,
		Nombre:         nombre,
		FechaHoraJuego: nueva.FechaHoraJuego.UTC(),
	}
	if err := s.uow.Rifas().Create(ctx, r); err != nil {
		return domain.Rifa{}, err
	}
	logger.Info("rifa creada", "rifa", r.ID, "juego", r.FechaHoraJuego)
	return r, nil
}

func (s *Service) ListarRifas(ctx context.Context, desde time.Time) ([]domain.Rifa, error) {
	return s.uow.Rifas().ListDesde(ctx, desde)
}

func (s *Service) CrearUsuario(ctx context.Context, nuevo NuevoUsuario) (domain.Usuario, error) {
	nombre := strings.TrimSpace(nuevo.Nombre)
	if nombre == "" {
		return domain.Usuario{}, ErrNombreObligatorio
	}
	if !nuevo.Rol.Valido() {
		return domain.Usuario{}, ErrRolInvalido
	}
	if nuevo.AreaID != "" {
		if _, err := s.uow.Areas().FindByID(ctx, nuevo.AreaID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Usuario{}, ErrAreaNoEncontrada
			}
			return domain.Usuario{}, err
		}
	}
	u := domain.Usuario{
		ID:     domain.UsuarioID(s.ids.New()),
		Nombre: nombre,
		Rol:    nuevo.Rol,
		AreaID: nuevo.AreaID,
		Saldo:  decimal.Zero,
		Activo: true,
	}
	if err := s.uow.Usuarios().Create(ctx, u); err != nil {
		return domain.Usuario{}, err
	}
	logger.Info("usuario creado", "usuario", u.ID, "rol", u.Rol)
	return u, nil
}

// ListarUsuarios filtra por rol; rol vacio lista todos.
func (s *Service) ListarUsuarios(ctx context.Context, rol domain.Rol) ([]domain.Usuario, error) {
	if rol != "" && !rol.Valido() {
		return nil, ErrRolInvalido
	}
	return s.uow.Usuarios().ListByRol(ctx, rol)
}

// ObtenerUsuario permite a cada usuario ver su ficha; los gestores ven cualquiera.
func (s *Service) ObtenerUsuario(ctx context.Context, actor domain.Actor, id domain.UsuarioID) (domain.Usuario, error) {
	if id != actor.ID && !actor.EsGestor() {
		return domain.Usuario{}, domain.ErrProhibido
	}
	u, err := s.uow.Usuarios().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Usuario{}, ErrUsuarioNoEncontrado
		}
		return domain.Usuario{}, err
	}
	return u, nil
}
