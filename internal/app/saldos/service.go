package saldos

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

type Service struct {
	uow        domain.UnitOfWork
	libro      *Libro
	antifraude domain.Antifraude
}

func NewService(uow domain.UnitOfWork, libro *Libro, antifraude domain.Antifraude) *Service {
	return &Service{uow: uow, libro: libro, antifraude: antifraude}
}

func (s *Service) Recargar(ctx context.Context, actor domain.Actor, usuario domain.UsuarioID, monto decimal.Decimal, descripcion string) (domain.Transaccion, error) {
	return s.mover(ctx, actor, Movimiento{
		UsuarioID:   usuario,
		Tipo:        domain.TransaccionRecarga,
		Monto:       monto,
		Descripcion: descripcionPorDefecto(descripcion, "Recarga de saldo"),
	})
}

func (s *Service) Retirar(ctx context.Context, actor domain.Actor, usuario domain.UsuarioID, monto decimal.Decimal, descripcion string) (domain.Transaccion, error) {
	return s.mover(ctx, actor, Movimiento{
		UsuarioID:   usuario,
		Tipo:        domain.TransaccionRetiro,
		Monto:       monto,
		Descripcion: descripcionPorDefecto(descripcion, "Retiro de saldo"),
	})
}

func (s *Service) mover(ctx context.Context, actor domain.Actor, m Movimiento) (domain.Transaccion, error) {
	if !m.Monto.IsPositive() {
		return domain.Transaccion{}, ErrMontoInvalido
	}
	if m.UsuarioID == "" {
		return domain.Transaccion{}, ErrUsuarioNoEncontrado
	}
	if s.antifraude != nil {
		if err := s.antifraude.Validar(ctx, actor, "saldo:"+string(m.Tipo)); err != nil {
			return domain.Transaccion{}, err
		}
	}
	realizadoPor := actor.ID
	m.RealizadoPorID = &realizadoPor

	var asiento domain.Transaccion
	err := s.uow.Ejecutar(ctx, func(tx domain.Tx) error {
		var err error
		asiento, err = s.libro.Aplicar(ctx, tx, m)
		return err
	})
	if err != nil {
		return domain.Transaccion{}, err
	}
	return asiento, nil
}

// Movimientos devuelve el libro de un usuario. Solo administradores y supervisores ven libros ajenos.
func (s *Service) Movimientos(ctx context.Context, actor domain.Actor, usuario domain.UsuarioID) ([]domain.Transaccion, error) {
	if usuario != actor.ID && !actor.EsGestor() {
		return nil, domain.ErrProhibido
	}
	if _, err := s.uow.Usuarios().FindByID(ctx, usuario); err != nil {
		return nil, err
	}
	return s.uow.Transacciones().ListByUsuario(ctx, usuario)
}

func descripcionPorDefecto(valor, defecto string) string {
	if valor == "" {
		return defecto
	}
	return valor
}
