// Paquete saldos es el unico camino que modifica usuario.saldo; cada cambio deja un asiento en el libro.
package saldos

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
)

var (
	ErrMontoInvalido       = fmt.Errorf("%w: monto invalido", domain.ErrValidacion)
	ErrSaldoInsuficiente   = fmt.Errorf("%w: saldo insuficiente", domain.ErrConflicto)
	ErrUsuarioNoEncontrado = fmt.Errorf("%w: usuario no encontrado", domain.ErrNotFound)
)

// Movimiento describe un cambio de saldo. Monto es siempre positivo; Tipo define el signo.
type Movimiento struct {
	UsuarioID      domain.UsuarioID
	RealizadoPorID *domain.UsuarioID
	Tipo           domain.TipoTransaccion
	Monto          decimal.Decimal
	Descripcion    string
	ReferenciaID   *string
	// PermitirNegativo deja que un retiro lleve el saldo bajo cero.
	PermitirNegativo bool
}

type Libro struct {
	clock domain.Clock
	ids   *ids.Generator
}

func NewLibro(clock domain.Clock, idsGen *ids.Generator) *Libro {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Libro{clock: clock, ids: idsGen}
}

// Aplicar bloquea al usuario, recalcula el saldo y escribe el asiento en la transaccion recibida.
func (l *Libro) Aplicar(ctx context.Context, tx domain.Repositorios, m Movimiento) (domain.Transaccion, error) {
	if m.Monto.IsNegative() {
		return domain.Transaccion{}, ErrMontoInvalido
	}

	usuario, err := tx.Usuarios().FindByIDParaActualizar(ctx, m.UsuarioID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Transaccion{}, ErrUsuarioNoEncontrado
		}
		return domain.Transaccion{}, err
	}

	anterior := usuario.Saldo
	var nuevo decimal.Decimal
	switch m.Tipo {
	case domain.TransaccionRecarga:
		nuevo = anterior.Add(m.Monto)
	case domain.TransaccionRetiro:
		nuevo = anterior.Sub(m.Monto)
		if nuevo.IsNegative() && !m.PermitirNegativo {
			return domain.Transaccion{}, ErrSaldoInsuficiente
		}
	default:
		return domain.Transaccion{}, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrValidacion, m.Tipo)
	}

	if err := tx.Usuarios().ActualizarSaldo(ctx, usuario.ID, nuevo); err != nil {
		return domain.Transaccion{}, err
	}

	ahora := l.clock.Ahora()
	asiento := domain.Transaccion{
		ID:             domain.TransaccionID(l.ids.NewAt(ahora)),
		UsuarioID:      usuario.ID,
		RealizadoPorID: m.RealizadoPorID,
		Tipo:           m.Tipo,
		Monto:          m.Monto,
		SaldoAnterior:  anterior,
		SaldoNuevo:     nuevo,
		Descripcion:    m.Descripcion,
		ReferenciaID:   m.ReferenciaID,
		CreadoEn:       ahora,
	}
	if err := tx.Transacciones().Create(ctx, asiento); err != nil {
		return domain.Transaccion{}, err
	}

	return asiento, nil
}
