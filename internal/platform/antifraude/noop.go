package antifraude

import (
	"context"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

// Noop representa el limite de operaciones desactivado.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Validar(ctx context.Context, actor domain.Actor, operacion string) error {
	return nil
}

var _ domain.Antifraude = Noop{}
