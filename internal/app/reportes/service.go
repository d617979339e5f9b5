// Paquete reportes arma el tablero: agregados SQL sobre ventas activas y contadores en vivo en Redis.
package reportes

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marcelojr/rifaparatodos/internal/domain"
)

var ErrRifaNoEncontrada = fmt.Errorf("%w: rifa no encontrada", domain.ErrNotFound)

// EnVivo refleja los contadores alimentados por el worker; puede ir unos segundos detras de la base.
type EnVivo struct {
	RifaID         domain.RifaID   `json:"rifa_id"`
	Ventas         int64           `json:"ventas"`
	TotalVendido   decimal.Decimal `json:"total_vendido"`
	Ganadores      int64           `json:"ganadores"`
	PremiosPagados int64           `json:"premios_pagados"`
	MontoPagado    decimal.Decimal `json:"monto_pagado"`
}

type Service struct {
	repo     domain.ReporteRepository
	rifas    domain.RifaRepository
	contador domain.Contador
}

func NewService(repo domain.ReporteRepository, rifas domain.RifaRepository, contador domain.Contador) *Service {
	return &Service{repo: repo, rifas: rifas, contador: contador}
}

func (s *Service) General(ctx context.Context) (domain.ResumenGeneral, error) {
	return s.repo.ResumenGeneral(ctx)
}

func (s *Service) PorRifa(ctx context.Context, id domain.RifaID) (domain.ResumenRifa, error) {
	if err := s.existeRifa(ctx, id); err != nil {
		return domain.ResumenRifa{}, err
	}
	return s.repo.ResumenRifa(ctx, id)
}

// PorVendedor deja que un vendedor consulte solo su propio resumen.
func (s *Service) PorVendedor(ctx context.Context, actor domain.Actor, id domain.UsuarioID) (domain.ResumenVendedor, error) {
	if !actor.EsGestor() && actor.ID != id {
		return domain.ResumenVendedor{}, domain.ErrProhibido
	}
	return s.repo.ResumenVendedor(ctx, id)
}

func (s *Service) EnVivo(ctx context.Context, id domain.RifaID) (EnVivo, error) {
	if err := s.existeRifa(ctx, id); err != nil {
		return EnVivo{}, err
	}
	out := EnVivo{RifaID: id, TotalVendido: decimal.Zero, MontoPagado: decimal.Zero}
	if s.contador == nil {
		return out, nil
	}

	claves := []string{
		ClaveVentas(id),
		ClaveVendidoCentavos(id),
		ClaveGanadores(id),
		ClavePremiosPagados(id),
		ClaveMontoPagadoCentavos(id),
	}
	valores, err := s.contador.ObtenerTodos(ctx, claves)
	if err != nil {
		return EnVivo{}, fmt.Errorf("reportes: contadores de %s: %w", id, err)
	}

	out.Ventas = valores[ClaveVentas(id)]
	out.TotalVendido = DesdeCentavos(valores[ClaveVendidoCentavos(id)])
	out.Ganadores = valores[ClaveGanadores(id)]
	out.PremiosPagados = valores[ClavePremiosPagados(id)]
	out.MontoPagado = DesdeCentavos(valores[ClaveMontoPagadoCentavos(id)])
	return out, nil
}

func (s *Service) existeRifa(ctx context.Context, id domain.RifaID) error {
	if _, err := s.rifas.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrRifaNoEncontrada
		}
		return err
	}
	return nil
}
