// Paquete worker consume los eventos de la fila y mantiene los contadores en vivo del tablero.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelojr/rifaparatodos/internal/app/reportes"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
	"github.com/marcelojr/rifaparatodos/internal/platform/metrics"
)

// EventoProcesador traduce cada evento en incrementos de contadores y metricas.
type EventoProcesador struct {
	contador domain.Contador
	clock    domain.Clock
}

func NewEventoProcesador(contador domain.Contador, clock domain.Clock) *EventoProcesador {
	return &EventoProcesador{
		contador: contador,
		clock:    clock,
	}
}

type incremento struct {
	clave string
	delta int64
}

func (p *EventoProcesador) Procesar(ctx context.Context, evento domain.Evento) error {
	start := time.Now()

	if evento.OcurridoEn.IsZero() {
		evento.OcurridoEn = p.clock.Ahora()
	}
	if evento.RifaID == "" {
		logger.Warn("evento sin rifa descartado", "tipo", evento.Tipo)
		metrics.IncEventoProcesado("descartado")
		return nil
	}

	var incrementos []incremento
	switch evento.Tipo {
	case domain.EventoVentaRegistrada:
		incrementos = []incremento{
			{reportes.ClaveVentas(evento.RifaID), evento.Cantidad},
			{reportes.ClaveVendidoCentavos(evento.RifaID), reportes.ACentavos(evento.Monto)},
		}
	case domain.EventoVentaEliminada:
		incrementos = []incremento{
			{reportes.ClaveVentas(evento.RifaID), -evento.Cantidad},
			{reportes.ClaveVendidoCentavos(evento.RifaID), -reportes.ACentavos(evento.Monto)},
		}
	case domain.EventoGanadoresGenerados:
		incrementos = []incremento{
			{reportes.ClaveGanadores(evento.RifaID), evento.Cantidad},
		}
	case domain.EventoPremioPagado:
		incrementos = []incremento{
			{reportes.ClavePremiosPagados(evento.RifaID), evento.Cantidad},
			{reportes.ClaveMontoPagadoCentavos(evento.RifaID), reportes.ACentavos(evento.Monto)},
		}
	default:
		logger.Warn("tipo de evento desconocido", "tipo", evento.Tipo, "rifa", evento.RifaID)
		metrics.IncEventoProcesado("desconocido")
		return nil
	}

	if p.contador != nil {
		for _, inc := range incrementos {
			if inc.delta == 0 {
				continue
			}
			if _, err := p.contador.Incrementar(ctx, inc.clave, inc.delta); err != nil {
				return fmt.Errorf("worker: incrementar %s: %w", inc.clave, err)
			}
		}
	}

	metrics.IncEventoProcesado(string(evento.Tipo))
	metrics.ObserveProcessingDuration(time.Since(start).Seconds())
	logger.Debug("evento procesado",
		"tipo", evento.Tipo,
		"rifa", evento.RifaID,
		"ocurrido_en", evento.OcurridoEn,
		"demora", p.clock.Ahora().Sub(evento.OcurridoEn),
	)
	return nil
}
