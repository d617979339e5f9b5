package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rifas_http_requests_total",
		Help: "Total de solicitudes HTTP atendidas por ruta y codigo",
	}, []string{"ruta", "codigo"})

	ventasRegistradasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifas_ventas_registradas_total",
		Help: "Total de numeros vendidos",
	})

	ganadoresGeneradosTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rifas_ganadores_generados_total",
		Help: "Total de premios candidatos generados por el cruce de numeros",
	})

	pagosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rifas_pagos_total",
		Help: "Intentos de pago de premios por resultado",
	}, []string{"resultado"})

	cruceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rifas_cruce_duration_seconds",
		Help:    "Tiempo del cruce de un numero ganador contra las ventas",
		Buckets: prometheus.DefBuckets,
	})

	eventosProcesadosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rifas_eventos_procesados_total",
		Help: "Eventos consumidos por el worker",
	}, []string{"tipo"})

	eventoProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "rifas_evento_processing_duration_seconds",
		Help:    "Tiempo para procesar un evento en el worker",
		Buckets: prometheus.DefBuckets,
	})
)

func ObserveHTTPRequest(ruta, codigo string) {
	httpRequestsTotal.WithLabelValues(ruta, codigo).Inc()
}

func AddVentasRegistradas(n int) {
	ventasRegistradasTotal.Add(float64(n))
}

func AddGanadoresGenerados(n int64) {
	ganadoresGeneradosTotal.Add(float64(n))
}

// ObservePago registra el resultado de un intento de pago: pagado, ya_pagado, vencido, prohibido, no_encontrado o error.
func ObservePago(resultado string) {
	pagosTotal.WithLabelValues(resultado).Inc()
}

func ObserveCruceDuration(seconds float64) {
	cruceDuration.Observe(seconds)
}

func IncEventoProcesado(tipo string) {
	eventosProcesadosTotal.WithLabelValues(tipo).Inc()
}

func ObserveProcessingDuration(seconds float64) {
	eventoProcessingDuration.Observe(seconds)
}
