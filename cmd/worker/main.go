// Worker asincrono que consume eventos de dominio y mantiene los contadores en vivo por rifa.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcelojr/rifaparatodos/internal/app/worker"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/clock"
	"github.com/marcelojr/rifaparatodos/internal/platform/config"
	"github.com/marcelojr/rifaparatodos/internal/platform/eventos"
	"github.com/marcelojr/rifaparatodos/internal/platform/health"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
	redisstorage "github.com/marcelojr/rifaparatodos/internal/platform/storage/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuracion invalida", "err", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	// Los contadores viven en redis aunque los eventos lleguen por kafka.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("fallo al conectar con redis", "err", err)
	}
	defer redisClient.Close()

	var fila domain.Fila = redisstorage.NewFila(redisClient, cfg.FilaEventos)
	if cfg.EventosBackend == config.EventosKafka {
		kafkaFila := eventos.NewKafkaFila(cfg.KafkaBrokers, cfg.KafkaTopico, cfg.KafkaGrupo)
		defer kafkaFila.Close()
		fila = kafkaFila
	}

	contador := redisstorage.NewContador(redisClient, cfg.ContadorKeyPrefix)
	checker := health.NewChecker(nil, redisClient)

	if cfg.WorkerMetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/readyz", checker.ReadyHandler())
			logger.Info("metrics del worker escuchando", "addr", cfg.WorkerMetricsAddress)
			if err := http.ListenAndServe(cfg.WorkerMetricsAddress, mux); err != nil {
				logger.Error("error en el servidor de metrics del worker", "err", err)
			}
		}()
	}

	procesador := worker.NewEventoProcesador(contador, clock.NewSystemClock())

	logger.Info("worker iniciado, esperando eventos", "backend", cfg.EventosBackend)
	err = fila.Consumir(ctx, func(ctx context.Context, evento domain.Evento) error {
		// Un evento que falla no debe frenar la fila; los contadores se reconstruyen desde postgres.
		if err := procesador.Procesar(ctx, evento); err != nil {
			logger.Error("error al procesar evento", "tipo", evento.Tipo, "rifa", evento.RifaID, "err", err)
		}
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("worker finalizado con error", "err", err)
	}

	logger.Info("worker finalizado")
}
