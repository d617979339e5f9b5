// Ejecutable principal de la API: carga la configuracion, inicializa dependencias y levanta el servidor HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/marcelojr/rifaparatodos/internal/app/catalogo"
	"github.com/marcelojr/rifaparatodos/internal/app/httpapi"
	"github.com/marcelojr/rifaparatodos/internal/app/pagos"
	"github.com/marcelojr/rifaparatodos/internal/app/reportes"
	"github.com/marcelojr/rifaparatodos/internal/app/saldos"
	"github.com/marcelojr/rifaparatodos/internal/app/sorteo"
	"github.com/marcelojr/rifaparatodos/internal/app/ventas"
	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/antifraude"
	"github.com/marcelojr/rifaparatodos/internal/platform/auth"
	"github.com/marcelojr/rifaparatodos/internal/platform/clock"
	"github.com/marcelojr/rifaparatodos/internal/platform/config"
	"github.com/marcelojr/rifaparatodos/internal/platform/eventos"
	"github.com/marcelojr/rifaparatodos/internal/platform/health"
	"github.com/marcelojr/rifaparatodos/internal/platform/ids"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
	"github.com/marcelojr/rifaparatodos/internal/platform/migrations"
	postgresstorage "github.com/marcelojr/rifaparatodos/internal/platform/storage/postgres"
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

	db, err := postgresstorage.Open(ctx, cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("fallo al conectar con postgres", "err", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("fallo al obtener sql.DB", "err", err)
	}
	defer sqlDB.Close()

	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Fatal("fallo en la migracion automatica", "err", err)
		}
	}

	// Redis guarda contadores en vivo y el rate limit; sin el los reportes en vivo quedan ciegos.
	redisClient, err := redisstorage.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("fallo al conectar con redis", "err", err)
	}
	defer redisClient.Close()

	checker := health.NewChecker(sqlDB, redisClient)
	fila, cerrarFila := abrirFila(cfg, redisClient, checker)
	defer cerrarFila()

	store := postgresstorage.NewStore(db)
	contador := redisstorage.NewContador(redisClient, cfg.ContadorKeyPrefix)
	reloj := clock.NewSystemClock()
	idGen := ids.NewGenerator()

	var antifraudeSvc domain.Antifraude = antifraude.NewNoop()
	if cfg.RateLimitEnabled {
		window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
		antifraudeSvc = antifraude.NewRedisRateLimiter(redisClient, cfg.RateLimitMaxActions, window, cfg.RateLimitKeyPrefix)
	}

	libro := saldos.NewLibro(reloj, idGen)
	servicios := httpapi.Servicios{
		Catalogo: catalogo.NewService(store, idGen),
		Ventas:   ventas.NewService(store, fila, antifraudeSvc, reloj, idGen),
		Sorteo:   sorteo.NewService(store, fila, reloj, idGen),
		Pagos:    pagos.NewService(store, libro, fila, antifraudeSvc, reloj, cfg.PoliticaLote),
		Saldos:   saldos.NewService(store, libro, antifraudeSvc),
		Reportes: reportes.NewService(store.Reportes(), store.Rifas(), contador),
	}

	emisor := auth.NewEmisor(cfg.JWTSecret, cfg.SesionTTL, reloj)
	router := httpapi.New(servicios, emisor, auth.MatrizPorDefecto(), logger.L()).Routes()
	router.Get("/readyz", checker.ReadyHandler())
	router.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("fallo al detener el servidor", "err", err)
		}
	}()

	logger.Info("api escuchando", "addr", cfg.HTTPAddress, "politica_lote", cfg.PoliticaLote, "eventos", cfg.EventosBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("error en el servidor", "err", err)
	}
	logger.Info("api detenida")
}

// abrirFila elige el transporte de eventos. La API solo publica, por eso Kafka va sin grupo de consumo.
func abrirFila(cfg config.Config, redisClient *redis.Client, checker *health.Checker) (domain.Fila, func()) {
	if cfg.EventosBackend == config.EventosKafka {
		kafkaFila := eventos.NewKafkaFila(cfg.KafkaBrokers, cfg.KafkaTopico, "")
		checker.Con("kafka", func(ctx context.Context) error {
			conn, err := kafka.DialContext(ctx, "tcp", cfg.KafkaBrokers[0])
			if err != nil {
				return err
			}
			return conn.Close()
		})
		return kafkaFila, func() {
			if err := kafkaFila.Close(); err != nil {
				logger.Warn("fallo al cerrar kafka", "err", err)
			}
		}
	}
	return redisstorage.NewFila(redisClient, cfg.FilaEventos), func() {}
}
