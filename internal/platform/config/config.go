// Paquete config centraliza la lectura de variables de entorno usadas por los binarios.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PoliticaTodoONada = "todo_o_nada"
	PoliticaParcial   = "parcial"

	EventosRedis = "redis"
	EventosKafka = "kafka"
)

// Config agrupa los parametros de la API y del worker.
type Config struct {
	HTTPAddress string
	LogLevel    string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EventosBackend    string
	FilaEventos       string
	ContadorKeyPrefix string
	KafkaBrokers      []string
	KafkaTopico       string
	KafkaGrupo        string

	RateLimitEnabled       bool
	RateLimitMaxActions    int
	RateLimitWindowSeconds int
	RateLimitKeyPrefix     string

	JWTSecret string
	SesionTTL time.Duration

	PoliticaLote string

	AutoMigrate bool

	WorkerMetricsAddress string
}

func Load() (Config, error) {
	// El archivo .env es opcional; las variables ya presentes en el entorno tienen prioridad.
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddress:            getEnv("HTTP_ADDRESS", ":8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		PostgresHost:           getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:           getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:           getEnv("POSTGRES_USER", "rifas"),
		PostgresPassword:       getEnv("POSTGRES_PASSWORD", "rifas"),
		PostgresDB:             getEnv("POSTGRES_DB", "rifaparatodos"),
		PostgresSSLMode:        getEnv("POSTGRES_SSLMODE", "disable"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		EventosBackend:         getEnv("EVENTOS_BACKEND", EventosRedis),
		FilaEventos:            getEnv("EVENTOS_FILA", "fila:eventos"),
		ContadorKeyPrefix:      getEnv("CONTADOR_PREFIX", "contador"),
		KafkaBrokers:           splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopico:            getEnv("KAFKA_TOPICO", "rifas.eventos"),
		KafkaGrupo:             getEnv("KAFKA_GRUPO", "rifas-worker"),
		RateLimitEnabled:       getEnvAsBool("ANTIFRAUDE_RATE_LIMIT_ENABLED", true),
		RateLimitMaxActions:    getEnvAsInt("ANTIFRAUDE_RATE_LIMIT_MAX", 60),
		RateLimitWindowSeconds: getEnvAsInt("ANTIFRAUDE_RATE_LIMIT_WINDOW", 60),
		RateLimitKeyPrefix:     getEnv("ANTIFRAUDE_RATE_LIMIT_PREFIX", "ratelimit"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		SesionTTL:              time.Duration(getEnvAsInt("SESION_TTL_MINUTOS", 480)) * time.Minute,
		PoliticaLote:           getEnv("PAGOS_POLITICA_LOTE", PoliticaTodoONada),
		AutoMigrate:            getEnvAsBool("DB_AUTO_MIGRATE", true),
		WorkerMetricsAddress:   getEnv("WORKER_METRICS_ADDRESS", ":9090"),
	}

	dbStr := getEnv("REDIS_DB", "0")
	dbInt, err := strconv.Atoi(dbStr)
	if err != nil {
		return Config{}, fmt.Errorf("config: REDIS_DB invalido: %w", err)
	}
	cfg.RedisDB = dbInt

	if err := cfg.validar(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validar() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET obligatorio")
	}
	switch c.PoliticaLote {
	case PoliticaTodoONada, PoliticaParcial:
	default:
		return fmt.Errorf("config: PAGOS_POLITICA_LOTE desconocida %q", c.PoliticaLote)
	}
	switch c.EventosBackend {
	case EventosRedis:
	case EventosKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("config: KAFKA_BROKERS obligatorio con EVENTOS_BACKEND=kafka")
		}
	default:
		return fmt.Errorf("config: EVENTOS_BACKEND desconocido %q", c.EventosBackend)
	}
	return nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
		c.PostgresSSLMode,
	)
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvAsBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch value {
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return true
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
