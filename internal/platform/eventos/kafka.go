// Paquete eventos publica y consume eventos de dominio sobre Kafka.
package eventos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/marcelojr/rifaparatodos/internal/domain"
	"github.com/marcelojr/rifaparatodos/internal/platform/logger"
)

// KafkaFila escribe un mensaje por evento con la rifa como clave, asi los eventos de una rifa
// caen en la misma particion y conservan el orden.
type KafkaFila struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaFila(brokers []string, topico, grupo string) *KafkaFila {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topico,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	var reader *kafka.Reader
	if grupo != "" {
		reader = kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topico,
			GroupID:  grupo,
			MinBytes: 1,
			MaxBytes: 10e6,
		})
	}
	return &KafkaFila{writer: writer, reader: reader}
}

func (k *KafkaFila) Publicar(ctx context.Context, evento domain.Evento) error {
	msg, err := codificar(evento)
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: fallo al publicar evento: %w", err)
	}
	return nil
}

// Consumir confirma el offset solo despues de que handler termina sin error.
func (k *KafkaFila) Consumir(ctx context.Context, handler func(context.Context, domain.Evento) error) error {
	if k.reader == nil {
		return fmt.Errorf("kafka: consumidor sin grupo configurado")
	}
	for {
		msg, err := k.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return fmt.Errorf("kafka: fallo al leer mensaje: %w", err)
		}

		evento, err := decodificar(msg)
		if err != nil {
			// Un mensaje corrupto no debe frenar la particion.
			logger.Warn("kafka: mensaje descartado", "offset", msg.Offset, "error", err)
			if err := k.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("kafka: fallo al confirmar offset: %w", err)
			}
			continue
		}

		if err := handler(ctx, evento); err != nil {
			return err
		}
		if err := k.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("kafka: fallo al confirmar offset: %w", err)
		}
	}
}

func (k *KafkaFila) Close() error {
	var errs []error
	if err := k.writer.Close(); err != nil {
		errs = append(errs, err)
	}
	if k.reader != nil {
		if err := k.reader.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func codificar(evento domain.Evento) (kafka.Message, error) {
	payload, err := json.Marshal(evento)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: fallo serializando evento: %w", err)
	}
	return kafka.Message{
		Key:   []byte(evento.RifaID),
		Value: payload,
		Time:  evento.OcurridoEn,
		Headers: []kafka.Header{
			{Key: "tipo", Value: []byte(evento.Tipo)},
		},
	}, nil
}

func decodificar(msg kafka.Message) (domain.Evento, error) {
	var evento domain.Evento
	if err := json.Unmarshal(msg.Value, &evento); err != nil {
		return domain.Evento{}, fmt.Errorf("kafka: payload invalido: %w", err)
	}
	if evento.Tipo == "" {
		return domain.Evento{}, fmt.Errorf("kafka: evento sin tipo")
	}
	return evento, nil
}

var _ domain.Fila = (*KafkaFila)(nil)
