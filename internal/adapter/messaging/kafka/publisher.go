// Package kafka publishes committed ledger effects for downstream consumers
// (notifications, receipts, analytics).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter builds a synchronous writer; Dispatch returns only after the
// leader acknowledged the batch.
func NewWriter(cfg config.KafkaConfig, log zerolog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Error().Str("component", "kafka").Msgf(msg, args...)
		}),
	}
}

// Publisher implements ports.EffectDispatcher over Kafka. Messages are keyed
// by wallet so one wallet's effects stay ordered within a partition.
type Publisher struct {
	writer MessageWriter
	log    zerolog.Logger
}

func NewPublisher(writer MessageWriter, log zerolog.Logger) *Publisher {
	return &Publisher{writer: writer, log: log}
}

func (p *Publisher) Dispatch(ctx context.Context, effects []domain.Effect) error {
	if len(effects) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(effects))
	for _, e := range effects {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode effect %s: %w", e.Type, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(e.WalletID.String()),
			Value: value,
			Time:  e.OccurredAt,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(e.Type)},
				{Key: "reference", Value: []byte(e.Reference)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish effects: %w", err)
	}

	p.log.Debug().Int("count", len(msgs)).Msg("effects published")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// LogDispatcher is used when no brokers are configured.
type LogDispatcher struct {
	log zerolog.Logger
}

func NewLogDispatcher(log zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, effects []domain.Effect) error {
	for _, e := range effects {
		d.log.Info().
			Str("type", string(e.Type)).
			Str("reference", e.Reference).
			Str("wallet_id", e.WalletID.String()).
			Str("currency", string(e.Currency)).
			Str("amount", e.Amount.String()).
			Msg("effect")
	}
	return nil
}
