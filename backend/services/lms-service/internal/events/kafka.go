package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer   messageWriter
	log      *zap.SugaredLogger
	attempts int
	backoff  time.Duration
}

// NewKafkaPublisher writes every event to topic, partitioned by event key.
func NewKafkaPublisher(brokers []string, topic string, log *zap.SugaredLogger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &KafkaPublisher{writer: w, log: log, attempts: 3, backoff: 500 * time.Millisecond}
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{
		Key:     []byte(ev.Key),
		Value:   data,
		Headers: []kafka.Header{{Key: "type", Value: []byte(ev.Type)}},
	}

	var lastErr error
	for i := 0; i < p.attempts; i++ {
		if lastErr = p.writer.WriteMessages(ctx, msg); lastErr == nil {
			return nil
		}
		p.log.Warnw("kafka publish attempt failed", "attempt", i+1, "type", ev.Type, "error", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff):
		}
	}
	return fmt.Errorf("publish %s after %d attempts: %w", ev.Type, p.attempts, lastErr)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
