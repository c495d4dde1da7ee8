package events

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	TopicMessageSent             = "chat.message_sent"
	TopicConversationCreated     = "chat.conversation_created"
	TopicEnrollmentStatusChanged = "enrollment.status_changed"
)

// Event is the envelope published for every domain change. Key groups events
// that must stay ordered, e.g. all messages of one conversation.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

type noop struct{}

// Noop discards every event.
func Noop() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) error { return nil }
func (noop) Close() error                         { return nil }

type observed struct {
	next   Publisher
	failed *prometheus.CounterVec
	log    *zap.SugaredLogger
}

// Observed counts and logs publish failures of next.
func Observed(next Publisher, failed *prometheus.CounterVec, log *zap.SugaredLogger) Publisher {
	return &observed{next: next, failed: failed, log: log}
}

func (o *observed) Publish(ctx context.Context, ev Event) error {
	err := o.next.Publish(ctx, ev)
	if err != nil {
		if o.failed != nil {
			o.failed.WithLabelValues(ev.Type).Inc()
		}
		if o.log != nil {
			o.log.Warnw("event publish failed", "type", ev.Type, "key", ev.Key, "error", err)
		}
	}
	return err
}

func (o *observed) Close() error { return o.next.Close() }
