package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
}

func NewNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("lms-service"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc, prefix: subjectPrefix}, nil
}

func (p *NATSPublisher) subject(ev Event) string {
	if p.prefix == "" {
		return ev.Type
	}
	return p.prefix + "." + ev.Type
}

func (p *NATSPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := nats.NewMsg(p.subject(ev))
	msg.Data = b
	msg.Header.Set("type", ev.Type)
	return p.nc.PublishMsg(msg)
}

// Close flushes pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
