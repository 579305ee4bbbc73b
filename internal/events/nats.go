package events

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
}

type NatsPublisher struct {
	conn   Conn
	prefix string
}

func NewNatsPublisher(conn Conn, prefix string) *NatsPublisher {
	if prefix == "" {
		prefix = "feed"
	}
	return &NatsPublisher{conn: conn, prefix: prefix}
}

func (p *NatsPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

func (p *NatsPublisher) Publish(ctx context.Context, ev Event) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", ev.Type, err)
	}
	msg := &nats.Msg{
		Subject: p.Subject(ev.Type),
		Data:    data,
		Header:  nats.Header{},
	}
	// 透传 trace 上下文
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return p.conn.PublishMsg(msg)
}
