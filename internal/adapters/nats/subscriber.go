package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/worldreports/internal/core/domain"
	"github.com/samirrijal/worldreports/internal/core/ports"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	durable string
	subs    []*nats.Subscription
}

var _ ports.EventSubscriber = (*Subscriber)(nil)

// NewSubscriber creates a subscriber with its own connection. durable names
// the consumer; an empty name gives an ephemeral one.
func NewSubscriber(url, durable string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js, durable: durable}, nil
}

// SubscribeReportEvents delivers every new report event to handler. A
// message is acked when handler succeeds and redelivered up to three times
// otherwise; malformed payloads are terminated.
func (s *Subscriber) SubscribeReportEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ReportEvent) error) error {
	opts := []nats.SubOpt{
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.DeliverNew(),
	}
	if s.durable != "" {
		opts = append(opts, nats.Durable(s.durable))
	}

	sub, err := s.js.Subscribe(SubjectAll, func(msg *nats.Msg) {
		settle(ctx, msg, handler)
	}, opts...)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}

// delivery is the part of a JetStream message the handler loop needs.
type delivery interface {
	Ack(opts ...nats.AckOpt) error
	Nak(opts ...nats.AckOpt) error
	Term(opts ...nats.AckOpt) error
}

// settle decodes one delivery, runs handler and acks, naks or terminates it.
func settle(ctx context.Context, msg *nats.Msg, handler func(ctx context.Context, event *domain.ReportEvent) error) {
	dispatch(ctx, msg, msg.Subject, msg.Data, handler)
}

func dispatch(ctx context.Context, d delivery, subject string, data []byte, handler func(ctx context.Context, event *domain.ReportEvent) error) {
	var event domain.ReportEvent
	if err := json.Unmarshal(data, &event); err != nil {
		slog.Warn("dropping malformed report event", "subject", subject, "error", err)
		_ = d.Term()
		return
	}
	if err := handler(ctx, &event); err != nil {
		slog.Debug("report event handler failed", "subject", subject, "id", event.ID, "error", err)
		_ = d.Nak()
		return
	}
	_ = d.Ack()
}
