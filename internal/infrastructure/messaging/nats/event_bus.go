// Package nats implements the event bus on NATS JetStream. Each topic
// maps to one stream; messages carry the domain event id as the
// Nats-Msg-Id header so the broker drops duplicate publishes inside its
// dedup window.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/finbridge/walletcore/internal/application/ports"
)

var _ ports.EventBus = (*EventBus)(nil)

// Config holds the broker connection settings.
type Config struct {
	URL             string
	MaxReconnects   int
	ReconnectWait   time.Duration
	AckWait         time.Duration
	MaxDeliver      int
	DuplicateWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		URL:             nats.DefaultURL,
		MaxReconnects:   -1,
		ReconnectWait:   2 * time.Second,
		AckWait:         30 * time.Second,
		MaxDeliver:      5,
		DuplicateWindow: 2 * time.Minute,
	}
}

// EventBus publishes and consumes JetStream messages. Subjects are
// "<topic>.<partition key>"; a durable queue consumer per (topic, group)
// spreads messages across instances while keeping per-subject order.
type EventBus struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	config Config
	logger *slog.Logger

	subs []*nats.Subscription
}

func NewEventBus(config Config, logger *slog.Logger) (*EventBus, error) {
	conn, err := nats.Connect(config.URL,
		nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(config.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open jetstream context: %w", err)
	}

	return &EventBus{conn: conn, js: js, config: config, logger: logger}, nil
}

// EnsureStream creates the stream for a topic if it does not exist yet.
// Idempotent; called once per topic at startup.
func (b *EventBus) EnsureStream(topic string) error {
	name := streamName(topic)

	_, err := b.js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if err != nats.ErrStreamNotFound {
		return fmt.Errorf("failed to look up stream %s: %w", name, err)
	}

	_, err = b.js.AddStream(&nats.StreamConfig{
		Name:       name,
		Subjects:   []string{topic + ".>"},
		Retention:  nats.LimitsPolicy,
		Storage:    nats.FileStorage,
		Duplicates: b.config.DuplicateWindow,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", name, err)
	}

	b.logger.Info("created stream", "stream", name, "topic", topic)
	return nil
}

// Publish ships a payload to "<topic>.<key>" with msgID as the
// JetStream dedup id.
func (b *EventBus) Publish(ctx context.Context, topic, key, msgID string, payload []byte) error {
	msg := nats.NewMsg(subjectFor(topic, key))
	msg.Data = payload
	msg.Header.Set(nats.MsgIdHdr, msgID)

	if _, err := b.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers a durable queue consumer. The handler gets the
// topic and raw payload; a handler error naks the message for
// redelivery, success acks it.
func (b *EventBus) Subscribe(topic, group string, handler ports.MessageHandler) error {
	if err := b.EnsureStream(topic); err != nil {
		return err
	}

	sub, err := b.js.QueueSubscribe(topic+".>", group, func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(context.Background(), b.config.AckWait)
		defer cancel()

		if err := handler(ctx, topic, msg.Data); err != nil {
			b.logger.Error("message handler failed",
				"topic", topic, "group", group, "subject", msg.Subject, "error", err)
			if nakErr := msg.Nak(); nakErr != nil {
				b.logger.Error("failed to nak message", "subject", msg.Subject, "error", nakErr)
			}
			return
		}
		if err := msg.Ack(); err != nil {
			b.logger.Error("failed to ack message", "subject", msg.Subject, "error", err)
		}
	},
		nats.Durable(durableName(topic, group)),
		nats.ManualAck(),
		nats.AckWait(b.config.AckWait),
		nats.MaxDeliver(b.config.MaxDeliver),
		nats.DeliverAll(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	b.subs = append(b.subs, sub)
	b.logger.Info("subscribed", "topic", topic, "group", group)
	return nil
}

// Connected reports whether the broker connection is up. Used by the
// readiness probe.
func (b *EventBus) Connected() bool {
	return b.conn.IsConnected()
}

// Close drains the connection so in-flight handlers finish before the
// process exits.
func (b *EventBus) Close() error {
	for _, sub := range b.subs {
		if err := sub.Drain(); err != nil {
			b.logger.Warn("failed to drain subscription", "subject", sub.Subject, "error", err)
		}
	}
	if err := b.conn.Drain(); err != nil {
		return fmt.Errorf("failed to drain nats connection: %w", err)
	}
	return nil
}

func subjectFor(topic, key string) string {
	// Dots in the key would create unintended subject hierarchy.
	return topic + "." + strings.ReplaceAll(key, ".", "_")
}

func streamName(topic string) string {
	return strings.ToUpper(strings.ReplaceAll(topic, "-", "_"))
}

func durableName(topic, group string) string {
	return strings.ReplaceAll(topic+"-"+group, ".", "-")
}
