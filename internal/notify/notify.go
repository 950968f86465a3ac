// Package notify publishes order confirmations. The checkout flow
// treats delivery as best-effort: a downstream mailer consumes the
// topic, and publication failures are logged by the caller, never
// surfaced to the purchaser.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront-api/internal/domain"
)

// OrderNotification is the payload handed to the mailer: enough to
// render a confirmation in the purchaser's language plus the internal
// operations copy.
type OrderNotification struct {
	OrderID    string            `json:"order_id"`
	UserEmail  string            `json:"user_email"`
	UserName   string            `json:"user_name"`
	Items      []domain.LineItem `json:"order_items"`
	TotalCents int64             `json:"total_cents"`
	Language   string            `json:"language"` // "th" or "en"
	SentAt     time.Time         `json:"sent_at"`
}

type Kafka struct {
	writer *kafka.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Send publishes one notification keyed by order id. A bounded timeout
// keeps a slow broker from stalling checkout completion.
func (k *Kafka) Send(ctx context.Context, n OrderNotification) error {
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	value, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.OrderID),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Noop discards notifications; used in tests and broker-less setups.
type Noop struct{}

func (Noop) Send(context.Context, OrderNotification) error { return nil }
