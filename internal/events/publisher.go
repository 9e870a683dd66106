// Package events publishes completed-transaction notifications.
// Publishing is fire-and-forget: a failed publish never fails the
// banking operation that produced it.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/pocketbank/pocketbank/internal/models"
)

const subjectTransactionsCompleted = "transactions.completed"

type Publisher interface {
	TransactionCompleted(ctx context.Context, event models.TransactionEvent) error
	Close()
}

// NATSPublisher publishes events to a NATS subject.
type NATSPublisher struct {
	nc *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) TransactionCompleted(_ context.Context, event models.TransactionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.nc.Publish(subjectTransactionsCompleted, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	p.nc.Drain()
}

// Nop discards events. Used when NATS_URL is unset and in tests.
type Nop struct{}

func (Nop) TransactionCompleted(context.Context, models.TransactionEvent) error { return nil }
func (Nop) Close()                                                              {}
