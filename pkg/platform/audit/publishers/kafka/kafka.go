// Package kafka forwards audit events to a Kafka topic. Used as a publisher
// sink; the primary store stays the source of truth, so produce failures are
// surfaced to the publisher and logged there.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "shipcertify/pkg/platform/audit"
)

type Sink struct {
	client *kgo.Client
	topic  string
}

// New connects to the given brokers and targets topic for all events.
func New(brokers []string, topic string) (*Sink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProduceRequestTimeout(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &Sink{client: client, topic: topic}, nil
}

// payload is the wire shape published to Kafka. Field names are part of the
// consumer contract; keep them stable.
type payload struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Timestamp    string `json:"timestamp"`
	Actor        string `json:"actor"`
	Organization string `json:"organization,omitempty"`
	Action       string `json:"action"`
	Subject      string `json:"subject,omitempty"`
	Kind         string `json:"kind,omitempty"`
	RequestID    string `json:"requestId,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

func (s *Sink) Emit(ctx context.Context, event audit.Event) error {
	value, err := json.Marshal(payload{
		ID:           event.ID,
		Category:     string(event.Category),
		Timestamp:    event.Timestamp.Format(time.RFC3339Nano),
		Actor:        event.Actor,
		Organization: event.Organization,
		Action:       event.Action,
		Subject:      event.Subject,
		Kind:         event.Kind,
		RequestID:    event.RequestID,
		Detail:       event.Detail,
	})
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		// Key by subject so all events for one record land in one partition.
		Key:   []byte(event.Subject),
		Value: value,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *Sink) Close() {
	s.client.Close()
}
