package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Envelope wraps a domain event on the wire. Type tells consumers how to
// decode Data.
type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer}
}

// Publish wraps the event in an Envelope and writes it keyed, so all
// events for one key stay in partition order.
func (p *Producer) Publish(ctx context.Context, key, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	envelope := Envelope{
		ID:        uuid.New().String(),
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now(),
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  envelope.Timestamp,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
