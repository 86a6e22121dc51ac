package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/ikonicity-airban/geek-creations-sub001/models"
)

// OrderEventProducer publishes order lifecycle events to a Kafka topic.
type OrderEventProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewOrderEventProducer creates a producer for the given brokers and topic.
func NewOrderEventProducer(brokers []string, topic string) *OrderEventProducer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &OrderEventProducer{writer: w, topic: topic}
}

// PublishOrderEvent marshals and sends one event, keyed by order ID so events
// for the same order stay ordered.
func (p *OrderEventProducer) PublishOrderEvent(event models.OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *OrderEventProducer) Close() error {
	return p.writer.Close()
}
