package publish

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	AppointmentSaved   = "appointment.saved"
	AppointmentDeleted = "appointment.deleted"
	TransactionCreated = "transaction.created"
)

// Event is a booking change announced to other systems. The Kafka topic is the
// configured prefix followed by Type.
type Event struct {
	Type       string
	Key        string
	Payload    any
	OccurredAt time.Time
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, ...Event) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer      messageWriter
	topicPrefix string
}

func NewKafkaPublisher(brokers []string, topicPrefix string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			WriteTimeout:           5 * time.Second,
		},
		topicPrefix: topicPrefix,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		msg, err := toMessage(ctx, p.topicPrefix, ev)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(ctx context.Context, topicPrefix string, ev Event) (kafka.Message, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return kafka.Message{}, err
	}
	eventID, err := uuid.NewV7()
	if err != nil {
		return kafka.Message{}, err
	}
	occurredAt := ev.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	msg := kafka.Message{
		Topic: topicPrefix + ev.Type,
		Key:   []byte(ev.Key),
		Value: payload,
		Time:  occurredAt.UTC(),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(eventID.String())},
			{Key: "event_type", Value: []byte(ev.Type)},
		},
	}
	carrier := &headerCarrier{headers: msg.Headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	msg.Headers = carrier.headers
	return msg, nil
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
