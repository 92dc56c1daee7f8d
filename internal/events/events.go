// Package events publishes booking lifecycle events for downstream notifiers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"homeclean_backend/pkg/utils"
)

// Event types.
const (
	TypeBookingCreated       = "booking.created"
	TypeBookingStatusChanged = "booking.status_changed"
)

// Event is one domain event. AggregateID is the booking id and doubles as the
// partition key so events of a booking stay ordered.
type Event struct {
	ID          string      `json:"event_id"`
	Type        string      `json:"event_type"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Payload     interface{} `json:"payload"`
}

// NewEvent stamps a fresh id and time on a payload.
func NewEvent(eventType, aggregateID string, payload interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// Publisher delivers events. Callers publish after their transaction commits
// and treat failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

const (
	defaultQueueSize    = 256
	defaultWriteTimeout = 5 * time.Second
)

// ErrPublisherBusy is returned when the outgoing queue is full or closed.
var ErrPublisherBusy = errors.New("event publisher cannot accept events")

// KafkaPublisher writes events to one topic per event type, named
// "<prefix>.<event type>". Publish only enqueues; a background loop writes
// each message under its own deadline.
type KafkaPublisher struct {
	writer       messageWriter
	topicPrefix  string
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan kafka.Message
	done   chan struct{}
}

// NewKafkaPublisher returns a NopPublisher when brokers is empty.
func NewKafkaPublisher(brokers []string, topicPrefix string) Publisher {
	if len(brokers) == 0 {
		utils.LogWarn("Event publishing disabled (no kafka brokers configured)")
		return NopPublisher{}
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: defaultWriteTimeout,
	})
	return newKafkaPublisher(writer, topicPrefix, defaultQueueSize, defaultWriteTimeout)
}

func newKafkaPublisher(w messageWriter, topicPrefix string, queueSize int, writeTimeout time.Duration) *KafkaPublisher {
	p := &KafkaPublisher{
		writer:       w,
		topicPrefix:  strings.Trim(topicPrefix, "."),
		writeTimeout: writeTimeout,
		queue:        make(chan kafka.Message, queueSize),
		done:         make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.writeTimeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			utils.LogError(err, "KafkaPublisher: failed to write event", map[string]interface{}{
				"topic": msg.Topic,
				"key":   string(msg.Key),
			})
		}
	}
}

func (p *KafkaPublisher) topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

// Publish encodes the event and queues it without waiting for the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.Type, err)
	}
	msg := kafka.Message{
		Topic: p.topic(event.Type),
		Key:   []byte(event.AggregateID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("%w: publishing %s event after close", ErrPublisherBusy, event.Type)
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return fmt.Errorf("%w: queue full, dropping %s event", ErrPublisherBusy, event.Type)
	}
}

// Close stops accepting events, flushes the queue and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.writer.Close()
}

// injectTraceHeaders appends W3C trace context headers for the consumer side.
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
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
