package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/SMC-BookingOps/pkg/tracing"
)

// MessageWriter часть kafka.Writer, которая нужна notifier
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier публикует уведомления в топик Kafka
// Ключ сообщения - получатель, чтобы уведомления одного клиента шли в одну партицию
type KafkaNotifier struct {
	writer  MessageWriter
	timeout time.Duration
	logger  Logger
}

// NewKafkaWriter создает writer для топика
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaNotifier создает notifier поверх writer
func NewKafkaNotifier(writer MessageWriter, timeout time.Duration, logger Logger) *KafkaNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaNotifier{writer: writer, timeout: timeout, logger: logger}
}

func (n *KafkaNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) error {
	m := newMessage(recipient, template, data)
	body, err := m.encode()
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(recipient),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(m.ID)},
			{Key: "event_type", Value: []byte(template)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)

	writeCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.writer.WriteMessages(writeCtx, msg); err != nil {
		n.logger.Error("KafkaNotifier: failed to publish %s for %s: %v", template, recipient, err)
		return fmt.Errorf("%w: kafka %s: %v", ErrPublish, template, err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// injectTraceHeaders дописывает traceparent/tracestate в заголовки сообщения
func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	tracing.Inject(ctx, carrier)
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
