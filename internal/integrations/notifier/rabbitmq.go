package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-BookingOps/pkg/tracing"
)

// Channel часть amqp.Channel, которая нужна notifier
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// DialFunc открывает канал к брокеру и возвращает функцию закрытия соединения
type DialFunc func() (Channel, func() error, error)

// DialURL открывает соединение AMQP по url
func DialURL(url string) DialFunc {
	return func() (Channel, func() error, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, nil, err
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return ch, conn.Close, nil
	}
}

// RabbitNotifier публикует уведомления в durable-очередь RabbitMQ
// Канал открывается лениво и переоткрывается после ошибки публикации
type RabbitNotifier struct {
	dial    DialFunc
	queue   string
	timeout time.Duration
	logger  Logger

	mu        sync.Mutex
	ch        Channel
	closeConn func() error
}

// NewRabbitNotifier создает notifier для очереди queue
func NewRabbitNotifier(dial DialFunc, queue string, timeout time.Duration, logger Logger) *RabbitNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RabbitNotifier{dial: dial, queue: queue, timeout: timeout, logger: logger}
}

func (n *RabbitNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) error {
	m := newMessage(recipient, template, data)
	body, err := m.encode()
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ch, err := n.channel()
	if err != nil {
		n.logger.Error("RabbitNotifier: channel open failed: %v", err)
		return fmt.Errorf("%w: rabbitmq %s: %v", ErrPublish, template, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    m.ID,
		Type:         template,
		Timestamp:    m.OccurredAt,
		Headers:      traceTable(ctx),
		Body:         body,
	}

	if err := ch.PublishWithContext(pubCtx, "", n.queue, false, false, pub); err != nil {
		n.logger.Error("RabbitNotifier: failed to publish %s for %s: %v", template, recipient, err)
		n.reset()
		return fmt.Errorf("%w: rabbitmq %s: %v", ErrPublish, template, err)
	}
	return nil
}

func (n *RabbitNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset()
	return nil
}

// channel возвращает открытый канал, вызывается под mu
func (n *RabbitNotifier) channel() (Channel, error) {
	if n.ch != nil {
		return n.ch, nil
	}

	ch, closeConn, err := n.dial()
	if err != nil {
		return nil, err
	}

	if _, err := ch.QueueDeclare(n.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		if closeConn != nil {
			_ = closeConn()
		}
		return nil, err
	}

	n.ch, n.closeConn = ch, closeConn
	return ch, nil
}

// reset закрывает канал и соединение, вызывается под mu
func (n *RabbitNotifier) reset() {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.closeConn != nil {
		_ = n.closeConn()
	}
	n.ch, n.closeConn = nil, nil
}

func traceTable(ctx context.Context) amqp.Table {
	headers := make(amqp.Table)
	for k, v := range tracing.HeaderMap(ctx) {
		headers[k] = v
	}
	return headers
}
