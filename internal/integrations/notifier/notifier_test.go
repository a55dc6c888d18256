package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-BookingOps/internal/domain"
	"github.com/m04kA/SMC-BookingOps/pkg/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestKafkaNotifier_Notify(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	w := &fakeWriter{}
	n := NewKafkaNotifier(w, time.Second, logger.Nop())

	err := n.Notify(ctx, "c1", domain.NotifyBookingConfirmed, map[string]string{"bookingId": "b1"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "c1", string(msg.Key))

	carrier := &headerCarrier{headers: msg.Headers}
	assert.Equal(t, domain.NotifyBookingConfirmed, carrier.Get("event_type"))
	assert.Contains(t, carrier.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")

	var body Message
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "b1", body.Data["bookingId"])
	assert.Equal(t, carrier.Get("event_id"), body.ID)
}

func TestKafkaNotifier_PublishError(t *testing.T) {
	n := NewKafkaNotifier(&fakeWriter{err: errors.New("broker down")}, time.Second, logger.Nop())

	err := n.Notify(context.Background(), "c1", domain.NotifyBookingRejected, nil)
	assert.ErrorIs(t, err, ErrPublish)
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	c := &headerCarrier{}
	c.Set("a", "1")
	c.Set("a", "2")
	c.Set("b", "3")

	assert.Equal(t, "2", c.Get("a"))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}

type fakeChannel struct {
	declared  []string
	published []amqp.Publishing
	keys      []string
	failNext  bool
	closed    bool
}

func (c *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c.declared = append(c.declared, name)
	return amqp.Queue{Name: name}, nil
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if c.failNext {
		c.failNext = false
		return errors.New("channel closed")
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestRabbitNotifier_ReconnectsAfterFailure(t *testing.T) {
	var channels []*fakeChannel
	dial := func() (Channel, func() error, error) {
		ch := &fakeChannel{}
		if len(channels) == 0 {
			ch.failNext = true
		}
		channels = append(channels, ch)
		return ch, func() error { return nil }, nil
	}

	n := NewRabbitNotifier(dial, "booking.notifications", time.Second, logger.Nop())

	err := n.Notify(context.Background(), "c1", domain.NotifyBookingCancelled, nil)
	assert.ErrorIs(t, err, ErrPublish)
	require.Len(t, channels, 1)
	assert.True(t, channels[0].closed)

	err = n.Notify(context.Background(), "c1", domain.NotifyBookingCancelled, map[string]string{"bookingId": "b1"})
	require.NoError(t, err)
	require.Len(t, channels, 2)

	ch := channels[1]
	assert.Equal(t, []string{"booking.notifications"}, ch.declared)
	require.Len(t, ch.published, 1)
	assert.Equal(t, "booking.notifications", ch.keys[0])
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)
	assert.Equal(t, domain.NotifyBookingCancelled, ch.published[0].Type)

	require.NoError(t, n.Close())
	assert.True(t, ch.closed)
}

func TestRabbitNotifier_DialError(t *testing.T) {
	dial := func() (Channel, func() error, error) {
		return nil, nil, errors.New("connection refused")
	}
	n := NewRabbitNotifier(dial, "q", time.Second, logger.Nop())

	err := n.Notify(context.Background(), "c1", domain.NotifyBookingReceived, nil)
	assert.ErrorIs(t, err, ErrPublish)
}
