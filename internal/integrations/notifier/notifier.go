// Package notifier публикация уведомлений о бронированиях во внешние каналы
// Доставка e-mail/SMS выполняется подписчиками очереди, здесь только публикация события
package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrPublish возвращается, когда брокер не принял сообщение
	ErrPublish = errors.New("notifier: publish failed")

	// ErrEncode возвращается, когда сообщение не сериализуется
	ErrEncode = errors.New("notifier: encode failed")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Message событие уведомления в том виде, в каком оно уходит в брокер
type Message struct {
	ID         string            `json:"id"`
	Template   string            `json:"template"`
	Recipient  string            `json:"recipient"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

func newMessage(recipient, template string, data map[string]string) Message {
	return Message{
		ID:         uuid.NewString(),
		Template:   template,
		Recipient:  recipient,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (m Message) encode() ([]byte, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEncode, m.Template, err)
	}
	return body, nil
}

// LogNotifier пишет уведомления в лог (локальный запуск без брокера)
type LogNotifier struct {
	logger Logger
}

// NewLogNotifier создает notifier, который только логирует
func NewLogNotifier(logger Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, recipient, template string, data map[string]string) error {
	n.logger.Info("Notify: template=%s recipient=%s data=%v", template, recipient, data)
	return nil
}

func (n *LogNotifier) Close() error {
	return nil
}
