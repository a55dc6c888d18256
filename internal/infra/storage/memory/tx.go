package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// undoLog обратные операции изменений, сделанных внутри транзакции
type undoLog struct {
	mu      sync.Mutex
	entries []func()
}

func (l *undoLog) add(undo func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, undo)
}

// Do выполняет fn как транзакцию: при ошибке или панике изменения хранилища откатываются
// Изоляции нет, конкурентные изменения одних и тех же записей разводятся блокировками сервисов
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable то же, что Do
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly то же, что Do
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов работает в транзакции внешнего
	if _, ok := ctx.Value(txKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(log)
			panic(p)
		}
		if err != nil {
			s.rollback(log)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, log))
}

func (s *Store) rollback(log *undoLog) {
	log.mu.Lock()
	entries := log.entries
	log.entries = nil
	log.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(entries) - 1; i >= 0; i-- {
		entries[i]()
	}
}

// remember записывает обратную операцию, если вызов идет внутри транзакции
// Вызывается под s.mu
func remember(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*undoLog); ok {
		log.add(undo)
	}
}
