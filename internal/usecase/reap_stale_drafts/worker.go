package reap_stale_drafts

import (
	"context"
	"time"
)

// Worker периодически запускает очистку черновиков
type Worker struct {
	uc        *UseCase
	interval  time.Duration
	olderThan time.Duration
	logger    Logger
}

// NewWorker создает фоновый обработчик
func NewWorker(uc *UseCase, interval, olderThan time.Duration, logger Logger) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{
		uc:        uc,
		interval:  interval,
		olderThan: olderThan,
		logger:    logger,
	}
}

// Run работает до отмены ctx, первый проход выполняется сразу
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("ReapStaleDrafts: worker started, interval=%s, olderThan=%s", w.interval, w.olderThan)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.uc.Execute(ctx, w.olderThan); err != nil && ctx.Err() == nil {
			w.logger.Error("ReapStaleDrafts: run failed: %v", err)
		}

		select {
		case <-ctx.Done():
			w.logger.Info("ReapStaleDrafts: worker stopped")
			return
		case <-ticker.C:
		}
	}
}
