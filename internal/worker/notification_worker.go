package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/callcenter-service/internal/service"
)

// NotificationWorker wires the notification service into the event stream and
// prunes stale read notifications on a timer.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	interval      time.Duration
	retention     time.Duration
}

// NewNotificationWorker constructs the worker. Zero durations fall back to
// pruning daily with a 30-day retention window.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger, interval, retention time.Duration) *NotificationWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		interval:      interval,
		retention:     retention,
	}
}

// Start registers event handlers and launches the pruning loop. The loop
// stops when ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	if w.notifications == nil {
		return
	}
	w.notifications.RegisterHandlers()

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.prune(ctx)
			}
		}
	}()
}

func (w *NotificationWorker) prune(ctx context.Context) {
	removed, err := w.notifications.PruneRead(ctx, w.retention)
	if err != nil {
		w.logger.Warn("notification prune failed", zap.Error(err))
		return
	}
	if removed > 0 {
		w.logger.Info("pruned read notifications", zap.Int64("removed", removed))
	}
}
