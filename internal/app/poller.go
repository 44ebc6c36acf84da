package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"pillbox/internal/reminders"
)

const maxBackoff = 5 * time.Minute

// StartPoller launches a background goroutine that refreshes the reminder
// store at a fixed cadence. It returns immediately. Ticks are skipped while
// ready reports false, and the interval backs off while the backend keeps
// failing so an unreachable server is not hammered.
func StartPoller(ctx context.Context, manager *reminders.Manager, ready func() bool, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	go func() {
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			wait := interval
			if ready == nil || ready() {
				if err := manager.Refresh(ctx); err != nil {
					log.Warn("reminder poll failed", zap.Error(err))
				}
				wait = calculateBackoff(manager.Snapshot().ConsecutiveFailures, interval)
			}
			timer.Reset(wait)
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure, capped
// at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
