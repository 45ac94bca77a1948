package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/nliven/airsync/internal/logger"
)

// Trigger starts one sync attempt.
type Trigger interface {
	Execute() error
}

// StartPeriodicSync runs a goroutine that re-triggers the sync on a
// fixed interval. An attempt still in flight at tick time is skipped,
// not queued. Returns a channel that is closed when the loop has
// stopped after ctx cancellation.
func StartPeriodicSync(ctx context.Context, trigger Trigger, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("periodic-sync").Debugf("starting periodic sync with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("periodic-sync").Info("periodic sync stopped")
				return
			case <-ticker.C:
				if err := trigger.Execute(); err != nil {
					if errors.Is(err, ErrSyncInFlight) {
						logger.WithComponent("periodic-sync").Debug("previous sync still in flight, skipping tick")
						continue
					}
					logger.WithComponent("periodic-sync").Errorf("trigger error: %v", err)
				}
			}
		}
	}()
	return done
}
