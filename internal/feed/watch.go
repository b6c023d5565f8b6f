package feed

import (
	"context"
	"time"

	"stall-system/internal/common/logger"
)

// Watch drives an observer's idempotent full resync: subscribe first, then
// the initial fetch, then one refresh per signal. Subscribing before the
// initial fetch closes the window where a mutation between fetch and
// subscribe would be lost. A failed refresh keeps the observer's last
// known-good view; the slow ticker retries it even if no new signal comes.
func Watch(ctx context.Context, f FeedInterface, refresh func(context.Context) error, lg *logger.Logger) {
	signals, stop := f.Subscribe()
	defer stop()

	if err := refresh(ctx); err != nil {
		lg.Error("refresh_failed", err, nil)
	}

	retry := time.NewTicker(30 * time.Second)
	defer retry.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-signals:
			if !ok {
				return
			}
			if err := refresh(ctx); err != nil {
				lg.Error("refresh_failed", err, nil)
			}
		case <-retry.C:
			if err := refresh(ctx); err != nil {
				lg.Error("refresh_failed", err, nil)
			}
		}
	}
}
