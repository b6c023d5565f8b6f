package feed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stall-system/internal/common/logger"
	"stall-system/internal/connections/database"
)

// PGListener holds one dedicated connection on LISTEN and relays every
// notification from the orders trigger into a Hub.
type PGListener struct {
	*Hub
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPGListener(ctx context.Context, pool *pgxpool.Pool, lg *logger.Logger) *PGListener {
	ctx, cancel := context.WithCancel(ctx)
	l := &PGListener{Hub: NewHub(), cancel: cancel, done: make(chan struct{})}
	go l.run(ctx, pool, lg)
	return l
}

func (l *PGListener) Close() {
	l.cancel()
	<-l.done
	l.Hub.Close()
}

func (l *PGListener) run(ctx context.Context, pool *pgxpool.Pool, lg *logger.Logger) {
	defer close(l.done)

	const retryDelay = 2 * time.Second
	for {
		if err := l.listenOnce(ctx, pool); err != nil && ctx.Err() == nil {
			lg.Error("listener_reconnect", err, nil)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}

func (l *PGListener) listenOnce(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+database.NotifyChannel); err != nil {
		return err
	}
	// Anything could have changed while we were not listening.
	l.Notify()

	for {
		if _, err := conn.Conn().WaitForNotification(ctx); err != nil {
			return err
		}
		l.Notify()
	}
}
