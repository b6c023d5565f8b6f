// Package notifier bridges the database change feed onto the RabbitMQ
// fanout exchange, for observers configured without a direct Postgres
// listener. Same contract on both sides: at-least-once, unordered,
// payload-free signals that mean "refetch the log".
package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stall-system/internal/common/logger"
	"stall-system/internal/connections/rabbitmq"
	"stall-system/internal/feed"
)

type changeSignal struct {
	Source string    `json:"source"`
	SentAt time.Time `json:"sent_at"`
}

func Run(ctx context.Context, pool *pgxpool.Pool, rmq *rabbitmq.Client) error {
	lg := logger.New("change-notifier")

	if err := rmq.DeclareChangeExchange(); err != nil {
		return err
	}

	listener := feed.NewPGListener(ctx, pool, lg)
	defer listener.Close()

	signals, stop := listener.Subscribe()
	defer stop()

	lg.Info("service_started", map[string]any{"exchange": rabbitmq.ChangeExchange})

	for {
		select {
		case <-ctx.Done():
			lg.Info("graceful_shutdown", nil)
			return nil
		case _, ok := <-signals:
			if !ok {
				return nil
			}
			body, _ := json.Marshal(changeSignal{Source: "orders", SentAt: time.Now().UTC()})
			pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := rmq.PublishChange(pctx, body)
			cancel()
			if err != nil {
				// a lost signal only delays refetch until the next one
				lg.Error("relay_failed", err, nil)
				continue
			}
			lg.Debug("change_relayed", nil)
		}
	}
}
