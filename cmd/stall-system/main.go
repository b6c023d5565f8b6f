package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"stall-system/internal/common/logger"
	"stall-system/internal/config"
	"stall-system/internal/connections/database"
	"stall-system/internal/connections/rabbitmq"
	"stall-system/internal/feed"
	"stall-system/internal/kitchen"
	"stall-system/internal/notifier"
	"stall-system/internal/orderlog"
	"stall-system/internal/sequencer"
	"stall-system/internal/station"
)

func main() {
	mode := flag.String("mode", "", "station | kitchen | notifier")
	cfgPath := flag.String("config", "", "path to YAML config (default: probe standard locations)")
	port := flag.Int("port", 0, "http port for station/kitchen")
	flag.Parse()

	lg := logger.New("bootstrap")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fmt.Fprintln(os.Stderr, "no config file found; pass --config")
			os.Exit(2)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": path})
		os.Exit(1)
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, nil)
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		lg.Error("schema_failed", err, nil)
		os.Exit(1)
	}
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "database": cfg.Database.Database})

	log := orderlog.NewPGLog(pool)

	switch *mode {
	case "station":
		if *port == 0 {
			*port = 3000
		}
		f, closeFeed, err := buildFeed(ctx, cfg, pool, lg, "station")
		if err != nil {
			lg.Error("feed_setup_failed", err, nil)
			os.Exit(1)
		}
		defer closeFeed()
		seq := sequencer.NewPGSequencer(pool)
		if err := station.Run(ctx, *port, seq, log, f); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "kitchen":
		if *port == 0 {
			*port = 3001
		}
		f, closeFeed, err := buildFeed(ctx, cfg, pool, lg, "kitchen")
		if err != nil {
			lg.Error("feed_setup_failed", err, nil)
			os.Exit(1)
		}
		defer closeFeed()
		if err := kitchen.Run(ctx, *port, log, f); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notifier":
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("rabbitmq_connect_failed", err, nil)
			os.Exit(1)
		}
		defer rmq.Close()
		if err := notifier.Run(ctx, pool, rmq); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "--mode is required: station | kitchen | notifier")
		os.Exit(2)
	}
}

// buildFeed picks the change-signal source: a direct LISTEN on Postgres, or
// the notifier's fanout exchange for hosts kept off the database network.
func buildFeed(ctx context.Context, cfg config.App, pool *pgxpool.Pool, lg *logger.Logger, consumer string) (feed.FeedInterface, func(), error) {
	if cfg.FeedSource == "rabbitmq" {
		rmq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}
		f, err := feed.NewRabbitFeed(rmq, consumer, lg)
		if err != nil {
			rmq.Close()
			return nil, nil, err
		}
		return f, f.Close, nil
	}
	l := feed.NewPGListener(ctx, pool, lg)
	return l, l.Close, nil
}
