package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NotifyChannel is the LISTEN/NOTIFY channel the orders trigger fires on.
const NotifyChannel = "orders_changed"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS orders (
		id            BIGSERIAL PRIMARY KEY,
		item          TEXT        NOT NULL,
		price         BIGINT      NOT NULL CHECK (price > 0),
		ticket_number BIGINT      NOT NULL CHECK (ticket_number > 0),
		status        TEXT        NOT NULL DEFAULT 'pending',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (item, ticket_number)
	)`,

	`CREATE TABLE IF NOT EXISTS ticket_counters (
		item  TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	)`,

	// Atomic increment-and-return. A client-side read-then-write would lose
	// updates when two stations reserve the first ticket of the day at once.
	`CREATE OR REPLACE FUNCTION get_next_ticket_number(item_type TEXT) RETURNS BIGINT AS $$
		INSERT INTO ticket_counters (item, value) VALUES (item_type, 1)
		ON CONFLICT (item) DO UPDATE SET value = ticket_counters.value + 1
		RETURNING value;
	$$ LANGUAGE sql`,

	// Statement-level "something changed" signal; the payload carries no row,
	// observers refetch the full log.
	`CREATE OR REPLACE FUNCTION notify_orders_changed() RETURNS trigger AS $$
	BEGIN
		PERFORM pg_notify('orders_changed', TG_OP);
		RETURN NULL;
	END;
	$$ LANGUAGE plpgsql`,

	`DROP TRIGGER IF EXISTS orders_changed ON orders`,

	`CREATE TRIGGER orders_changed
		AFTER INSERT OR UPDATE ON orders
		FOR EACH STATEMENT EXECUTE FUNCTION notify_orders_changed()`,
}

// EnsureSchema creates the orders table, the ticket counter function and the
// notify trigger. Idempotent; safe to run from every process at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
