package orderlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stall-system/internal/domain"
)

type PGLog struct {
	pool *pgxpool.Pool
}

func NewPGLog(pool *pgxpool.Pool) *PGLog { return &PGLog{pool: pool} }

func (r *PGLog) Append(ctx context.Context, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, l := range lines {
		// Status is forced to pending regardless of the input; ids and
		// timestamps are the store's, not the station's.
		if _, err := tx.Exec(ctx, `
			INSERT INTO orders (item, price, ticket_number, status, created_at)
			VALUES ($1, $2, $3, 'pending', now())
		`, string(l.Item), l.Price, l.TicketNumber); err != nil {
			return fmt.Errorf("failed to insert order line %s #%d: %w", l.Item, l.TicketNumber, err)
		}
	}

	// Locally continued numbers were never seen by the sequencer. Pull the
	// counter up to the committed maximum so it cannot re-issue them.
	maxTicket := make(map[domain.ItemType]int64)
	for _, l := range lines {
		if l.TicketNumber > maxTicket[l.Item] {
			maxTicket[l.Item] = l.TicketNumber
		}
	}
	for item, n := range maxTicket {
		if _, err := tx.Exec(ctx, `
			INSERT INTO ticket_counters (item, value) VALUES ($1, $2)
			ON CONFLICT (item) DO UPDATE
			SET value = GREATEST(ticket_counters.value, EXCLUDED.value)
		`, string(item), n); err != nil {
			return fmt.Errorf("failed to advance ticket counter for %s: %w", item, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PGLog) SetServed(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET status='served' WHERE id=$1 AND status='pending'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to update order line %d: %w", id, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched: distinguish a stale serve from a bogus id.
	var status string
	err = r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrLineNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check order line %d: %w", id, err)
	}
	if status == string(domain.StatusServed) {
		return domain.ErrAlreadyServed
	}
	return fmt.Errorf("order line %d in unexpected status %q", id, status)
}

func (r *PGLog) ListAll(ctx context.Context) ([]domain.OrderLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, item, price, ticket_number, status, created_at
		FROM orders
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		var item, status string
		if err := rows.Scan(&l.ID, &item, &l.Price, &l.TicketNumber, &status, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Item = domain.ItemType(item)
		l.Status = domain.Status(status)
		out = append(out, l)
	}
	return out, rows.Err()
}
