// Package orderlog is the shared durable record of confirmed order lines.
// Inserts on confirm, single-field status updates on serve, no deletes: the
// log only grows, and every view is re-derived from ListAll.
package orderlog

import (
	"context"

	"stall-system/internal/domain"
)

type LogInterface interface {
	// Append inserts all lines in one transaction with status forced to
	// pending, assigning authoritative ids and timestamps. All-or-nothing.
	Append(ctx context.Context, lines []domain.OrderLine) error
	// SetServed moves one pending line to served. Served is terminal:
	// an already-served id fails with domain.ErrAlreadyServed, a missing
	// id with domain.ErrLineNotFound, both without side effects.
	SetServed(ctx context.Context, id int64) error
	// ListAll returns every line, created_at ascending, reflecting all
	// previously acknowledged mutations.
	ListAll(ctx context.Context) ([]domain.OrderLine, error)
}

// Pending filters a listing down to the kitchen queue, preserving order.
func Pending(lines []domain.OrderLine) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.Status == domain.StatusPending {
			out = append(out, l)
		}
	}
	return out
}

// CountPending tallies the pending queue per item type.
func CountPending(lines []domain.OrderLine) map[domain.ItemType]int {
	counts := make(map[domain.ItemType]int)
	for _, l := range lines {
		if l.Status == domain.StatusPending {
			counts[l.Item]++
		}
	}
	return counts
}
