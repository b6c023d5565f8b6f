// Package sequencer assigns ticket numbers. The authoritative counter lives
// in the shared store: two stations may reserve the first apple of the day
// at the same instant, and only an atomic increment-and-return at the store
// keeps their numbers distinct.
package sequencer

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stall-system/internal/domain"
)

type SequencerInterface interface {
	// Reserve returns the next ticket number for the item, strictly
	// increasing per item and unique across concurrent callers.
	Reserve(ctx context.Context, item domain.ItemType) (int64, error)
}

type PGSequencer struct {
	pool *pgxpool.Pool
}

func NewPGSequencer(pool *pgxpool.Pool) *PGSequencer {
	return &PGSequencer{pool: pool}
}

func (s *PGSequencer) Reserve(ctx context.Context, item domain.ItemType) (int64, error) {
	if !item.Valid() {
		return 0, domain.ErrUnknownItem
	}
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT get_next_ticket_number($1)`, string(item)).Scan(&n)
	if err != nil {
		// Never fabricate a number; the caller aborts the add.
		return 0, fmt.Errorf("%w: %v", domain.ErrSequencerUnavailable, err)
	}
	return n, nil
}
