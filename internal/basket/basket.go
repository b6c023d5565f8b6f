// Package basket is a station's local, unpersisted accumulation of order
// lines. It is owned by exactly one station and never survives a restart;
// durability begins at Confirm.
package basket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stall-system/internal/domain"
	"stall-system/internal/orderlog"
	"stall-system/internal/sequencer"
)

type BasketInterface interface {
	Add(ctx context.Context, item domain.ItemType) (domain.OrderLine, error)
	Confirm(ctx context.Context) (int, error)
	Clear()
	Lines() []domain.OrderLine
	Subtotal() int64
}

type Basket struct {
	seq sequencer.SequencerInterface
	log orderlog.LogInterface

	mu         sync.Mutex
	lines      []domain.OrderLine
	last       map[domain.ItemType]int64 // last ticket number staged per item
	confirming bool
}

func New(seq sequencer.SequencerInterface, log orderlog.LogInterface) *Basket {
	return &Basket{seq: seq, log: log, last: make(map[domain.ItemType]int64)}
}

// Add stages one line. The first line of an item reserves its number from
// the shared sequencer; later lines of the same item continue locally from
// the basket's own last number, skipping the round trip. Those continued
// numbers are invisible to other stations until commit; if the basket is
// cleared first they are permanently skipped.
func (b *Basket) Add(ctx context.Context, item domain.ItemType) (domain.OrderLine, error) {
	if !item.Valid() {
		return domain.OrderLine{}, domain.ErrUnknownItem
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var ticket int64
	if last, ok := b.last[item]; ok {
		ticket = last + 1
	} else {
		n, err := b.seq.Reserve(ctx, item)
		if err != nil {
			// abort the add; no fabricated numbers, basket untouched
			return domain.OrderLine{}, err
		}
		ticket = n
	}

	line := domain.OrderLine{
		LocalID:      uuid.NewString(),
		Item:         item,
		Price:        domain.Catalog[item],
		TicketNumber: ticket,
		Status:       domain.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	b.lines = append(b.lines, line)
	b.last[item] = ticket
	return line, nil
}

// Confirm commits all staged lines to the order log as one batch and, only
// on success, clears them. On failure the basket is left exactly as it was
// so the station can retry. Returns the number of committed lines.
func (b *Basket) Confirm(ctx context.Context) (int, error) {
	b.mu.Lock()
	if b.confirming {
		b.mu.Unlock()
		return 0, domain.ErrConfirmInFlight
	}
	if len(b.lines) == 0 {
		b.mu.Unlock()
		return 0, domain.ErrEmptyBasket
	}
	b.confirming = true
	staged := make([]domain.OrderLine, len(b.lines))
	copy(staged, b.lines)
	b.mu.Unlock()

	err := b.log.Append(ctx, staged)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirming = false
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
	}

	// Drop exactly the committed lines; anything staged mid-confirm stays.
	committed := make(map[string]bool, len(staged))
	for _, l := range staged {
		committed[l.LocalID] = true
	}
	remaining := b.lines[:0]
	for _, l := range b.lines {
		if !committed[l.LocalID] {
			remaining = append(remaining, l)
		}
	}
	b.lines = remaining
	if len(b.lines) == 0 {
		b.lines = nil
		b.last = make(map[domain.ItemType]int64)
	}
	return len(staged), nil
}

// Clear discards all staged lines with no server interaction. Reserved and
// continued numbers are not returned; they stay skipped.
func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
	b.last = make(map[domain.ItemType]int64)
}

func (b *Basket) Lines() []domain.OrderLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.OrderLine, len(b.lines))
	copy(out, b.lines)
	return out
}

// Subtotal is the running sum of unit prices over current contents.
func (b *Basket) Subtotal() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sum int64
	for _, l := range b.lines {
		sum += l.Price
	}
	return sum
}
