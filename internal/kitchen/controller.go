// Package kitchen is the kitchen display: one pending queue derived from
// the order log, and a two-step mark-ready / hand-off gate so a single
// mis-tap cannot drop a line from the queue.
package kitchen

import (
	"context"
	"fmt"
	"sync"

	"stall-system/internal/common/logger"
	"stall-system/internal/domain"
	"stall-system/internal/orderlog"
)

type ControllerInterface interface {
	Refresh(ctx context.Context) error
	Queue() QueueView
	Arm(id int64) error
	Disarm()
	HandOff(ctx context.Context) (int64, error)
}

type QueueView struct {
	Pending []domain.OrderLine      `json:"pending"`
	Counts  map[domain.ItemType]int `json:"counts"`
	Served  int                     `json:"served_total"`
	ArmedID int64                   `json:"armed_id,omitempty"`
}

type Controller struct {
	log orderlog.LogInterface
	lg  *logger.Logger

	mu      sync.Mutex
	pending []domain.OrderLine
	counts  map[domain.ItemType]int
	served  int
	armed   int64 // 0 = nothing armed; advisory only, never persisted
}

func NewController(log orderlog.LogInterface, lg *logger.Logger) *Controller {
	return &Controller{log: log, lg: lg, counts: make(map[domain.ItemType]int)}
}

// Refresh refetches the full log and re-derives the queue. On failure the
// last known-good view stays in place.
func (c *Controller) Refresh(ctx context.Context) error {
	all, err := c.log.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
	}

	pending := orderlog.Pending(all)
	counts := orderlog.CountPending(all)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = pending
	c.counts = counts
	c.served = len(all) - len(pending)

	// a served or vanished line cannot stay armed
	if c.armed != 0 && !containsID(pending, c.armed) {
		c.armed = 0
	}
	return nil
}

func (c *Controller) Queue() QueueView {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.OrderLine, len(c.pending))
	copy(out, c.pending)
	counts := make(map[domain.ItemType]int, len(c.counts))
	for k, v := range c.counts {
		counts[k] = v
	}
	return QueueView{Pending: out, Counts: counts, Served: c.served, ArmedID: c.armed}
}

// Arm marks one pending line as ready for hand-off. Arming a second line
// disarms the first: at most one line is armed per kitchen view.
func (c *Controller) Arm(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !containsID(c.pending, id) {
		return domain.ErrLineNotFound
	}
	c.armed = id
	return nil
}

// Disarm clears the gate, e.g. on a click anywhere outside the armed line.
func (c *Controller) Disarm() {
	c.mu.Lock()
	c.armed = 0
	c.mu.Unlock()
}

// HandOff serves the armed line. The arm state is cleared on every outcome;
// on failure the line stays pending and visibly unserved, and the error is
// surfaced to the caller.
func (c *Controller) HandOff(ctx context.Context) (int64, error) {
	c.mu.Lock()
	id := c.armed
	c.armed = 0
	c.mu.Unlock()

	if id == 0 {
		return 0, domain.ErrNothingArmed
	}
	if err := c.log.SetServed(ctx, id); err != nil {
		return id, fmt.Errorf("%w: %v", domain.ErrServeFailed, err)
	}
	c.lg.Info("line_served", map[string]any{"id": id})
	return id, nil
}

func containsID(lines []domain.OrderLine, id int64) bool {
	for _, l := range lines {
		if l.ID == id {
			return true
		}
	}
	return false
}
