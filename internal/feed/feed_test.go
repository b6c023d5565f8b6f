package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stall-system/internal/domain"
	"stall-system/internal/orderlog"
)

func drain(ch <-chan struct{}) int {
	n := 0
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return n
			}
			n++
		case <-time.After(50 * time.Millisecond):
			return n
		}
	}
}

func TestHubDeliversToAllSubscribers(t *testing.T) {
	h := NewHub()
	a, stopA := h.Subscribe()
	b, stopB := h.Subscribe()
	defer stopA()
	defer stopB()

	h.Notify()
	assert.Equal(t, 1, drain(a))
	assert.Equal(t, 1, drain(b))
}

func TestHubCoalescesPendingSignals(t *testing.T) {
	h := NewHub()
	ch, stop := h.Subscribe()
	defer stop()

	// nobody reading yet: the burst must collapse, not block
	for i := 0; i < 10; i++ {
		h.Notify()
	}
	assert.Equal(t, 1, drain(ch))
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	h := NewHub()
	ch, stop := h.Subscribe()
	stop()

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after unsubscribe")
	h.Notify() // must not panic with no subscribers
}

func TestHubUnsubscribeTwiceIsSafe(t *testing.T) {
	h := NewHub()
	_, stop := h.Subscribe()
	stop()
	stop()
}

func TestHubCloseReleasesSubscribers(t *testing.T) {
	h := NewHub()
	ch, _ := h.Subscribe()
	h.Close()

	_, ok := <-ch
	assert.False(t, ok)

	// subscribing after close yields a closed channel, not a hang
	late, _ := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}

// The memory log's OnChange hook plays the database trigger: every
// acknowledged mutation must reach a hub subscriber as a refetch cue.
func TestHubWithMemoryLog(t *testing.T) {
	h := NewHub()
	log := orderlog.NewMemoryLog()
	log.OnChange = h.Notify

	ch, stop := h.Subscribe()
	defer stop()

	ctx := context.Background()
	_ = log.Append(ctx, []domain.OrderLine{{Item: domain.ItemApple, Price: 250, TicketNumber: 1}})
	assert.Equal(t, 1, drain(ch))

	all, _ := log.ListAll(ctx)
	_ = log.SetServed(ctx, all[0].ID)
	assert.Equal(t, 1, drain(ch))
}
