package orderlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"stall-system/internal/domain"
)

func line(item domain.ItemType, ticket int64) domain.OrderLine {
	return domain.OrderLine{
		LocalID:      "staged",
		Item:         item,
		Price:        domain.Catalog[item],
		TicketNumber: ticket,
		Status:       domain.StatusServed, // must be overridden on append
	}
}

func TestAppendForcesPendingAndAssignsIDs(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()

	err := log.Append(ctx, []domain.OrderLine{
		line(domain.ItemApple, 1),
		line(domain.ItemApple, 2),
		line(domain.ItemBanana, 1),
	})
	assert.NoError(t, err)

	all, err := log.ListAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	for _, l := range all {
		assert.Equal(t, domain.StatusPending, l.Status)
		assert.Positive(t, l.ID)
		assert.Empty(t, l.LocalID)
		assert.False(t, l.CreatedAt.IsZero())
	}
	// ids are distinct
	assert.NotEqual(t, all[0].ID, all[1].ID)
	assert.NotEqual(t, all[1].ID, all[2].ID)
}

func TestAppendEmptyIsNoop(t *testing.T) {
	log := NewMemoryLog()
	fired := false
	log.OnChange = func() { fired = true }

	assert.NoError(t, log.Append(context.Background(), nil))
	all, _ := log.ListAll(context.Background())
	assert.Empty(t, all)
	assert.False(t, fired)
}

func TestSetServedTransitions(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()
	_ = log.Append(ctx, []domain.OrderLine{line(domain.ItemApple, 1)})
	all, _ := log.ListAll(ctx)
	id := all[0].ID

	assert.NoError(t, log.SetServed(ctx, id))

	all, _ = log.ListAll(ctx)
	assert.Equal(t, domain.StatusServed, all[0].Status)

	// served is terminal: second serve is a defined failure, no side effects
	err := log.SetServed(ctx, id)
	assert.ErrorIs(t, err, domain.ErrAlreadyServed)
	all, _ = log.ListAll(ctx)
	assert.Equal(t, domain.StatusServed, all[0].Status)
}

func TestSetServedUnknownID(t *testing.T) {
	log := NewMemoryLog()
	err := log.SetServed(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrLineNotFound)
}

// After any sequence of appends and serves, the pending view is exactly the
// lines never hit by a successful SetServed.
func TestPendingMatchesUnserved(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()

	_ = log.Append(ctx, []domain.OrderLine{line(domain.ItemApple, 1), line(domain.ItemBanana, 1)})
	_ = log.Append(ctx, []domain.OrderLine{line(domain.ItemApple, 2)})

	all, _ := log.ListAll(ctx)
	served := map[int64]bool{all[1].ID: true}
	_ = log.SetServed(ctx, all[1].ID)

	all, _ = log.ListAll(ctx)
	pending := Pending(all)
	assert.Len(t, pending, 2)
	for _, l := range pending {
		assert.False(t, served[l.ID])
		assert.Equal(t, domain.StatusPending, l.Status)
	}

	counts := CountPending(all)
	assert.Equal(t, 2, counts[domain.ItemApple])
	assert.Equal(t, 0, counts[domain.ItemBanana])
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	log := NewMemoryLog()
	ctx := context.Background()
	n := 0
	log.OnChange = func() { n++ }

	_ = log.Append(ctx, []domain.OrderLine{line(domain.ItemApple, 1)})
	all, _ := log.ListAll(ctx)
	_ = log.SetServed(ctx, all[0].ID)
	_ = log.SetServed(ctx, all[0].ID) // failed serve must not signal

	assert.Equal(t, 2, n)
}
