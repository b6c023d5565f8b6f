package kitchen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"stall-system/internal/common/logger"
	"stall-system/internal/domain"
	"stall-system/internal/orderlog"
)

func seededController(t *testing.T) (*Controller, *orderlog.MemoryLog, []int64) {
	t.Helper()
	log := orderlog.NewMemoryLog()
	ctx := context.Background()
	_ = log.Append(ctx, []domain.OrderLine{
		{Item: domain.ItemApple, Price: 250, TicketNumber: 1},
		{Item: domain.ItemApple, Price: 250, TicketNumber: 2},
		{Item: domain.ItemBanana, Price: 150, TicketNumber: 1},
	})
	c := NewController(log, logger.New("kitchen-test"))
	assert.NoError(t, c.Refresh(ctx))

	all, _ := log.ListAll(ctx)
	ids := make([]int64, len(all))
	for i, l := range all {
		ids[i] = l.ID
	}
	return c, log, ids
}

func TestRefreshDerivesQueue(t *testing.T) {
	c, _, _ := seededController(t)
	v := c.Queue()
	assert.Len(t, v.Pending, 3)
	assert.Equal(t, 2, v.Counts[domain.ItemApple])
	assert.Equal(t, 1, v.Counts[domain.ItemBanana])
	assert.Zero(t, v.Served)
	assert.Zero(t, v.ArmedID)
}

func TestArmSingleSelect(t *testing.T) {
	c, _, ids := seededController(t)

	assert.NoError(t, c.Arm(ids[0]))
	assert.Equal(t, ids[0], c.Queue().ArmedID)

	// arming a second line disarms the first
	assert.NoError(t, c.Arm(ids[1]))
	assert.Equal(t, ids[1], c.Queue().ArmedID)
}

func TestArmUnknownLine(t *testing.T) {
	c, _, _ := seededController(t)
	assert.ErrorIs(t, c.Arm(999), domain.ErrLineNotFound)
	assert.Zero(t, c.Queue().ArmedID)
}

func TestDisarmOnOutsideClick(t *testing.T) {
	c, log, ids := seededController(t)
	_ = c.Arm(ids[0])

	c.Disarm()
	assert.Zero(t, c.Queue().ArmedID)

	// the line is still pending and unserved
	all, _ := log.ListAll(context.Background())
	assert.Equal(t, domain.StatusPending, all[0].Status)
}

func TestHandOffServesArmedLine(t *testing.T) {
	c, log, ids := seededController(t)
	ctx := context.Background()
	_ = c.Arm(ids[0])

	id, err := c.HandOff(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ids[0], id)
	assert.Zero(t, c.Queue().ArmedID)

	all, _ := log.ListAll(ctx)
	assert.Equal(t, domain.StatusServed, all[0].Status)

	// next refresh drops it from the pending view
	assert.NoError(t, c.Refresh(ctx))
	v := c.Queue()
	assert.Len(t, v.Pending, 2)
	assert.Equal(t, 1, v.Served)
	assert.Equal(t, 1, v.Counts[domain.ItemApple])
}

func TestHandOffNothingArmed(t *testing.T) {
	c, _, _ := seededController(t)
	_, err := c.HandOff(context.Background())
	assert.ErrorIs(t, err, domain.ErrNothingArmed)
}

type failingServeLog struct {
	orderlog.LogInterface
}

func (f *failingServeLog) SetServed(ctx context.Context, id int64) error {
	return errors.New("connection reset")
}

func TestHandOffFailureClearsArmKeepsPending(t *testing.T) {
	mem := orderlog.NewMemoryLog()
	ctx := context.Background()
	_ = mem.Append(ctx, []domain.OrderLine{{Item: domain.ItemApple, Price: 250, TicketNumber: 1}})

	c := NewController(&failingServeLog{LogInterface: mem}, logger.New("kitchen-test"))
	assert.NoError(t, c.Refresh(ctx))
	all, _ := mem.ListAll(ctx)
	_ = c.Arm(all[0].ID)

	_, err := c.HandOff(ctx)
	assert.ErrorIs(t, err, domain.ErrServeFailed)
	assert.Zero(t, c.Queue().ArmedID, "arm state cleared on failure")

	all, _ = mem.ListAll(ctx)
	assert.Equal(t, domain.StatusPending, all[0].Status, "line stays pending and visibly unserved")
}

type failingListLog struct {
	orderlog.LogInterface
	fail bool
}

func (f *failingListLog) ListAll(ctx context.Context) ([]domain.OrderLine, error) {
	if f.fail {
		return nil, errors.New("connection reset")
	}
	return f.LogInterface.ListAll(ctx)
}

func TestRefreshFailureKeepsLastKnownGood(t *testing.T) {
	mem := orderlog.NewMemoryLog()
	ctx := context.Background()
	_ = mem.Append(ctx, []domain.OrderLine{{Item: domain.ItemApple, Price: 250, TicketNumber: 1}})

	wrapped := &failingListLog{LogInterface: mem}
	c := NewController(wrapped, logger.New("kitchen-test"))
	assert.NoError(t, c.Refresh(ctx))
	assert.Len(t, c.Queue().Pending, 1)

	wrapped.fail = true
	err := c.Refresh(ctx)
	assert.ErrorIs(t, err, domain.ErrRefreshFailed)
	assert.Len(t, c.Queue().Pending, 1, "last known-good view is kept")
}

func TestRefreshDisarmsVanishedLine(t *testing.T) {
	c, log, ids := seededController(t)
	ctx := context.Background()
	_ = c.Arm(ids[0])

	// another kitchen view served it first
	_ = log.SetServed(ctx, ids[0])
	assert.NoError(t, c.Refresh(ctx))
	assert.Zero(t, c.Queue().ArmedID)
}
