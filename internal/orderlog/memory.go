package orderlog

import (
	"context"
	"sync"
	"time"

	"stall-system/internal/domain"
)

// MemoryLog is an in-process log with the same contract as the Postgres one.
// Backs tests and single-process setups; OnChange plays the role of the
// database trigger.
type MemoryLog struct {
	mu     sync.RWMutex
	lines  []domain.OrderLine
	nextID int64

	// OnChange, when set, runs after every acknowledged mutation.
	OnChange func()
}

func NewMemoryLog() *MemoryLog { return &MemoryLog{nextID: 1} }

func (m *MemoryLog) Append(_ context.Context, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	m.mu.Lock()
	now := time.Now().UTC()
	for _, l := range lines {
		l.ID = m.nextID
		m.nextID++
		l.LocalID = ""
		l.Status = domain.StatusPending
		l.CreatedAt = now
		m.lines = append(m.lines, l)
	}
	m.mu.Unlock()

	m.changed()
	return nil
}

func (m *MemoryLog) SetServed(_ context.Context, id int64) error {
	m.mu.Lock()
	for i := range m.lines {
		if m.lines[i].ID != id {
			continue
		}
		if m.lines[i].Status == domain.StatusServed {
			m.mu.Unlock()
			return domain.ErrAlreadyServed
		}
		m.lines[i].Status = domain.StatusServed
		m.mu.Unlock()
		m.changed()
		return nil
	}
	m.mu.Unlock()
	return domain.ErrLineNotFound
}

func (m *MemoryLog) ListAll(_ context.Context) ([]domain.OrderLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.OrderLine, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *MemoryLog) changed() {
	if m.OnChange != nil {
		m.OnChange()
	}
}
