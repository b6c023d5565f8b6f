// Package station is one order-entry station: a private staging basket in
// front of the shared order log, plus the station's own queue view derived
// from full-log refetches.
package station

import (
	"context"
	"fmt"
	"sync"

	"stall-system/internal/basket"
	"stall-system/internal/common/logger"
	"stall-system/internal/domain"
	"stall-system/internal/orderlog"
)

type ServiceInterface interface {
	AddItem(ctx context.Context, item domain.ItemType) (domain.OrderLine, error)
	Basket() BasketView
	Confirm(ctx context.Context) (int, error)
	ClearBasket()
	Refresh(ctx context.Context) error
	Queue() QueueView
}

type BasketView struct {
	Lines    []domain.OrderLine `json:"lines"`
	Subtotal int64              `json:"subtotal"`
}

type QueueView struct {
	Pending []domain.OrderLine      `json:"pending"`
	Counts  map[domain.ItemType]int `json:"counts"`
	Served  int                     `json:"served_total"`
}

type Service struct {
	basket basket.BasketInterface
	log    orderlog.LogInterface
	lg     *logger.Logger

	mu      sync.RWMutex
	pending []domain.OrderLine
	counts  map[domain.ItemType]int
	served  int
}

func NewService(b basket.BasketInterface, log orderlog.LogInterface, lg *logger.Logger) *Service {
	return &Service{basket: b, log: log, lg: lg, counts: make(map[domain.ItemType]int)}
}

func (s *Service) AddItem(ctx context.Context, item domain.ItemType) (domain.OrderLine, error) {
	line, err := s.basket.Add(ctx, item)
	if err != nil {
		s.lg.Error("item_add_failed", err, map[string]any{"item": string(item)})
		return domain.OrderLine{}, err
	}
	s.lg.Debug("item_staged", map[string]any{"item": string(item), "ticket": line.TicketNumber})
	return line, nil
}

func (s *Service) Basket() BasketView {
	return BasketView{Lines: s.basket.Lines(), Subtotal: s.basket.Subtotal()}
}

func (s *Service) Confirm(ctx context.Context) (int, error) {
	n, err := s.basket.Confirm(ctx)
	if err != nil {
		s.lg.Error("order_confirm_failed", err, nil)
		return 0, err
	}
	s.lg.Info("order_confirmed", map[string]any{"lines": n})
	return n, nil
}

func (s *Service) ClearBasket() {
	s.basket.Clear()
	s.lg.Debug("basket_cleared", nil)
}

// Refresh refetches the full log and re-derives this station's queue view.
// On failure the last known-good view stays.
func (s *Service) Refresh(ctx context.Context) error {
	all, err := s.log.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRefreshFailed, err)
	}
	pending := orderlog.Pending(all)
	counts := orderlog.CountPending(all)

	s.mu.Lock()
	s.pending = pending
	s.counts = counts
	s.served = len(all) - len(pending)
	s.mu.Unlock()
	return nil
}

func (s *Service) Queue() QueueView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.OrderLine, len(s.pending))
	copy(out, s.pending)
	counts := make(map[domain.ItemType]int, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}
	return QueueView{Pending: out, Counts: counts, Served: s.served}
}
