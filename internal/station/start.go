package station

import (
	"context"
	"net/http"
	"strconv"

	"stall-system/internal/basket"
	"stall-system/internal/common/httpx"
	"stall-system/internal/common/logger"
	"stall-system/internal/feed"
	"stall-system/internal/orderlog"
	"stall-system/internal/sequencer"
)

// Run wires one order-entry station: a fresh basket (baskets never survive
// a restart), the shared log, and the refresh loop on the change feed.
func Run(ctx context.Context, port int, seq sequencer.SequencerInterface, log orderlog.LogInterface, f feed.FeedInterface) error {
	lg := logger.New("order-station")
	svc := NewService(basket.New(seq, log), log, lg)

	go feed.Watch(ctx, f, svc.Refresh, lg)

	mux := http.NewServeMux()
	NewHandler(svc).Routes(mux)

	lg.Info("service_started", map[string]any{"port": port})
	return httpx.New(":"+strconv.Itoa(port), mux).Run(ctx)
}
