package kitchen

import (
	"context"
	"net/http"
	"strconv"

	"stall-system/internal/common/httpx"
	"stall-system/internal/common/logger"
	"stall-system/internal/feed"
	"stall-system/internal/orderlog"
)

// Run wires the kitchen display: controller over the shared log, refresh
// loop driven by the change feed, HTTP surface for the display.
func Run(ctx context.Context, port int, log orderlog.LogInterface, f feed.FeedInterface) error {
	lg := logger.New("kitchen-display")
	ctrl := NewController(log, lg)

	go feed.Watch(ctx, f, ctrl.Refresh, lg)

	mux := http.NewServeMux()
	NewHandler(ctrl).Routes(mux)

	lg.Info("service_started", map[string]any{"port": port})
	return httpx.New(":"+strconv.Itoa(port), mux).Run(ctx)
}
