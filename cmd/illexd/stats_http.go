package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/stats"
)

// serveStats runs the optional read-only /stats and /healthz HTTP surface
// (spec.md §6 AMBIENT) until ctx is cancelled.
func serveStats(ctx context.Context, addr string, reg *stats.Registry) {
	srv := &http.Server{Addr: addr, Handler: stats.NewHTTPHandler(reg, logger)}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("stats server error", zap.Error(err))
	}
}
