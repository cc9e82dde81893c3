// workers/leaderboard_warmer.go
package workers

import (
	"context"
	"time"

	"recipe-raid/logger"
)

// Warmer is satisfied by services.LeaderboardService.
type Warmer interface {
	Warm(ctx context.Context) error
}

// LeaderboardWarmer keeps the default leaderboards hot in the cache so the
// first reader after an invalidation doesn't pay for the aggregate query.
type LeaderboardWarmer struct {
	warmer   Warmer
	interval time.Duration
	log      *logger.Logger
}

func NewLeaderboardWarmer(warmer Warmer, interval time.Duration, log *logger.Logger) *LeaderboardWarmer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &LeaderboardWarmer{warmer: warmer, interval: interval, log: log}
}

func (w *LeaderboardWarmer) Start(ctx context.Context) {
	w.log.Info("[WARMER] starting leaderboard warmer", "interval", w.interval.String())
	go w.run(ctx)
}

func (w *LeaderboardWarmer) run(ctx context.Context) {
	w.warmOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.warmOnce(ctx)
		case <-ctx.Done():
			w.log.Info("[WARMER] leaderboard warmer stopped")
			return
		}
	}
}

func (w *LeaderboardWarmer) warmOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	if err := w.warmer.Warm(ctx); err != nil && ctx.Err() == nil {
		w.log.Warn("[WARMER] warm failed", "error", err)
	}
}
