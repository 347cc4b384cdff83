package debug

// Runtime diagnostics logger. Started only when config.Debug is true.
// Emits goroutine count, heap and process memory next to the engine
// counters so a growing sample backlog shows up next to memory growth.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/soocke/gaze-go/domain/gaze"
)

// StatsFunc returns the current engine counters.
type StatsFunc func() gaze.Stats

// StartRuntimeLogger launches a ticker that logs runtime and engine
// statistics until ctx is done. stats may be nil.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger, stats StatsFunc) {
	if logger == nil {
		return
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := processRSS()
			if err != nil && !rssErrLogged {
				logger.Debug("runtime: process rss unavailable", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("runtime",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
				slog.Uint64("rss", rss),
			)
			if stats != nil {
				logStats(logger, stats())
			}
		}
	}()
}

func logStats(logger *slog.Logger, s gaze.Stats) {
	logger.Info("engine",
		slog.Uint64("landmarks", s.Landmarks),
		slog.Uint64("poses", s.Poses),
		slog.Uint64("dropped_poses", s.DroppedPoses),
		slog.Uint64("cursor_moves", s.CursorMoves),
		slog.Uint64("blink_groups", s.BlinkGroups),
		slog.Uint64("long_blink_ticks", s.LongBlinkTick),
		slog.Uint64("actions", s.ActionsFired),
		slog.Uint64("calibrations", s.Calibrations),
		slog.Time("last_sample", s.LastSample),
	)
}
