package service

import (
	"context"
	"log"
	"time"
)

// AdRetentionWorker periodically deletes ad-watch events that fell out of the
// rolling window, so the log does not grow without bound.
type AdRetentionWorker struct {
	ads      *AdService
	interval time.Duration
}

func NewAdRetentionWorker(ads *AdService, interval time.Duration) *AdRetentionWorker {
	return &AdRetentionWorker{
		ads:      ads,
		interval: interval,
	}
}

func (w *AdRetentionWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		log.Println("[Ad Retention] Disabled")
		return
	}

	log.Printf("[Ad Retention] Started, pruning every %v", w.interval)

	w.prune(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Ad Retention] Stopped")
			return
		case <-ticker.C:
			w.prune(ctx)
		}
	}
}

func (w *AdRetentionWorker) prune(ctx context.Context) {
	deleted, err := w.ads.PruneExpired(ctx)
	if err != nil {
		log.Printf("[Ad Retention] Failed to prune ad watches: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Ad Retention] Pruned %d ad watches", deleted)
	}
}
