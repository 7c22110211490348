package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omni/oracle-relay/store"
)

func (r *Relay) prunePolicy(now time.Time) store.PrunePolicy {
	window := r.retention.SlotWindow
	if window == 0 {
		window = r.retention.RingMultiple * uint64(r.lastRingSize.Load())
	}
	return store.PrunePolicy{
		SlotWindow: window,
		MaxAge:     r.retention.MaxAge,
		Now:        now,
	}
}

func (r *Relay) Prune(now time.Time) int {
	return r.store.Prune(r.prunePolicy(now))
}

// StartPruner runs Prune on the configured schedule until ctx is done.
func (r *Relay) StartPruner(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(r.retention.PruneSchedule, func() {
		r.Prune(time.Now())
	})
	if err != nil {
		return fmt.Errorf("can't schedule store pruning: %w", err)
	}
	r.logger.WithField("schedule", r.retention.PruneSchedule).Info("starting store pruner")
	c.Start()
	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return nil
}
