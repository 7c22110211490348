package store

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/omni/oracle-relay/message"
)

// PrunePolicy bounds every series. Zero SlotWindow or MaxAge disables that rule.
type PrunePolicy struct {
	// SlotWindow keeps entries whose slot is within the window ending at the
	// newest slot of their series.
	SlotWindow uint64
	MaxAge     time.Duration
	Now        time.Time
}

// Prune evicts entries outside the policy and returns their count. The entry
// a Latest query resolves to is always kept.
func (s *Store) Prune(policy PrunePolicy) int {
	if policy.SlotWindow == 0 && policy.MaxAge == 0 {
		return 0
	}
	if policy.Now.IsZero() {
		policy.Now = time.Now()
	}
	minPublishTime := policy.Now.Add(-policy.MaxAge).Unix()

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	next := &snapshot{
		series:  make(map[message.Identifier]series, len(old.series)),
		entries: old.entries,
		maxSlot: old.maxSlot,
	}
	evicted := 0
	for id, ser := range old.series {
		var maxSlot uint64
		for _, e := range ser {
			if e.Slot > maxSlot {
				maxSlot = e.Slot
			}
		}
		last := len(ser) - 1
		kept := make(series, 0, len(ser))
		for i, e := range ser {
			expired := (policy.SlotWindow > 0 && maxSlot-e.Slot >= policy.SlotWindow) ||
				(policy.MaxAge > 0 && e.PublishTime < minPublishTime)
			if expired && i != last {
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == len(ser) {
			kept = ser
		}
		evicted += len(ser) - len(kept)
		next.series[id] = kept
	}
	if evicted == 0 {
		return 0
	}
	next.entries -= evicted
	s.current.Store(next)

	PrunedEntries.Add(float64(evicted))
	EntriesCount.Set(float64(next.entries))
	s.logger.WithFields(logrus.Fields{
		"evicted":     evicted,
		"entries":     next.entries,
		"slot_window": policy.SlotWindow,
		"max_age":     policy.MaxAge,
	}).Info("pruned store")
	return evicted
}
