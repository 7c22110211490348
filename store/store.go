package store

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/logging"
	"github.com/omni/oracle-relay/message"
)

var (
	ErrMixedSlots = errors.New("batch records belong to different slots")
	ErrNilRecord  = errors.New("batch contains nil record")
)

// series is sorted by (publish_time, slot) and never modified once published.
type series []*entity.MessageState

type snapshot struct {
	series  map[message.Identifier]series
	entries int
	maxSlot uint64
}

// Store is an in-memory time-series index of message states. Readers work on
// immutable snapshots; writers build a new snapshot under mu and swap it in, so
// a batch is observed either completely or not at all.
type Store struct {
	logger  logging.Logger
	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

func New(logger logging.Logger) *Store {
	s := &Store{logger: logger}
	s.current.Store(&snapshot{series: make(map[message.Identifier]series)})
	return s
}

func (s *Store) UpsertBatch(records []*entity.MessageState) error {
	if len(records) == 0 {
		return nil
	}
	for i, rec := range records {
		if rec == nil {
			return fmt.Errorf("%w at index %d", ErrNilRecord, i)
		}
		if rec.Slot != records[0].Slot {
			return fmt.Errorf("%w: %d and %d", ErrMixedSlots, records[0].Slot, rec.Slot)
		}
	}
	slot := records[0].Slot

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	next := &snapshot{
		series:  make(map[message.Identifier]series, len(old.series)+len(records)),
		entries: old.entries,
		maxSlot: old.maxSlot,
	}
	if slot > next.maxSlot {
		next.maxSlot = slot
	}
	for id, ser := range old.series {
		next.series[id] = ser
	}
	for _, rec := range records {
		prev := next.series[rec.ID]
		updated := prev.with(rec)
		next.entries += len(updated) - len(prev)
		next.series[rec.ID] = updated
	}
	s.current.Store(next)

	UpsertedRecords.Add(float64(len(records)))
	SeriesCount.Set(float64(len(next.series)))
	EntriesCount.Set(float64(next.entries))
	MaxCommittedSlot.Set(float64(next.maxSlot))
	s.logger.WithFields(logrus.Fields{
		"slot":  slot,
		"count": len(records),
	}).Debug("committed batch")
	return nil
}

// with returns a copy of ser holding rec in place of any entry at the same slot.
func (ser series) with(rec *entity.MessageState) series {
	res := make(series, 0, len(ser)+1)
	for _, e := range ser {
		if e.Slot != rec.Slot {
			res = append(res, e)
		}
	}
	t := rec.Time()
	i := sort.Search(len(res), func(i int) bool {
		return t.Less(res[i].Time())
	})
	res = append(res, nil)
	copy(res[i+1:], res[i:])
	res[i] = rec
	return res
}

func (ser series) find(when entity.RequestTime) *entity.MessageState {
	if len(ser) == 0 {
		return nil
	}
	switch when.Kind {
	case entity.RequestLatest:
		return ser[len(ser)-1]
	case entity.RequestFirstAfter:
		i := sort.Search(len(ser), func(i int) bool {
			return ser[i].PublishTime >= when.Timestamp
		})
		if i == len(ser) {
			return nil
		}
		return ser[i]
	default:
		return nil
	}
}

// Query returns nil when nothing matches.
func (s *Store) Query(id message.Identifier, when entity.RequestTime) *entity.MessageState {
	return s.current.Load().series[id].find(when)
}

// QueryMany resolves all ids against the same snapshot. Misses are nil.
func (s *Store) QueryMany(ids []message.Identifier, when entity.RequestTime) []*entity.MessageState {
	snap := s.current.Load()
	res := make([]*entity.MessageState, len(ids))
	for i, id := range ids {
		res[i] = snap.series[id].find(when)
	}
	return res
}

func (s *Store) Identifiers() []message.Identifier {
	snap := s.current.Load()
	res := make([]message.Identifier, 0, len(snap.series))
	for id := range snap.series {
		res = append(res, id)
	}
	sort.Slice(res, func(i, j int) bool {
		if c := bytes.Compare(res[i].PriceID[:], res[j].PriceID[:]); c != 0 {
			return c < 0
		}
		return res[i].Type < res[j].Type
	})
	return res
}

func (s *Store) Len(id message.Identifier) int {
	return len(s.current.Load().series[id])
}

// MaxSlot is the highest slot ever committed, regardless of arrival order.
func (s *Store) MaxSlot() uint64 {
	return s.current.Load().maxSlot
}

func (s *Store) Entries() int {
	return s.current.Load().entries
}
