package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/omni/oracle-relay/accumulator"
	"github.com/omni/oracle-relay/config"
	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/logging"
	"github.com/omni/oracle-relay/message"
	"github.com/omni/oracle-relay/proof"
	"github.com/omni/oracle-relay/store"
)

var ErrUnknownUpdate = errors.New("unknown update kind")

// ProofBuilder constructs one inclusion path per snapshot message, in order.
type ProofBuilder interface {
	Build(ctx context.Context, payload *accumulator.WormholePayload, msgs *accumulator.AccumulatorMessages) ([]entity.MerklePath, error)
}

type pendingSlot struct {
	payload  *accumulator.WormholePayload
	messages *accumulator.AccumulatorMessages
}

// Relay turns attested updates into committed store batches. The two halves of
// a slot (VAA and snapshot) may arrive in any order; a slot is committed once
// both are present.
type Relay struct {
	logger       logging.Logger
	retention    *config.RetentionConfig
	store        *store.Store
	builder      ProofBuilder
	mu           sync.Mutex
	pending      *lru.Cache[uint64, *pendingSlot]
	lastRingSize atomic.Uint32
}

func New(logger logging.Logger, cfg *config.Config, st *store.Store, builder ProofBuilder) (*Relay, error) {
	pending, err := lru.New[uint64, *pendingSlot](cfg.Relay.PendingSlots)
	if err != nil {
		return nil, fmt.Errorf("can't create pending slots cache: %w", err)
	}
	return &Relay{
		logger:    logger,
		retention: cfg.Retention,
		store:     st,
		builder:   builder,
		pending:   pending,
	}, nil
}

func RingIndex(slot uint64, ringSize uint32) (uint32, error) {
	return accumulator.RingIndex(slot, ringSize)
}

func (r *Relay) Query(id message.Identifier, when entity.RequestTime) *entity.MessageState {
	return r.store.Query(id, when)
}

// Ingest feeds one update through the pipeline. On error the update is
// dropped together with any pending half of its slot, when the slot is known;
// the store is left untouched.
func (r *Relay) Ingest(ctx context.Context, update Update) error {
	if update == nil {
		return ErrUnknownUpdate
	}
	kind := update.kind()
	defer ObserveDuration(kind)()

	var err error
	switch u := update.(type) {
	case VAAUpdate:
		err = r.ingestVAA(ctx, u)
	case *AccumulatorUpdate:
		if u == nil {
			err = fmt.Errorf("%w: nil accumulator update", ErrUnknownUpdate)
			break
		}
		err = r.ingestMessages(ctx, u.Messages)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownUpdate, update)
	}
	ObserveResult(kind, err)
	return err
}

func (r *Relay) ingestVAA(ctx context.Context, raw VAAUpdate) error {
	payload, err := accumulator.DecodeVAAPayload(raw)
	if err != nil {
		return fmt.Errorf("can't decode wormhole payload: %w", err)
	}
	if _, err = payload.RingIndex(); err != nil {
		r.dropPending(payload.Slot)
		return err
	}
	r.logger.WithFields(logrus.Fields{
		"slot":      payload.Slot,
		"ring_size": payload.RingSize,
	}).Debug("received accumulator root")

	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pendingFor(payload.Slot)
	p.payload = payload
	return r.tryCommit(ctx, payload.Slot, p)
}

func (r *Relay) ingestMessages(ctx context.Context, msgs *accumulator.AccumulatorMessages) error {
	if msgs == nil {
		return fmt.Errorf("%w: empty accumulator update", ErrUnknownUpdate)
	}
	ringIndex, err := msgs.RingIndex()
	if err != nil {
		r.dropPending(msgs.Slot)
		return err
	}
	r.logger.WithFields(logrus.Fields{
		"slot":       msgs.Slot,
		"ring_index": ringIndex,
		"count":      len(msgs.Messages),
	}).Debug("received accumulator messages")

	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.pendingFor(msgs.Slot)
	p.messages = msgs
	return r.tryCommit(ctx, msgs.Slot, p)
}

func (r *Relay) pendingFor(slot uint64) *pendingSlot {
	p, ok := r.pending.Get(slot)
	if !ok {
		p = new(pendingSlot)
		r.pending.Add(slot, p)
		PendingSlots.Set(float64(r.pending.Len()))
	}
	return p
}

func (r *Relay) dropPending(slot uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending.Remove(slot) {
		PendingSlots.Set(float64(r.pending.Len()))
	}
}

// HasPending reports whether one half of slot is waiting for the other.
func (r *Relay) HasPending(slot uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending.Contains(slot)
}

func (r *Relay) tryCommit(ctx context.Context, slot uint64, p *pendingSlot) error {
	if p.payload == nil || p.messages == nil {
		return nil
	}
	r.pending.Remove(slot)
	PendingSlots.Set(float64(r.pending.Len()))

	states, err := r.buildStates(ctx, p)
	if err != nil {
		return fmt.Errorf("can't build batch for slot %d: %w", slot, err)
	}
	if err = r.store.UpsertBatch(states); err != nil {
		return fmt.Errorf("can't commit batch for slot %d: %w", slot, err)
	}
	r.lastRingSize.Store(p.messages.RingSize)
	CommittedBatches.Inc()
	r.logger.WithFields(logrus.Fields{
		"slot":  slot,
		"count": len(states),
	}).Info("committed accumulator batch")
	return nil
}

func (r *Relay) buildStates(ctx context.Context, p *pendingSlot) ([]*entity.MessageState, error) {
	paths, err := r.builder.Build(ctx, p.payload, p.messages)
	if err != nil {
		return nil, fmt.Errorf("can't construct inclusion proofs: %w", err)
	}
	proofSets, err := proof.Bind(p.payload, p.messages, paths)
	if err != nil {
		return nil, err
	}
	states := make([]*entity.MessageState, 0, len(p.messages.Messages))
	for i, raw := range p.messages.Messages {
		msg, err := message.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		states = append(states, entity.NewMessageState(msg, raw, proofSets[i], p.messages.Slot))
	}
	return states, nil
}

// Run ingests updates until ctx is done or the channel is closed. Failed
// updates are logged and skipped.
func (r *Relay) Run(ctx context.Context, updates <-chan Update) {
	r.logger.Info("starting updates ingestion")
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				r.logger.Info("updates stream closed")
				return
			}
			if err := r.Ingest(ctx, update); err != nil {
				r.logger.WithError(err).WithField("kind", update.kind()).Warn("dropped update")
			}
		}
	}
}
