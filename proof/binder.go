package proof

import (
	"errors"
	"fmt"

	"github.com/omni/oracle-relay/accumulator"
	"github.com/omni/oracle-relay/entity"
)

var (
	ErrBinding      = errors.New("can't bind proofs")
	ErrMissingProof = fmt.Errorf("%w: missing proof", ErrBinding)
	ErrExtraProof   = fmt.Errorf("%w: more proofs than messages", ErrBinding)
	ErrSlotMismatch = fmt.Errorf("%w: payload and snapshot slots differ", ErrBinding)
	ErrRingMismatch = fmt.Errorf("%w: payload and snapshot ring sizes differ", ErrBinding)
)

// Bind pairs paths[i] with msgs.Messages[i]. Every message must get exactly one path.
func Bind(payload *accumulator.WormholePayload, msgs *accumulator.AccumulatorMessages, paths []entity.MerklePath) ([]entity.ProofSet, error) {
	if payload.Slot != msgs.Slot {
		return nil, fmt.Errorf("%w: %d != %d", ErrSlotMismatch, payload.Slot, msgs.Slot)
	}
	if payload.RingSize != msgs.RingSize {
		return nil, fmt.Errorf("%w at slot %d: %d != %d", ErrRingMismatch, msgs.Slot, payload.RingSize, msgs.RingSize)
	}
	if len(paths) > len(msgs.Messages) {
		return nil, fmt.Errorf("%w: %d proofs for %d messages", ErrExtraProof, len(paths), len(msgs.Messages))
	}
	res := make([]entity.ProofSet, len(msgs.Messages))
	for i := range msgs.Messages {
		if i >= len(paths) || paths[i] == nil {
			return nil, fmt.Errorf("%w for message %d at slot %d", ErrMissingProof, i, msgs.Slot)
		}
		res[i] = entity.ProofSet{
			WormholeMerkleProof: entity.MerkleMessageProof{
				VAA:      payload.VAA,
				Root:     payload.Root,
				Slot:     payload.Slot,
				RingSize: payload.RingSize,
				Path:     paths[i],
			},
		}
	}
	return res, nil
}
