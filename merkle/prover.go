package merkle

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/oracle-relay/accumulator"
	"github.com/omni/oracle-relay/entity"
)

var ErrRootMismatch = errors.New("accumulator root mismatch")

// Prover builds inclusion paths for a snapshot and checks them against the
// attested root.
type Prover struct{}

func NewProver() *Prover {
	return &Prover{}
}

func (p *Prover) Build(ctx context.Context, payload *accumulator.WormholePayload, msgs *accumulator.AccumulatorMessages) ([]entity.MerklePath, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree := NewTree(msgs.Messages)
	if root := tree.Root(); root != payload.Root {
		return nil, fmt.Errorf("%w at slot %d: computed %s, attested %s", ErrRootMismatch, payload.Slot,
			hexutil.Encode(root[:]), hexutil.Encode(payload.Root[:]))
	}
	paths := make([]entity.MerklePath, tree.Len())
	for i := range paths {
		paths[i], _ = tree.Path(i)
	}
	return paths, nil
}
