package relay

import (
	"fmt"

	"github.com/omni/oracle-relay/accumulator"
)

// Update is one inbound event: either half of an attested batch. The set of
// implementations is closed.
type Update interface {
	kind() string
}

// VAAUpdate carries raw envelope bytes whose signatures were verified upstream.
type VAAUpdate []byte

func (VAAUpdate) kind() string {
	return "vaa"
}

type AccumulatorUpdate struct {
	Messages *accumulator.AccumulatorMessages
}

func (*AccumulatorUpdate) kind() string {
	return "accumulator_messages"
}

func NewAccumulatorUpdate(raw []byte) (*AccumulatorUpdate, error) {
	msgs, err := accumulator.DecodeAccumulatorMessages(raw)
	if err != nil {
		return nil, fmt.Errorf("can't decode accumulator messages: %w", err)
	}
	return &AccumulatorUpdate{Messages: msgs}, nil
}
