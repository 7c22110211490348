package accumulator

import (
	"fmt"

	"github.com/wormhole-foundation/wormhole/sdk/vaa"
)

const vaaVersion = 1

// DecodeVAA parses a Wormhole envelope. Guardian signatures are carried but
// never checked here; callers hand over envelopes that were verified upstream.
func DecodeVAA(raw []byte) (*vaa.VAA, error) {
	if len(raw) > 0 && raw[0] != vaaVersion {
		return nil, fmt.Errorf("%w: vaa version %d", ErrUnsupportedMessageType, raw[0])
	}
	v, err := vaa.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTruncatedField, err)
	}
	return v, nil
}

// DecodeVAAPayload extracts and decodes the accumulator header carried by raw.
func DecodeVAAPayload(raw []byte) (*WormholePayload, error) {
	v, err := DecodeVAA(raw)
	if err != nil {
		return nil, err
	}
	return DecodeWormholePayload(v.Payload, raw)
}
