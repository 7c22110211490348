package accumulator

import (
	"encoding/binary"
	"fmt"

	"github.com/omni/oracle-relay/entity"
)

const (
	// PayloadMagic is "AUWV" read as a big-endian uint32.
	PayloadMagic uint32 = 0x41555756
	PayloadSize         = 37
)

type PayloadType uint8

const (
	PayloadTypeMerkle PayloadType = 0
)

// WormholePayload is the header of an attested Merkle accumulator.
type WormholePayload struct {
	Root     entity.Digest
	Slot     uint64
	RingSize uint32
	VAA      []byte
}

func (p *WormholePayload) RingIndex() (uint32, error) {
	return RingIndex(p.Slot, p.RingSize)
}

// DecodeWormholePayload parses the 37-byte payload carried by a VAA. vaa is kept
// verbatim in the result.
func DecodeWormholePayload(payload, vaa []byte) (*WormholePayload, error) {
	if len(payload) != PayloadSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(payload), PayloadSize)
	}
	if magic := binary.BigEndian.Uint32(payload[0:4]); magic != PayloadMagic {
		return nil, fmt.Errorf("%w: 0x%08x", ErrInvalidMagic, magic)
	}
	if t := PayloadType(payload[4]); t != PayloadTypeMerkle {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMessageType, t)
	}
	res := &WormholePayload{
		Slot:     binary.BigEndian.Uint64(payload[5:13]),
		RingSize: binary.BigEndian.Uint32(payload[13:17]),
		VAA:      vaa,
	}
	copy(res.Root[:], payload[17:37])
	return res, nil
}

// EncodePayload is the inverse of DecodeWormholePayload; VAA is not part of the output.
func EncodePayload(p *WormholePayload) []byte {
	buf := make([]byte, 0, PayloadSize)
	buf = binary.BigEndian.AppendUint32(buf, PayloadMagic)
	buf = append(buf, byte(PayloadTypeMerkle))
	buf = binary.BigEndian.AppendUint64(buf, p.Slot)
	buf = binary.BigEndian.AppendUint32(buf, p.RingSize)
	return append(buf, p.Root[:]...)
}
