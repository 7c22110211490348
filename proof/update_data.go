package proof

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/omni/oracle-relay/entity"
)

const (
	updateDataMajorVersion = 1
	updateDataMinorVersion = 0
	updateTypeMerkle       = 0
	maxUpdatesPerChunk     = math.MaxUint8
)

var updateDataMagic = []byte("PNAU")

var ErrUpdateTooLarge = errors.New("update field exceeds wire limit")

// EncodeUpdateData serialises states into on-chain accumulator updates. States
// attested by the same VAA share one update, split every 255 messages.
func EncodeUpdateData(states []*entity.MessageState) ([][]byte, error) {
	var (
		order  [][]byte
		groups = make(map[string][]*entity.MessageState)
	)
	for _, s := range states {
		vaa := s.ProofSet.WormholeMerkleProof.VAA
		key := string(vaa)
		if _, ok := groups[key]; !ok {
			order = append(order, vaa)
		}
		groups[key] = append(groups[key], s)
	}

	res := make([][]byte, 0, len(order))
	for _, vaa := range order {
		group := groups[string(vaa)]
		for start := 0; start < len(group); start += maxUpdatesPerChunk {
			end := start + maxUpdatesPerChunk
			if end > len(group) {
				end = len(group)
			}
			data, err := encodeChunk(vaa, group[start:end])
			if err != nil {
				return nil, err
			}
			res = append(res, data)
		}
	}
	return res, nil
}

func encodeChunk(vaa []byte, states []*entity.MessageState) ([]byte, error) {
	if len(vaa) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: vaa has %d bytes", ErrUpdateTooLarge, len(vaa))
	}
	buf := new(bytes.Buffer)
	buf.Write(updateDataMagic)
	buf.WriteByte(updateDataMajorVersion)
	buf.WriteByte(updateDataMinorVersion)
	buf.WriteByte(0) // trailing header size
	buf.WriteByte(updateTypeMerkle)
	_ = binary.Write(buf, binary.BigEndian, uint16(len(vaa)))
	buf.Write(vaa)
	buf.WriteByte(byte(len(states)))
	for _, s := range states {
		if len(s.RawMessage) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: message %s has %d bytes", ErrUpdateTooLarge, s.ID, len(s.RawMessage))
		}
		path := s.ProofSet.WormholeMerkleProof.Path
		if len(path) > math.MaxUint8 {
			return nil, fmt.Errorf("%w: proof of %s has %d nodes", ErrUpdateTooLarge, s.ID, len(path))
		}
		_ = binary.Write(buf, binary.BigEndian, uint16(len(s.RawMessage)))
		buf.Write(s.RawMessage)
		buf.WriteByte(byte(len(path)))
		for _, node := range path {
			buf.Write(node[:])
		}
	}
	return buf.Bytes(), nil
}
