package accumulator

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AccumulatorMessages is one ring-buffer snapshot: the raw records attested by
// a single root at Slot.
type AccumulatorMessages struct {
	Magic    [4]byte
	Slot     uint64
	RingSize uint32
	Messages [][]byte
}

func RingIndex(slot uint64, ringSize uint32) (uint32, error) {
	if ringSize == 0 {
		return 0, fmt.Errorf("%w: ring size is zero at slot %d", ErrInvalidRingConfiguration, slot)
	}
	return uint32(slot % uint64(ringSize)), nil
}

func (m *AccumulatorMessages) RingIndex() (uint32, error) {
	return RingIndex(m.Slot, m.RingSize)
}

// DecodeAccumulatorMessages reads the little-endian, length-prefixed snapshot
// layout: magic[4] slot:u64 ring_size:u32 count:u32 {len:u32 bytes}*count.
func DecodeAccumulatorMessages(b []byte) (*AccumulatorMessages, error) {
	d := decoder{buf: b}
	res := new(AccumulatorMessages)
	copy(res.Magic[:], d.take(4, "magic"))
	res.Slot = d.uint64("slot")
	res.RingSize = d.uint32("ring_size")
	count := d.uint32("messages count")
	if d.err != nil {
		return nil, d.err
	}
	// every record needs at least its 4-byte length prefix
	if uint64(count)*4 > uint64(len(b)-d.off) {
		return nil, fmt.Errorf("%w: %d messages can't fit in %d bytes", ErrCorrupt, count, len(b)-d.off)
	}
	res.Messages = make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		n := d.uint32("message length")
		msg := d.take(int(n), "message")
		if d.err != nil {
			return nil, fmt.Errorf("message %d: %w", i, d.err)
		}
		res.Messages = append(res.Messages, append([]byte(nil), msg...))
	}
	if d.off != len(b) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(b)-d.off)
	}
	return res, nil
}

func (m *AccumulatorMessages) MarshalBinary() ([]byte, error) {
	if len(m.Messages) > math.MaxUint32 {
		return nil, fmt.Errorf("too many messages: %d", len(m.Messages))
	}
	size := 4 + 8 + 4 + 4
	for _, msg := range m.Messages {
		size += 4 + len(msg)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, m.Magic[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, m.Slot)
	buf = binary.LittleEndian.AppendUint32(buf, m.RingSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Messages)))
	for _, msg := range m.Messages {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(msg)))
		buf = append(buf, msg...)
	}
	return buf, nil
}

// decoder records the first short read and turns every later read into a no-op.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) take(n int, field string) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.buf)-d.off {
		d.err = fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left", ErrCorrupt, field, n, d.off, len(d.buf)-d.off)
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) uint64(field string) uint64 {
	b := d.take(8, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) uint32(field string) uint32 {
	b := d.take(4, field)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}
