package accumulator_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/oracle-relay/accumulator"
	"github.com/omni/oracle-relay/entity"
)

func testDigest(seed byte) entity.Digest {
	var d entity.Digest
	for i := range d {
		d[i] = seed + byte(i)
	}
	return d
}

func TestDecodeWormholePayload(t *testing.T) {
	t.Parallel()

	vaa := []byte("attested envelope")
	for _, test := range []struct {
		Name     string
		Slot     uint64
		RingSize uint32
		Root     entity.Digest
	}{
		{"Zero values", 0, 0, entity.Digest{}},
		{"Regular slot", 130, 64, testDigest(1)},
		{"Max values", math.MaxUint64, math.MaxUint32, testDigest(200)},
	} {
		t.Logf("Running sub-test %q", test.Name)
		raw := accumulator.EncodePayload(&accumulator.WormholePayload{
			Root:     test.Root,
			Slot:     test.Slot,
			RingSize: test.RingSize,
		})
		require.Len(t, raw, accumulator.PayloadSize)

		res, err := accumulator.DecodeWormholePayload(raw, vaa)
		require.NoError(t, err, "Failed %s", test.Name)
		require.Equal(t, &accumulator.WormholePayload{
			Root:     test.Root,
			Slot:     test.Slot,
			RingSize: test.RingSize,
			VAA:      vaa,
		}, res, "Failed %s", test.Name)
	}
}

func TestDecodeWormholePayloadLayout(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 37)
	copy(raw, "AUWV")
	raw[4] = 0
	binary.BigEndian.PutUint64(raw[5:13], 0x0102030405060708)
	binary.BigEndian.PutUint32(raw[13:17], 0x0a0b0c0d)
	for i := 17; i < 37; i++ {
		raw[i] = byte(i)
	}

	res, err := accumulator.DecodeWormholePayload(raw, nil)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0102030405060708), res.Slot)
	require.Equal(t, uint32(0x0a0b0c0d), res.RingSize)
	require.Equal(t, raw[17:], res.Root.Bytes())
}

func TestDecodeWormholePayloadErrors(t *testing.T) {
	t.Parallel()

	valid := accumulator.EncodePayload(&accumulator.WormholePayload{Slot: 5, RingSize: 10, Root: testDigest(3)})
	withByte := func(i int, b byte) []byte {
		res := append([]byte(nil), valid...)
		res[i] = b
		return res
	}

	for _, test := range []struct {
		Name  string
		Input []byte
		Err   error
	}{
		{"Empty", nil, accumulator.ErrInvalidLength},
		{"Too short", valid[:36], accumulator.ErrInvalidLength},
		{"Too long", append(append([]byte(nil), valid...), 0), accumulator.ErrInvalidLength},
		{"Wrong magic", withByte(0, 'P'), accumulator.ErrInvalidMagic},
		{"Unsupported type", withByte(4, 1), accumulator.ErrUnsupportedMessageType},
	} {
		t.Logf("Running sub-test %q", test.Name)
		res, err := accumulator.DecodeWormholePayload(test.Input, nil)
		require.ErrorIs(t, err, test.Err, "Failed %s", test.Name)
		require.ErrorIs(t, err, accumulator.ErrFormat, "Failed %s", test.Name)
		require.Nil(t, res, "Failed %s", test.Name)
	}
}

func TestRingIndex(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		Slot     uint64
		RingSize uint32
		Expected uint32
	}{
		{130, 64, 2},
		{0, 1, 0},
		{63, 64, 63},
		{64, 64, 0},
		{math.MaxUint64, 10000, uint32(math.MaxUint64 % 10000)},
	} {
		res, err := accumulator.RingIndex(test.Slot, test.RingSize)
		require.NoError(t, err)
		require.Equal(t, test.Expected, res, "slot %d ring %d", test.Slot, test.RingSize)
	}

	_, err := accumulator.RingIndex(130, 0)
	require.ErrorIs(t, err, accumulator.ErrInvalidRingConfiguration)

	_, err = (&accumulator.AccumulatorMessages{Slot: 1}).RingIndex()
	require.ErrorIs(t, err, accumulator.ErrInvalidRingConfiguration)
}
