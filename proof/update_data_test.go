package proof_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/proof"
)

func testState(vaa []byte, raw []byte, path entity.MerklePath) *entity.MessageState {
	return &entity.MessageState{
		RawMessage: raw,
		ProofSet: entity.ProofSet{WormholeMerkleProof: entity.MerkleMessageProof{
			VAA:  vaa,
			Path: path,
		}},
	}
}

func TestEncodeUpdateDataLayout(t *testing.T) {
	t.Parallel()

	vaa := []byte{0xca, 0xfe}
	path := append(testPath(7), testPath(8)...)
	res, err := proof.EncodeUpdateData([]*entity.MessageState{
		testState(vaa, []byte{0x01, 0x02, 0x03}, path),
	})
	require.NoError(t, err)
	require.Len(t, res, 1)

	expected := new(bytes.Buffer)
	expected.WriteString("PNAU")
	expected.Write([]byte{1, 0, 0, 0})
	expected.Write([]byte{0, 2, 0xca, 0xfe})
	expected.WriteByte(1)
	expected.Write([]byte{0, 3, 0x01, 0x02, 0x03})
	expected.WriteByte(2)
	expected.Write(path[0][:])
	expected.Write(path[1][:])
	require.Equal(t, expected.Bytes(), res[0])
}

func TestEncodeUpdateDataGrouping(t *testing.T) {
	t.Parallel()

	vaaA, vaaB := []byte{0xa}, []byte{0xb}
	states := []*entity.MessageState{
		testState(vaaB, []byte{1}, testPath(1)),
		testState(vaaA, []byte{2}, testPath(2)),
		testState(vaaB, []byte{3}, testPath(3)),
	}
	res, err := proof.EncodeUpdateData(states)
	require.NoError(t, err)
	require.Len(t, res, 2)

	// first seen vaa goes first
	require.Equal(t, uint16(1), binary.BigEndian.Uint16(res[0][8:10]))
	require.Equal(t, vaaB[0], res[0][10])
	require.Equal(t, byte(2), res[0][11])
	require.Equal(t, vaaA[0], res[1][10])
	require.Equal(t, byte(1), res[1][11])

	res, err = proof.EncodeUpdateData(nil)
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestEncodeUpdateDataChunks(t *testing.T) {
	t.Parallel()

	vaa := []byte{0x01}
	states := make([]*entity.MessageState, 300)
	for i := range states {
		states[i] = testState(vaa, []byte{byte(i)}, testPath(byte(i)))
	}
	res, err := proof.EncodeUpdateData(states)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, byte(255), res[0][11])
	require.Equal(t, byte(45), res[1][11])
}

func TestEncodeUpdateDataTooLarge(t *testing.T) {
	t.Parallel()

	_, err := proof.EncodeUpdateData([]*entity.MessageState{
		testState(make([]byte, 1<<16), []byte{1}, testPath(1)),
	})
	require.ErrorIs(t, err, proof.ErrUpdateTooLarge)

	_, err = proof.EncodeUpdateData([]*entity.MessageState{
		testState([]byte{1}, make([]byte, 1<<16), testPath(1)),
	})
	require.ErrorIs(t, err, proof.ErrUpdateTooLarge)

	_, err = proof.EncodeUpdateData([]*entity.MessageState{
		testState([]byte{1}, []byte{1}, make(entity.MerklePath, 256)),
	})
	require.ErrorIs(t, err, proof.ErrUpdateTooLarge)
}
