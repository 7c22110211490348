package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/message"
)

func TestMessageTimeCompare(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		A, B     entity.MessageTime
		Expected int
	}{
		{entity.MessageTime{PublishTime: 1000, Slot: 5}, entity.MessageTime{PublishTime: 1000, Slot: 5}, 0},
		{entity.MessageTime{PublishTime: 999, Slot: 9}, entity.MessageTime{PublishTime: 1000, Slot: 5}, -1},
		{entity.MessageTime{PublishTime: 1000, Slot: 6}, entity.MessageTime{PublishTime: 1000, Slot: 5}, 1},
		{entity.MessageTime{PublishTime: 1001, Slot: 0}, entity.MessageTime{PublishTime: 1000, Slot: 5}, 1},
	} {
		require.Equal(t, test.Expected, test.A.Compare(test.B), "%+v vs %+v", test.A, test.B)
		require.Equal(t, test.Expected < 0, test.A.Less(test.B))
	}
}

func TestNewMessageState(t *testing.T) {
	t.Parallel()

	feedID := common.HexToHash("0x01")
	msg := &message.TwapMessage{FeedID: feedID, PublishTimeSec: 1005}
	raw, err := msg.MarshalBinary()
	require.NoError(t, err)

	state := entity.NewMessageState(msg, raw, entity.ProofSet{}, 6)
	require.Equal(t, message.Identifier{PriceID: feedID, Type: message.TypeTwap}, state.Key())
	require.Equal(t, entity.MessageTime{PublishTime: 1005, Slot: 6}, state.Time())
	require.Equal(t, raw, state.RawMessage)
}

func TestProofSetJSON(t *testing.T) {
	t.Parallel()

	var root entity.Digest
	root[19] = 0xab
	blob, err := json.Marshal(entity.ProofSet{WormholeMerkleProof: entity.MerkleMessageProof{
		VAA:      []byte{0x01, 0x02},
		Root:     root,
		Slot:     130,
		RingSize: 64,
		Path:     entity.MerklePath{root},
	}})
	require.NoError(t, err)
	require.JSONEq(t, `{"wormhole_merkle_proof": {
		"vaa": "0x0102",
		"root": "0x00000000000000000000000000000000000000ab",
		"slot": 130,
		"ring_size": 64,
		"path": ["0x00000000000000000000000000000000000000ab"]
	}}`, string(blob))

	require.Equal(t, "latest", entity.Latest().String())
	require.Equal(t, "first_after(1000)", entity.FirstAfter(1000).String())
}
