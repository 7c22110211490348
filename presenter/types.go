package presenter

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/message"
)

type FeedIDInfo struct {
	ID   common.Hash `json:"id"`
	Type string      `json:"type"`
}

type PriceFeedResult struct {
	ID          common.Hash      `json:"id"`
	Type        string           `json:"type"`
	Slot        uint64           `json:"slot"`
	PublishTime int64            `json:"publish_time"`
	Message     message.Message  `json:"message"`
	Proof       *entity.ProofSet `json:"proof,omitempty"`
	RawMessage  hexutil.Bytes    `json:"raw_message,omitempty"`
	UpdateData  []hexutil.Bytes  `json:"update_data,omitempty"`
}

func toFeedIDInfo(id message.Identifier) *FeedIDInfo {
	return &FeedIDInfo{
		ID:   id.PriceID,
		Type: id.Type.String(),
	}
}

func toPriceFeedResult(state *entity.MessageState, verbose bool) *PriceFeedResult {
	res := &PriceFeedResult{
		ID:          state.ID.PriceID,
		Type:        state.ID.Type.String(),
		Slot:        state.Slot,
		PublishTime: state.PublishTime,
		Message:     state.Message,
	}
	if verbose {
		res.Proof = &state.ProofSet
		res.RawMessage = state.RawMessage
	}
	return res
}
