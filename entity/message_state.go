package entity

import (
	"github.com/omni/oracle-relay/message"
)

// MessageTime orders records of one series by (publish_time, slot).
type MessageTime struct {
	PublishTime int64
	Slot        uint64
}

func (t MessageTime) Compare(o MessageTime) int {
	switch {
	case t.PublishTime < o.PublishTime:
		return -1
	case t.PublishTime > o.PublishTime:
		return 1
	case t.Slot < o.Slot:
		return -1
	case t.Slot > o.Slot:
		return 1
	default:
		return 0
	}
}

func (t MessageTime) Less(o MessageTime) bool {
	return t.Compare(o) < 0
}

// MessageState is an immutable, proof-bound record. Build it with NewMessageState.
type MessageState struct {
	PublishTime int64
	Slot        uint64
	ID          message.Identifier
	Message     message.Message
	RawMessage  []byte
	ProofSet    ProofSet
}

func NewMessageState(msg message.Message, raw []byte, proofSet ProofSet, slot uint64) *MessageState {
	return &MessageState{
		PublishTime: msg.PublishTime(),
		Slot:        slot,
		ID:          msg.ID(),
		Message:     msg,
		RawMessage:  raw,
		ProofSet:    proofSet,
	}
}

func (s *MessageState) Time() MessageTime {
	return MessageTime{PublishTime: s.PublishTime, Slot: s.Slot}
}

func (s *MessageState) Key() message.Identifier {
	return s.ID
}
