package message

import (
	"encoding"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrParse              = errors.New("can't parse price message")
	ErrUnknownMessageType = fmt.Errorf("%w: unknown message type", ErrParse)
	ErrTruncated          = fmt.Errorf("%w: truncated message", ErrParse)
)

type Type uint8

const (
	TypePriceFeed Type = iota
	TypeTwap
)

func (t Type) String() string {
	switch t {
	case TypePriceFeed:
		return "price_feed"
	case TypeTwap:
		return "twap"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

func ParseType(s string) (Type, error) {
	switch s {
	case "price_feed", "":
		return TypePriceFeed, nil
	case "twap":
		return TypeTwap, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownMessageType, s)
	}
}

// Identifier is the storage key of a series. It does not depend on slot or time.
type Identifier struct {
	PriceID common.Hash
	Type    Type
}

func (id Identifier) String() string {
	return id.Type.String() + ":" + id.PriceID.Hex()
}

// Message is a typed price update. The set of implementations is closed.
type Message interface {
	encoding.BinaryMarshaler
	Type() Type
	ID() Identifier
	PublishTime() int64
	isMessage()
}

type PriceFeedMessage struct {
	FeedID          common.Hash `json:"feed_id"`
	Price           int64       `json:"price"`
	Conf            uint64      `json:"conf"`
	Exponent        int32       `json:"exponent"`
	PublishTimeSec  int64       `json:"publish_time"`
	PrevPublishTime int64       `json:"prev_publish_time"`
	EmaPrice        int64       `json:"ema_price"`
	EmaConf         uint64      `json:"ema_conf"`
}

func (m *PriceFeedMessage) Type() Type {
	return TypePriceFeed
}

func (m *PriceFeedMessage) ID() Identifier {
	return Identifier{PriceID: m.FeedID, Type: TypePriceFeed}
}

func (m *PriceFeedMessage) PublishTime() int64 {
	return m.PublishTimeSec
}

func (*PriceFeedMessage) isMessage() {}

type TwapMessage struct {
	FeedID          common.Hash `json:"feed_id"`
	CumulativePrice Int128      `json:"cumulative_price"`
	CumulativeConf  Uint128     `json:"cumulative_conf"`
	NumDownSlots    uint64      `json:"num_down_slots"`
	Exponent        int32       `json:"exponent"`
	PublishTimeSec  int64       `json:"publish_time"`
	PrevPublishTime int64       `json:"prev_publish_time"`
	PublishSlot     uint64      `json:"publish_slot"`
}

func (m *TwapMessage) Type() Type {
	return TypeTwap
}

func (m *TwapMessage) ID() Identifier {
	return Identifier{PriceID: m.FeedID, Type: TypeTwap}
}

func (m *TwapMessage) PublishTime() int64 {
	return m.PublishTimeSec
}

func (*TwapMessage) isMessage() {}

// Int128 and Uint128 keep the big-endian wire representation; the relay never
// does arithmetic on cumulative values.
type (
	Int128  [16]byte
	Uint128 [16]byte
)
