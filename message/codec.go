package message

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	priceFeedMessageSize = 1 + 32 + 8 + 8 + 4 + 8 + 8 + 8 + 8
	twapMessageSize      = 1 + 32 + 16 + 16 + 8 + 4 + 8 + 8 + 8
)

// Parse decodes one raw accumulator record. Bytes past the known layout are
// ignored so that producers may append fields.
func Parse(raw []byte) (Message, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty record", ErrTruncated)
	}
	switch Type(raw[0]) {
	case TypePriceFeed:
		if len(raw) < priceFeedMessageSize {
			return nil, fmt.Errorf("%w: price feed message has %d bytes, need %d", ErrTruncated, len(raw), priceFeedMessageSize)
		}
		r := reader{buf: raw[1:]}
		return &PriceFeedMessage{
			FeedID:          r.hash(),
			Price:           int64(r.uint64()),
			Conf:            r.uint64(),
			Exponent:        int32(r.uint32()),
			PublishTimeSec:  int64(r.uint64()),
			PrevPublishTime: int64(r.uint64()),
			EmaPrice:        int64(r.uint64()),
			EmaConf:         r.uint64(),
		}, nil
	case TypeTwap:
		if len(raw) < twapMessageSize {
			return nil, fmt.Errorf("%w: twap message has %d bytes, need %d", ErrTruncated, len(raw), twapMessageSize)
		}
		r := reader{buf: raw[1:]}
		msg := &TwapMessage{FeedID: r.hash()}
		copy(msg.CumulativePrice[:], r.next(16))
		copy(msg.CumulativeConf[:], r.next(16))
		msg.NumDownSlots = r.uint64()
		msg.Exponent = int32(r.uint32())
		msg.PublishTimeSec = int64(r.uint64())
		msg.PrevPublishTime = int64(r.uint64())
		msg.PublishSlot = r.uint64()
		return msg, nil
	default:
		return nil, fmt.Errorf("%w: discriminator %d", ErrUnknownMessageType, raw[0])
	}
}

func (m *PriceFeedMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, priceFeedMessageSize)
	buf = append(buf, byte(TypePriceFeed))
	buf = append(buf, m.FeedID.Bytes()...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.Price))
	buf = binary.BigEndian.AppendUint64(buf, m.Conf)
	buf = binary.BigEndian.AppendUint32(buf, uint32(m.Exponent))
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.PublishTimeSec))
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.PrevPublishTime))
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.EmaPrice))
	buf = binary.BigEndian.AppendUint64(buf, m.EmaConf)
	return buf, nil
}

func (m *TwapMessage) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, twapMessageSize)
	buf = append(buf, byte(TypeTwap))
	buf = append(buf, m.FeedID.Bytes()...)
	buf = append(buf, m.CumulativePrice[:]...)
	buf = append(buf, m.CumulativeConf[:]...)
	buf = binary.BigEndian.AppendUint64(buf, m.NumDownSlots)
	buf = binary.BigEndian.AppendUint32(buf, uint32(m.Exponent))
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.PublishTimeSec))
	buf = binary.BigEndian.AppendUint64(buf, uint64(m.PrevPublishTime))
	buf = binary.BigEndian.AppendUint64(buf, m.PublishSlot)
	return buf, nil
}

func (v Int128) MarshalText() ([]byte, error) {
	return hexutil.Bytes(v[:]).MarshalText()
}

func (v Uint128) MarshalText() ([]byte, error) {
	return hexutil.Bytes(v[:]).MarshalText()
}

// reader walks a buffer whose length was checked up front.
type reader struct {
	buf []byte
	off int
}

func (r *reader) next(n int) []byte {
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) hash() common.Hash {
	return common.BytesToHash(r.next(common.HashLength))
}

func (r *reader) uint64() uint64 {
	return binary.BigEndian.Uint64(r.next(8))
}

func (r *reader) uint32() uint32 {
	return binary.BigEndian.Uint32(r.next(4))
}
