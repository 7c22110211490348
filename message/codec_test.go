package message_test

import (
	"math"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/omni/oracle-relay/message"
)

var testFeedID = common.HexToHash("0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43")

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	twap := &message.TwapMessage{
		FeedID:          testFeedID,
		NumDownSlots:    3,
		Exponent:        -8,
		PublishTimeSec:  1690000000,
		PrevPublishTime: 1689999999,
		PublishSlot:     130,
	}
	twap.CumulativePrice[15] = 0x10
	twap.CumulativePrice[0] = 0xff
	twap.CumulativeConf[14] = 0x01

	for _, test := range []struct {
		Name string
		Msg  message.Message
		Size int
	}{
		{
			Name: "Price feed",
			Msg: &message.PriceFeedMessage{
				FeedID:          testFeedID,
				Price:           2900000000000,
				Conf:            1500000000,
				Exponent:        -8,
				PublishTimeSec:  1690000000,
				PrevPublishTime: 1689999999,
				EmaPrice:        2899000000000,
				EmaConf:         1400000000,
			},
			Size: 85,
		},
		{
			Name: "Negative price feed",
			Msg: &message.PriceFeedMessage{
				FeedID:          testFeedID,
				Price:           math.MinInt64,
				Exponent:        math.MinInt32,
				PublishTimeSec:  -1,
				PrevPublishTime: math.MaxInt64,
				EmaPrice:        -5,
				EmaConf:         math.MaxUint64,
			},
			Size: 85,
		},
		{
			Name: "Twap",
			Msg:  twap,
			Size: 101,
		},
	} {
		t.Logf("Running sub-test %q", test.Name)
		raw, err := test.Msg.MarshalBinary()
		require.NoError(t, err, "Failed %s", test.Name)
		require.Len(t, raw, test.Size, "Failed %s", test.Name)
		require.Equal(t, byte(test.Msg.Type()), raw[0], "Failed %s", test.Name)

		res, err := message.Parse(raw)
		require.NoError(t, err, "Failed %s", test.Name)
		require.Equal(t, test.Msg, res, "Failed %s", test.Name)
		require.Equal(t, message.Identifier{PriceID: testFeedID, Type: test.Msg.Type()}, res.ID())
	}
}

func TestParseTrailingBytes(t *testing.T) {
	t.Parallel()

	msg := &message.PriceFeedMessage{FeedID: testFeedID, Price: 1, PublishTimeSec: 5}
	raw, err := msg.MarshalBinary()
	require.NoError(t, err)

	res, err := message.Parse(append(raw, 0xde, 0xad))
	require.NoError(t, err)
	require.Equal(t, msg, res)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	priceFeed, err := (&message.PriceFeedMessage{FeedID: testFeedID}).MarshalBinary()
	require.NoError(t, err)
	twap, err := (&message.TwapMessage{FeedID: testFeedID}).MarshalBinary()
	require.NoError(t, err)

	for _, test := range []struct {
		Name  string
		Input []byte
		Err   error
	}{
		{"Empty", nil, message.ErrTruncated},
		{"Discriminator only", []byte{0}, message.ErrTruncated},
		{"Short price feed", priceFeed[:84], message.ErrTruncated},
		{"Short twap", twap[:100], message.ErrTruncated},
		{"Unknown discriminator", append([]byte{2}, priceFeed[1:]...), message.ErrUnknownMessageType},
		{"Max discriminator", []byte{0xff}, message.ErrUnknownMessageType},
	} {
		t.Logf("Running sub-test %q", test.Name)
		res, err := message.Parse(test.Input)
		require.ErrorIs(t, err, test.Err, "Failed %s", test.Name)
		require.ErrorIs(t, err, message.ErrParse, "Failed %s", test.Name)
		require.Nil(t, res, "Failed %s", test.Name)
	}
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for s, expected := range map[string]message.Type{
		"":           message.TypePriceFeed,
		"price_feed": message.TypePriceFeed,
		"twap":       message.TypeTwap,
	} {
		res, err := message.ParseType(s)
		require.NoError(t, err)
		require.Equal(t, expected, res)
	}

	_, err := message.ParseType("ema")
	require.ErrorIs(t, err, message.ErrUnknownMessageType)
	require.Equal(t, "twap", message.TypeTwap.String())
	require.Equal(t, "unknown(7)", message.Type(7).String())
}

func TestIdentifier(t *testing.T) {
	t.Parallel()

	a := message.Identifier{PriceID: testFeedID, Type: message.TypePriceFeed}
	b := message.Identifier{PriceID: testFeedID, Type: message.TypeTwap}
	require.NotEqual(t, a, b)
	require.Equal(t, a, (&message.PriceFeedMessage{FeedID: testFeedID}).ID())

	seen := map[message.Identifier]bool{a: true}
	require.False(t, seen[b])
	require.Equal(t, "price_feed:"+testFeedID.Hex(), a.String())
}
