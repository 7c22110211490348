package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/message"
	"github.com/omni/oracle-relay/presenter/http/render"
)

type ctxKey int

const (
	feedIDsCtxKey ctxKey = iota
	requestTimeCtxKey
)

var (
	ErrInvalidFeedID      = errors.New("invalid price feed id")
	ErrMissingFeedID      = errors.New("at least one price feed id is required")
	ErrInvalidPublishTime = errors.New("invalid publish_time parameter")
)

func parseFeedID(s string) (common.Hash, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: %q", ErrInvalidFeedID, s)
	}
	return common.BytesToHash(b), nil
}

// GetFeedIDsMiddleware reads ids from "ids[]", "ids" or "id" query parameters
// together with an optional "type" parameter.
func GetFeedIDsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		msgType, err := message.ParseType(q.Get("type"))
		if err != nil {
			render.Error(w, r, http.StatusBadRequest, err)
			return
		}
		var raw []string
		for _, key := range []string{"ids[]", "ids", "id"} {
			raw = append(raw, q[key]...)
		}
		if len(raw) == 0 {
			render.Error(w, r, http.StatusBadRequest, ErrMissingFeedID)
			return
		}
		ids := make([]message.Identifier, 0, len(raw))
		for _, s := range raw {
			priceID, err2 := parseFeedID(s)
			if err2 != nil {
				render.Error(w, r, http.StatusBadRequest, err2)
				return
			}
			ids = append(ids, message.Identifier{PriceID: priceID, Type: msgType})
		}

		ctx := context.WithValue(r.Context(), feedIDsCtxKey, ids)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestTimeMiddleware selects FirstAfter(publish_time) when the parameter
// is present and Latest otherwise.
func GetRequestTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		when := entity.Latest()
		if s := r.URL.Query().Get("publish_time"); s != "" {
			ts, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				render.Error(w, r, http.StatusBadRequest, fmt.Errorf("%w: %s", ErrInvalidPublishTime, err))
				return
			}
			when = entity.FirstAfter(ts)
		}

		ctx := context.WithValue(r.Context(), requestTimeCtxKey, when)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func FeedIDs(ctx context.Context) []message.Identifier {
	ids, _ := ctx.Value(feedIDsCtxKey).([]message.Identifier)
	return ids
}

func RequestTime(ctx context.Context) entity.RequestTime {
	if when, ok := ctx.Value(requestTimeCtxKey).(entity.RequestTime); ok {
		return when
	}
	return entity.Latest()
}
