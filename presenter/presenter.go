package presenter

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/omni/oracle-relay/accumulator"
	"github.com/omni/oracle-relay/entity"
	"github.com/omni/oracle-relay/logging"
	"github.com/omni/oracle-relay/message"
	"github.com/omni/oracle-relay/presenter/http/middleware"
	"github.com/omni/oracle-relay/presenter/http/render"
	"github.com/omni/oracle-relay/proof"
	"github.com/omni/oracle-relay/relay"
)

const (
	maxConcurrentRequests = 64
	maxUpdateBodySize     = 1 << 20
)

var (
	ErrFeedNotFound        = errors.New("price feed not found")
	ErrPublishTimeRequired = errors.New("publish_time parameter is required")
	ErrSingleFeedExpected  = errors.New("exactly one price feed id is expected")
	ErrUpdatesUnavailable  = errors.New("updates queue is unavailable")
)

type Store interface {
	QueryMany(ids []message.Identifier, when entity.RequestTime) []*entity.MessageState
	Identifiers() []message.Identifier
}

type Presenter struct {
	logger  logging.Logger
	store   Store
	updates chan<- relay.Update
	root    chi.Router
}

// NewPresenter serves queries over st. When updates is not nil, raw updates
// posted to /api/updates/* are forwarded to it.
func NewPresenter(logger logging.Logger, st Store, updates chan<- relay.Update) *Presenter {
	p := &Presenter{
		logger:  logger,
		store:   st,
		updates: updates,
		root:    chi.NewMux(),
	}
	p.root.Use(chimiddleware.Throttle(maxConcurrentRequests))
	p.root.Use(chimiddleware.RequestID)
	p.root.Use(middleware.NewLoggerMiddleware(logger))
	p.root.Use(middleware.Recoverer)
	p.root.Get("/live", p.Live)
	p.root.Route("/api", func(r chi.Router) {
		r.Get("/price_feed_ids", p.GetPriceFeedIDs)
		r.With(middleware.GetFeedIDsMiddleware, middleware.GetRequestTimeMiddleware).
			Get("/latest_price_feeds", p.GetPriceFeeds)
		r.With(middleware.GetFeedIDsMiddleware, middleware.GetRequestTimeMiddleware).
			Get("/get_price_feed", p.GetPriceFeed)
		r.With(middleware.GetFeedIDsMiddleware).
			Get("/latest_vaas", p.GetLatestUpdateData)
		if p.updates != nil {
			r.Post("/updates/vaa", p.PostUpdate(decodeVAAUpdate))
			r.Post("/updates/accumulator", p.PostUpdate(decodeAccumulatorUpdate))
		}
	})
	return p
}

func (p *Presenter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.root.ServeHTTP(w, r)
}

func (p *Presenter) Live(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, http.StatusOK, "OK")
}

func (p *Presenter) GetPriceFeedIDs(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("type")
	ids := p.store.Identifiers()
	res := make([]*FeedIDInfo, 0, len(ids))
	for _, id := range ids {
		if filter != "" && id.Type.String() != filter {
			continue
		}
		res = append(res, toFeedIDInfo(id))
	}
	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetPriceFeeds(w http.ResponseWriter, r *http.Request) {
	states, err := p.lookup(r)
	if err != nil {
		render.Error(w, r, http.StatusNotFound, err)
		return
	}
	res := make([]*PriceFeedResult, len(states))
	for i, state := range states {
		res[i], err = p.toResult(r, state)
		if err != nil {
			render.Error(w, r, http.StatusInternalServerError, err)
			return
		}
	}
	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetPriceFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if len(middleware.FeedIDs(ctx)) != 1 {
		render.Error(w, r, http.StatusBadRequest, ErrSingleFeedExpected)
		return
	}
	if middleware.RequestTime(ctx).Kind != entity.RequestFirstAfter {
		render.Error(w, r, http.StatusBadRequest, ErrPublishTimeRequired)
		return
	}
	states, err := p.lookup(r)
	if err != nil {
		render.Error(w, r, http.StatusNotFound, err)
		return
	}
	res, err := p.toResult(r, states[0])
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, http.StatusOK, res)
}

func (p *Presenter) GetLatestUpdateData(w http.ResponseWriter, r *http.Request) {
	states, err := p.lookup(r)
	if err != nil {
		render.Error(w, r, http.StatusNotFound, err)
		return
	}
	data, err := proof.EncodeUpdateData(states)
	if err != nil {
		render.Error(w, r, http.StatusInternalServerError, err)
		return
	}
	res := make([]hexutil.Bytes, len(data))
	for i, d := range data {
		res[i] = d
	}
	render.JSON(w, r, http.StatusOK, res)
}

func decodeVAAUpdate(body []byte) (relay.Update, error) {
	if _, err := accumulator.DecodeVAAPayload(body); err != nil {
		return nil, fmt.Errorf("can't decode vaa update: %w", err)
	}
	return relay.VAAUpdate(body), nil
}

func decodeAccumulatorUpdate(body []byte) (relay.Update, error) {
	return relay.NewAccumulatorUpdate(body)
}

func (p *Presenter) PostUpdate(decode func([]byte) (relay.Update, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpdateBodySize))
		if err != nil {
			render.Error(w, r, http.StatusBadRequest, fmt.Errorf("can't read update body: %w", err))
			return
		}
		update, err := decode(body)
		if err != nil {
			render.Error(w, r, http.StatusBadRequest, err)
			return
		}
		select {
		case p.updates <- update:
			render.JSON(w, r, http.StatusAccepted, "accepted")
		case <-r.Context().Done():
			render.Error(w, r, http.StatusServiceUnavailable, ErrUpdatesUnavailable)
		}
	}
}

// lookup resolves every requested feed from one store snapshot.
func (p *Presenter) lookup(r *http.Request) ([]*entity.MessageState, error) {
	ctx := r.Context()
	ids := middleware.FeedIDs(ctx)
	states := p.store.QueryMany(ids, middleware.RequestTime(ctx))
	var missing []string
	for i, state := range states {
		if state == nil {
			missing = append(missing, ids[i].PriceID.Hex())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeedNotFound, strings.Join(missing, ", "))
	}
	return states, nil
}

func (p *Presenter) toResult(r *http.Request, state *entity.MessageState) (*PriceFeedResult, error) {
	q := r.URL.Query()
	verbose, _ := strconv.ParseBool(q.Get("verbose"))
	res := toPriceFeedResult(state, verbose)
	if binary, _ := strconv.ParseBool(q.Get("binary")); binary {
		data, err := proof.EncodeUpdateData([]*entity.MessageState{state})
		if err != nil {
			return nil, fmt.Errorf("can't encode update data for %s: %w", state.ID, err)
		}
		for _, d := range data {
			res.UpdateData = append(res.UpdateData, d)
		}
	}
	return res, nil
}
