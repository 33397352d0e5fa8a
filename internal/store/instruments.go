package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/brokermobile/broker-client/internal/debounce"
	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
)

const _instrumentsKey = "instruments-storage"

// CatalogService is what the instruments store needs from the catalog
// service.
type CatalogService interface {
	List(ctx context.Context) ([]model.Instrument, error)
	Search(ctx context.Context, query string) ([]model.Instrument, error)
}

// persistedInstrument is the snapshot shape of one instrument: source
// fields only. The derived return percentage is recomputed on load, never
// serialized.
type persistedInstrument struct {
	ID         int     `json:"id"`
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	LastPrice  float64 `json:"last_price"`
	ClosePrice float64 `json:"close_price"`
}

type instrumentsSnapshot struct {
	Instruments   []persistedInstrument `json:"instruments"`
	SearchResults []persistedInstrument `json:"search_results"`
}

func toPersisted(instruments []model.Instrument) []persistedInstrument {
	out := make([]persistedInstrument, len(instruments))
	for i, in := range instruments {
		out[i] = persistedInstrument{
			ID:         in.ID,
			Ticker:     in.Ticker,
			Name:       in.Name,
			Type:       in.Type,
			LastPrice:  in.LastPrice,
			ClosePrice: in.ClosePrice,
		}
	}
	return out
}

func fromPersisted(persisted []persistedInstrument) []model.Instrument {
	out := make([]model.Instrument, len(persisted))
	for i, p := range persisted {
		out[i] = model.Instrument{
			ID:         p.ID,
			Ticker:     p.Ticker,
			Name:       p.Name,
			Type:       p.Type,
			LastPrice:  p.LastPrice,
			ClosePrice: p.ClosePrice,
		}
	}
	return model.WithReturnPercentages(out)
}

// Instruments is the reactive container for the full catalog and the
// current search result set. The two are independent lists: a search never
// mutates the base catalog. Fetch and search are independent lanes with
// their own status pairs.
type Instruments struct {
	service   CatalogService
	snapshots Snapshots
	logger    logger.Logger

	mu            sync.RWMutex
	instruments   []model.Instrument
	searchResults []model.Instrument
	fetchLane     lane
	searchLane    lane

	debouncedSearch func(string)
}

// NewInstruments builds the store and rehydrates the last persisted
// snapshot. The debounced search wrapper is constructed once here and
// reused for the store's whole lifetime; a nil clk uses the wall clock.
func NewInstruments(service CatalogService, snapshots Snapshots, debounceWait time.Duration, clk clock.Clock, logger logger.Logger) *Instruments {
	s := &Instruments{
		service:   service,
		snapshots: snapshots,
		logger:    logger,
	}

	s.debouncedSearch = debounce.Func(func(query string) {
		if err := s.Search(context.Background(), query); err != nil {
			s.logger.Warnf("%s: debounced search failed", err)
		}
	}, debounceWait, clk)

	s.rehydrate()
	return s
}

// Fetch replaces the catalog wholesale with a fresh copy from upstream,
// recomputing the derived return of every record. On failure the previous
// list is kept (stale-but-valid) and the fetch lane records the message.
func (s *Instruments) Fetch(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.fetchLane.begin()
	s.mu.Unlock()

	instruments, err := s.service.List(ctx)

	s.mu.Lock()
	if !s.fetchLane.latest(ticket) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.fetchLane.finish(err.Error())
		s.mu.Unlock()
		return err
	}
	s.instruments = model.WithReturnPercentages(instruments)
	s.fetchLane.finish("")
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// Search replaces the search results with the matches for query. An empty
// or whitespace-only query exits search mode: results are cleared, the lane
// resets and no request is issued. Failures keep the previous results.
func (s *Instruments) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		s.mu.Lock()
		s.searchResults = nil
		s.searchLane.supersede()
		s.searchLane.finish("")
		s.mu.Unlock()

		s.persist(ctx)
		return nil
	}

	s.mu.Lock()
	ticket := s.searchLane.begin()
	s.mu.Unlock()

	results, err := s.service.Search(ctx, query)

	s.mu.Lock()
	if !s.searchLane.latest(ticket) {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.searchLane.finish(err.Error())
		s.mu.Unlock()
		return err
	}
	s.searchResults = model.WithReturnPercentages(results)
	s.searchLane.finish("")
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// DebouncedSearch schedules a search after the configured quiet interval,
// superseding any previously scheduled one. Feed it the raw keystroke
// stream.
func (s *Instruments) DebouncedSearch(query string) {
	s.debouncedSearch(query)
}

// Instruments returns a copy of the catalog.
func (s *Instruments) Instruments() []model.Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Instrument, len(s.instruments))
	copy(out, s.instruments)
	return out
}

// SearchResults returns a copy of the current search result set.
func (s *Instruments) SearchResults() []model.Instrument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Instrument, len(s.searchResults))
	copy(out, s.searchResults)
	return out
}

// ByID resolves an instrument from the current catalog snapshot. Read-only:
// callers get a copy.
func (s *Instruments) ByID(id int) (model.Instrument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, in := range s.instruments {
		if in.ID == id {
			return in, true
		}
	}
	return model.Instrument{}, false
}

func (s *Instruments) FetchStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchLane.status()
}

func (s *Instruments) SearchStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchLane.status()
}

// ClearErrors resets both lanes' error messages.
func (s *Instruments) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLane.err = ""
	s.searchLane.err = ""
}

func (s *Instruments) rehydrate() {
	if s.snapshots == nil {
		return
	}

	var snap instrumentsSnapshot
	found, err := s.snapshots.Load(context.Background(), _instrumentsKey, &snap)
	if err != nil {
		s.logger.Warnf("%s: can't rehydrate instruments snapshot", err)
		return
	}
	if !found {
		return
	}

	s.mu.Lock()
	s.instruments = fromPersisted(snap.Instruments)
	s.searchResults = fromPersisted(snap.SearchResults)
	s.mu.Unlock()
}

// persist writes the current source fields under the store's key.
// Persistence failures are logged, never surfaced as action errors.
func (s *Instruments) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	s.mu.RLock()
	snap := instrumentsSnapshot{
		Instruments:   toPersisted(s.instruments),
		SearchResults: toPersisted(s.searchResults),
	}
	s.mu.RUnlock()

	if err := s.snapshots.Save(ctx, _instrumentsKey, snap); err != nil {
		s.logger.Warnf("%s: can't persist instruments snapshot", err)
	}
}
