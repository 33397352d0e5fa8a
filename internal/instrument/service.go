// Package instrument wraps the catalog endpoints of the brokerage API.
package instrument

import (
	"context"
	"fmt"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
	"github.com/brokermobile/broker-client/internal/transport"
)

const (
	_instrumentsPath = "/instruments"
	_searchPath      = "/search"
)

// Service is a thin typed wrapper over the catalog endpoints. It performs
// no transformation: derived fields are the store's concern. Search
// responses are memoized per query for a short TTL so keystroke bursts that
// settle on recently seen text don't refetch.
type Service struct {
	api    *transport.Client
	cache  *gocache.Cache
	logger logger.Logger
}

func NewService(api *transport.Client, cacheTTL time.Duration, logger logger.Logger) *Service {
	return &Service{
		api:    api,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
		logger: logger,
	}
}

// List fetches the whole catalog.
func (s *Service) List(ctx context.Context) ([]model.Instrument, error) {
	instruments, err := transport.Get[[]model.Instrument](ctx, s.api, _instrumentsPath)
	if err != nil {
		s.logger.Errorf("%s: can't fetch instruments", err)
		return nil, fmt.Errorf("%w: can't fetch instruments", err)
	}
	return instruments, nil
}

// Search fetches the instruments matching query. The query is sent
// URL-encoded, untrimmed, exactly as given.
func (s *Service) Search(ctx context.Context, query string) ([]model.Instrument, error) {
	if v, ok := s.cache.Get(query); ok {
		return v.([]model.Instrument), nil
	}

	path := _searchPath + "?query=" + url.QueryEscape(query)
	instruments, err := transport.Get[[]model.Instrument](ctx, s.api, path)
	if err != nil {
		s.logger.Errorf("%s: can't search instruments %q", err, query)
		return nil, fmt.Errorf("%w: can't search instruments", err)
	}

	s.cache.SetDefault(query, instruments)
	return instruments, nil
}
