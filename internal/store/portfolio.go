package store

import (
	"context"
	"sync"

	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
)

const _portfolioKey = "portfolios-storage"

// HoldingsService is what the portfolio store needs from the portfolio
// service.
type HoldingsService interface {
	Holdings(ctx context.Context) ([]model.Holding, error)
}

// portfolioSnapshot persists the holdings as-is: every Holding field is a
// source field, valuations are computed at render time.
type portfolioSnapshot struct {
	Portfolios []model.Holding `json:"portfolios"`
}

// Portfolio is the reactive container for the account's holdings. A single
// fetch lane with the same stale-on-error and persistence policy as the
// instruments store.
type Portfolio struct {
	service   HoldingsService
	snapshots Snapshots
	logger    logger.Logger

	mu        sync.RWMutex
	holdings  []model.Holding
	fetchLane lane
}

// NewPortfolio builds the store and rehydrates the last persisted snapshot.
func NewPortfolio(service HoldingsService, snapshots Snapshots, logger logger.Logger) *Portfolio {
	s := &Portfolio{
		service:   service,
		snapshots: snapshots,
		logger:    logger,
	}
	s.rehydrate()
	return s
}

// Fetch replaces the holdings wholesale with a fresh copy from upstream.
// On failure the previous list is kept and the lane records the message.
func (s *Portfolio) Fetch(ctx context.Context) error {
	s.mu.Lock()
	ticket := s.fetchLane.begin()
	s.mu.Unlock()

	holdings, err := s.service.Holdings(ctx)

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
	s.holdings = holdings
	s.fetchLane.finish("")
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// Holdings returns a copy of the current holdings.
func (s *Portfolio) Holdings() []model.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Holding, len(s.holdings))
	copy(out, s.holdings)
	return out
}

func (s *Portfolio) FetchStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchLane.status()
}

// ClearError resets the lane's error message.
func (s *Portfolio) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchLane.err = ""
}

func (s *Portfolio) rehydrate() {
	if s.snapshots == nil {
		return
	}

	var snap portfolioSnapshot
	found, err := s.snapshots.Load(context.Background(), _portfolioKey, &snap)
	if err != nil {
		s.logger.Warnf("%s: can't rehydrate portfolio snapshot", err)
		return
	}
	if !found {
		return
	}

	s.mu.Lock()
	s.holdings = snap.Portfolios
	s.mu.Unlock()
}

func (s *Portfolio) persist(ctx context.Context) {
	if s.snapshots == nil {
		return
	}

	s.mu.RLock()
	snap := portfolioSnapshot{Portfolios: s.holdings}
	s.mu.RUnlock()

	if err := s.snapshots.Save(ctx, _portfolioKey, snap); err != nil {
		s.logger.Warnf("%s: can't persist portfolio snapshot", err)
	}
}
