package main

import (
	"github.com/benbjohnson/clock"

	"github.com/brokermobile/broker-client/internal/config"
	"github.com/brokermobile/broker-client/internal/instrument"
	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/portfolio"
	"github.com/brokermobile/broker-client/internal/storage"
	"github.com/brokermobile/broker-client/internal/store"
	"github.com/brokermobile/broker-client/internal/transport"
)

// app wires the engine: transport, services, snapshot storage and the two
// reactive stores, rehydrated from the last run.
type app struct {
	cfg    config.Config
	logger logger.Logger

	api         *transport.Client
	instruments *store.Instruments
	portfolio   *store.Portfolio
}

func newApp(cfg config.Config, zapLogger logger.Logger) (*app, func(), error) {
	snapshots, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}

	api := transport.NewClient(cfg.API, zapLogger)
	catalogService := instrument.NewService(api, cfg.Search.CacheTTL, zapLogger)
	portfolioService := portfolio.NewService(api, zapLogger)

	a := &app{
		cfg:         cfg,
		logger:      zapLogger,
		api:         api,
		instruments: store.NewInstruments(catalogService, snapshots, cfg.Search.DebounceInterval, clock.New(), zapLogger),
		portfolio:   store.NewPortfolio(portfolioService, snapshots, zapLogger),
	}

	cleanup := func() {
		if err := snapshots.Close(); err != nil {
			zapLogger.Warnf("%s: can't close snapshot db", err)
		}
	}

	return a, cleanup, nil
}
