// Package portfolio wraps the portfolio endpoint of the brokerage API.
package portfolio

import (
	"context"
	"fmt"

	"github.com/brokermobile/broker-client/internal/logger"
	"github.com/brokermobile/broker-client/internal/model"
	"github.com/brokermobile/broker-client/internal/transport"
)

const _portfolioPath = "/portfolio"

// Service is a thin typed wrapper over the portfolio endpoint. No
// transformation happens here.
type Service struct {
	api    *transport.Client
	logger logger.Logger
}

func NewService(api *transport.Client, logger logger.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

// Holdings fetches the account's holdings.
func (s *Service) Holdings(ctx context.Context) ([]model.Holding, error) {
	holdings, err := transport.Get[[]model.Holding](ctx, s.api, _portfolioPath)
	if err != nil {
		s.logger.Errorf("%s: can't fetch portfolio", err)
		return nil, fmt.Errorf("%w: can't fetch portfolio", err)
	}
	return holdings, nil
}
