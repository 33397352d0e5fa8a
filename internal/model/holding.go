package model

// Holding is a portfolio line item. InstrumentID references a catalog
// instrument, it does not own it.
type Holding struct {
	InstrumentID int     `json:"instrument_id"`
	Ticker       string  `json:"ticker"`
	Quantity     int     `json:"quantity"`
	LastPrice    float64 `json:"last_price"`
	ClosePrice   float64 `json:"close_price"`
	AvgCostPrice float64 `json:"avg_cost_price"`
}

// Valuation carries the derived figures for a holding. Computed on read,
// never persisted.
type Valuation struct {
	MarketValue      float64
	CostBasis        float64
	AbsoluteGain     float64
	PercentageReturn float64
}

// Valuation recomputes the holding's market value, cost basis, gain and
// percentage return from its quantity and prices. The percentage return is
// 0 when the cost basis is 0.
func (h Holding) Valuation() Valuation {
	v := Valuation{
		MarketValue: float64(h.Quantity) * h.LastPrice,
		CostBasis:   float64(h.Quantity) * h.AvgCostPrice,
	}
	v.AbsoluteGain = v.MarketValue - v.CostBasis
	if v.CostBasis > 0 {
		v.PercentageReturn = v.AbsoluteGain / v.CostBasis * 100
	}
	return v
}
