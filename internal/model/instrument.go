package model

// Instrument is a tradable security as served by the catalog endpoints.
// ReturnPercentage is derived from the price pair on every ingest and is
// never trusted from upstream, even when the response carries one.
type Instrument struct {
	ID               int     `json:"id"`
	Ticker           string  `json:"ticker"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	LastPrice        float64 `json:"last_price"`
	ClosePrice       float64 `json:"close_price"`
	ReturnPercentage float64 `json:"return_percentage,omitempty"`
}

// ReturnPercent computes the daily return from the price pair. A zero close
// price yields 0 instead of dividing by it.
func (i Instrument) ReturnPercent() float64 {
	if i.ClosePrice <= 0 {
		return 0
	}
	return (i.LastPrice - i.ClosePrice) / i.ClosePrice * 100
}

// WithReturnPercentages returns a copy of instruments with the derived
// return recomputed for every record.
func WithReturnPercentages(instruments []Instrument) []Instrument {
	out := make([]Instrument, len(instruments))
	for idx, in := range instruments {
		in.ReturnPercentage = in.ReturnPercent()
		out[idx] = in
	}
	return out
}
