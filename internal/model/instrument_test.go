package model

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReturnPercent(t *testing.T) {
	t.Run("computes return from price pair", func(t *testing.T) {
		in := Instrument{LastPrice: 125, ClosePrice: 124}
		got := in.ReturnPercent()
		want := (125.0 - 124.0) / 124.0 * 100
		if !almostEqual(got, want) {
			t.Errorf("ReturnPercent() = %v, want %v", got, want)
		}
	})

	t.Run("zero close price yields zero", func(t *testing.T) {
		in := Instrument{LastPrice: 125, ClosePrice: 0}
		if got := in.ReturnPercent(); got != 0 {
			t.Errorf("ReturnPercent() = %v, want 0", got)
		}
	})

	t.Run("negative return when price dropped", func(t *testing.T) {
		in := Instrument{LastPrice: 90, ClosePrice: 100}
		if got := in.ReturnPercent(); !almostEqual(got, -10) {
			t.Errorf("ReturnPercent() = %v, want -10", got)
		}
	})
}

func TestWithReturnPercentages(t *testing.T) {
	t.Run("recomputes for every record and ignores upstream value", func(t *testing.T) {
		in := []Instrument{
			{ID: 1, Ticker: "AAPL", LastPrice: 125, ClosePrice: 124, ReturnPercentage: 999},
			{ID: 2, Ticker: "GOOGL", LastPrice: 100, ClosePrice: 0, ReturnPercentage: 999},
		}

		out := WithReturnPercentages(in)

		if !almostEqual(out[0].ReturnPercentage, 0.8064516129032258) {
			t.Errorf("AAPL return = %v, want ~0.806", out[0].ReturnPercentage)
		}
		if out[1].ReturnPercentage != 0 {
			t.Errorf("GOOGL return = %v, want 0", out[1].ReturnPercentage)
		}
	})

	t.Run("does not mutate the input slice", func(t *testing.T) {
		in := []Instrument{{ID: 1, LastPrice: 125, ClosePrice: 124}}
		_ = WithReturnPercentages(in)
		if in[0].ReturnPercentage != 0 {
			t.Errorf("input was mutated: return = %v", in[0].ReturnPercentage)
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		if out := WithReturnPercentages(nil); len(out) != 0 {
			t.Errorf("got %d records, want 0", len(out))
		}
	})
}
