// Package render draws instrument and portfolio tables. Derived valuation
// figures are computed here at render time, never read from a snapshot.
package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/brokermobile/broker-client/internal/model"
)

func newWriter(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleColoredDark)
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.SeparateColumns = false
	return tw
}

func signed(v float64) string {
	s := fmt.Sprintf("%+.2f", v)
	if v < 0 {
		return text.Colors{text.FgRed}.Sprint(s)
	}
	if v > 0 {
		return text.Colors{text.FgGreen}.Sprint(s)
	}
	return s
}

// Instruments renders the catalog or a search result set.
func Instruments(w io.Writer, instruments []model.Instrument) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"ID", "TICKER", "NAME", "LAST", "CLOSE", "RETURN %"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignRight},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignRight},
	})

	for _, in := range instruments {
		tw.AppendRow(table.Row{
			in.ID,
			in.Ticker,
			in.Name,
			fmt.Sprintf("%.2f", in.LastPrice),
			fmt.Sprintf("%.2f", in.ClosePrice),
			signed(in.ReturnPercentage),
		})
	}

	tw.Render()
}

// Portfolio renders the holdings with their valuations.
func Portfolio(w io.Writer, holdings []model.Holding) {
	tw := newWriter(w)
	tw.AppendHeader(table.Row{"TICKER", "QTY", "AVG COST", "LAST", "MARKET VALUE", "GAIN", "RETURN %"})
	cfgs := make([]table.ColumnConfig, 0, 6)
	for col := 2; col <= 7; col++ {
		cfgs = append(cfgs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	tw.SetColumnConfigs(cfgs)

	for _, h := range holdings {
		v := h.Valuation()
		tw.AppendRow(table.Row{
			h.Ticker,
			h.Quantity,
			fmt.Sprintf("%.2f", h.AvgCostPrice),
			fmt.Sprintf("%.2f", h.LastPrice),
			fmt.Sprintf("%.2f", v.MarketValue),
			signed(v.AbsoluteGain),
			signed(v.PercentageReturn),
		})
	}

	tw.Render()
}
