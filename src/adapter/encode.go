package adapter

import (
	"time"

	"candle-chart/src/models"

	"github.com/goccy/go-json"
)

// EncodeSeries writes a series as a Plotly candlestick figure. Colors,
// geometry and label settings go into config so ParseDocument restores them.
func EncodeSeries(series models.MSeries, style models.MRenderStyle) ([]byte, error) {
	n := len(series.Candles)
	tr := plotlyTrace{
		Type:  "candlestick",
		Name:  series.Symbol,
		X:     make([]interface{}, n),
		Open:  make([]float64, n),
		High:  make([]float64, n),
		Low:   make([]float64, n),
		Close: make([]float64, n),
		Increasing: &plotlyDirection{
			FillColor: str(string(style.Bullish)),
		},
		Decreasing: &plotlyDirection{
			FillColor: str(string(style.Bearish)),
		},
	}

	withVolume := false
	for _, c := range series.Candles {
		if c.HasVolume {
			withVolume = true
			break
		}
	}
	if withVolume {
		tr.Volume = make([]float64, n)
	}

	for i, c := range series.Candles {
		tr.X[i] = c.Timestamp.UTC().Format(time.RFC3339)
		tr.Open[i] = c.Open
		tr.High[i] = c.High
		tr.Low[i] = c.Low
		tr.Close[i] = c.Close
		if withVolume {
			tr.Volume[i] = c.Volume
		}
	}

	ms := float64(style.AnimationDuration) / float64(time.Millisecond)
	doc := plotlyDocument{
		Data: []plotlyTrace{tr},
		Layout: &plotlyLayout{
			Title:       series.Symbol,
			Width:       &style.Width,
			Height:      &style.Height,
			PlotBGColor: str(string(style.Background)),
			Font: &plotlyFont{
				Color: str(string(style.Text)),
				Size:  &style.FontSize,
			},
		},
		Config: &plotlyConfig{
			Symbol:              str(series.Symbol),
			Interval:            str(series.Interval),
			GridColor:           str(string(style.Grid)),
			CandleWidth:         &style.CandleWidth,
			SpacingRatio:        &style.SpacingRatio,
			HorizontalDivisions: &style.HorizontalDivisions,
			VerticalDivisions:   &style.VerticalDivisions,
			Decimals:            &style.PriceDecimals,
			DateFormat:          str(style.DateLayout),
			AnimationDuration:   &ms,
			AnimationCurve:      str(style.AnimationCurve),
		},
	}
	return json.Marshal(doc)
}

func str(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
