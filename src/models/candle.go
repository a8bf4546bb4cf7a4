package models

import "time"

// MCandle is one OHLC(+volume) record for a time interval.
type MCandle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume,omitempty"`
	HasVolume bool      `json:"has_volume,omitempty"`
}

// IsBullish reports close >= open.
func (c MCandle) IsBullish() bool {
	return c.Close >= c.Open
}

// -----------------------------------------------------------------------------

// MSeries is an ordered (timestamp ascending) candle sequence.
// Version changes every time the store replaces or merges the series.
type MSeries struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"`
	Candles  []MCandle `json:"candles"`
	Version  uint64    `json:"version"`
}

// Len returns the number of candles.
func (s MSeries) Len() int {
	return len(s.Candles)
}

// -----------------------------------------------------------------------------

// MSeriesInfo summarises a stored series without its candles.
type MSeriesInfo struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"`
	Count    int       `json:"count"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	Version  uint64    `json:"version"`
}

// -----------------------------------------------------------------------------

// MPriceBounds is the global low/high used for vertical scaling.
type MPriceBounds struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}
