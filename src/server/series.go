package server

import (
	"candle-chart/src/adapter"
	"candle-chart/src/analysis"
	"candle-chart/src/helpers"
	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------
// Series management shared by the HTTP handlers, the WebSocket sessions and
// the gRPC control plane.
// -----------------------------------------------------------------------------

// ResolveInterval returns interval, or the finest stored interval of symbol
// when interval is empty.
func (s *ChartServer) ResolveInterval(symbol, interval string) (string, error) {
	if interval != "" {
		return interval, nil
	}
	intervals := s.Store.Intervals(symbol)
	if len(intervals) == 0 {
		return "", helpers.NewNotFoundError("no series stored for %s", symbol)
	}

	best := intervals[0]
	bestDur, bestErr := analysis.ParseInterval(best)
	for _, iv := range intervals[1:] {
		d, err := analysis.ParseInterval(iv)
		if err != nil {
			continue
		}
		if bestErr != nil || d < bestDur {
			best, bestDur, bestErr = iv, d, nil
		}
	}
	return best, nil
}

// Series returns a snapshot of symbol/interval, resampled to timeframe when
// one is given.
func (s *ChartServer) Series(symbol, interval, timeframe string) (models.MSeries, error) {
	series, ok := s.Store.Snapshot(symbol, interval)
	if !ok {
		return models.MSeries{}, helpers.NewNotFoundError("series %s/%s not found", symbol, interval)
	}
	return s.Timeframes.Resolve(series, timeframe)
}

// ListSeries summarises the stored series.
func (s *ChartServer) ListSeries() []models.MSeriesInfo {
	return s.Store.List()
}

// -----------------------------------------------------------------------------

// ImportSeries parses a Plotly document and replaces the stored series with
// its first trace. Non-empty symbol and interval override the document.
func (s *ChartServer) ImportSeries(symbol, interval string, document []byte) (models.MSeries, error) {
	doc, err := adapter.ParseDocument(document)
	if err != nil {
		return models.MSeries{}, err
	}

	series := doc.Series[0]
	if symbol != "" {
		series.Symbol = symbol
	}
	if interval != "" {
		series.Interval = interval
	}
	if series.Interval == "" {
		return models.MSeries{}, helpers.NewValidationError("interval is required for %s", series.Symbol)
	}
	if _, err := analysis.ParseInterval(series.Interval); err != nil {
		return models.MSeries{}, helpers.NewValidationError("%v", err)
	}

	if s.DB != nil {
		if err := s.DB.ReplaceSeries(series); err != nil {
			return models.MSeries{}, err
		}
	}
	series.Version = s.Store.Replace(series)
	s.Logger.Info("Imported %s/%s with %d candles (version %d)", series.Symbol, series.Interval, series.Len(), series.Version)
	return series, nil
}

// DeleteSeries removes symbol/interval, or every interval of symbol when
// interval is empty, and returns how many series were dropped.
func (s *ChartServer) DeleteSeries(symbol, interval string) (int, error) {
	intervals := []string{interval}
	if interval == "" {
		intervals = s.Store.Intervals(symbol)
	}

	deleted := 0
	for _, iv := range intervals {
		if s.DB != nil {
			if err := s.DB.DeleteSeries(symbol, iv); err != nil {
				return deleted, err
			}
		}
		if s.Store.Delete(symbol, iv) {
			deleted++
		}
	}
	if deleted == 0 {
		return 0, helpers.NewNotFoundError("no series stored for %s", symbol)
	}
	s.Logger.Info("Deleted %d series of %s", deleted, symbol)
	return deleted, nil
}
