package interfaces

import (
	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------
// ISeriesService manages the stored chart series on behalf of remote callers.
// -----------------------------------------------------------------------------

type ISeriesService interface {

	// ListSeries summarises every stored series.
	ListSeries() []models.MSeriesInfo

	// -----------------------------------------------------------------------------

	// ImportSeries replaces a series with the first trace of a Plotly document.
	ImportSeries(symbol, interval string, document []byte) (models.MSeries, error)

	// -----------------------------------------------------------------------------

	// DeleteSeries drops one interval, or all of them when interval is empty.
	DeleteSeries(symbol, interval string) (int, error)

	// -----------------------------------------------------------------------------

	// SessionCount returns the number of live chart sessions.
	SessionCount() int
}
