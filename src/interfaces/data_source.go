package interfaces

import (
	"context"

	"candle-chart/src/models"
)

// -----------------------------------------------------------------------------
// IDataSource fetches candle series from an external market data provider.
// -----------------------------------------------------------------------------

type IDataSource interface {

	// Name returns the unique identifier of the source
	Name() string

	// -----------------------------------------------------------------------------

	// FetchSeries retrieves candles for symbol at interval covering the
	// provider-specific lookback rangeSpec ("5d", "1mo", ...).
	FetchSeries(ctx context.Context, symbol, interval, rangeSpec string) (models.MSeries, error)
}
