package interfaces

import (
	"context"
	"time"
)

// -----------------------------------------------------------------------------
// IRefresher pulls market data on demand and reports what it tracks.
// -----------------------------------------------------------------------------

type IRefresher interface {

	// RefreshSymbol fetches one symbol now and returns the candles applied.
	RefreshSymbol(ctx context.Context, symbol string) (int, error)

	// SourceNames returns the configured data sources.
	SourceNames() []string

	// Symbols returns every tracked symbol.
	Symbols() []string

	// Track adds symbol to the scheduled refreshes and returns the source
	// now polling it and whether it was new.
	Track(symbol string) (string, bool)

	// LastRun is when the latest scheduled refresh finished.
	LastRun() time.Time
}
