package interfaces

// -----------------------------------------------------------------------------
// IDataExchanger pushes series changes to connected chart clients.
// -----------------------------------------------------------------------------

type IDataExchanger interface {

	// SeriesUpdated re-renders every session watching symbol/interval.
	SeriesUpdated(symbol, interval string, version uint64)

	// -----------------------------------------------------------------------------

	// SessionCount returns the number of live chart sessions.
	SessionCount() int

	// -----------------------------------------------------------------------------

	// Start the server
	Start() error

	// -----------------------------------------------------------------------------

	// Stop the server gracefully
	Stop() error
}
