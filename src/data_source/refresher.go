package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"
	"candle-chart/src/utils"

	"golang.org/x/sync/errgroup"
)

var _ interfaces.IRefresher = (*Refresher)(nil)

type sourceJob struct {
	source interfaces.IDataSource
	config models.MSourceConfig
}

// Refresher periodically pulls candles from every configured source into
// the series store and the database.
type Refresher struct {
	Config      *models.MConfig
	Store       *utils.SeriesStore
	DB          interfaces.IDatabase
	Scheduler   *utils.MarketScheduler
	Logger      *logger.Logger
	Interval    time.Duration
	Concurrency int

	sources map[string]*sourceJob
	order   []string
	errors  *helpers.ErrorHandler
	lastRun time.Time
	mu      sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewRefresher(cfg *models.MConfig, store *utils.SeriesStore, db interfaces.IDatabase, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.NewLogger(nil, "Refresher")
	}
	interval := time.Duration(cfg.DataSource.UpdateIntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	concurrency := cfg.Network.ConcurrentRequests
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Refresher{
		Config:      cfg,
		Store:       store,
		DB:          db,
		Scheduler:   utils.NewMarketScheduler(nil, logger.NewLogger(nil, "MarketScheduler")),
		Logger:      log,
		Interval:    interval,
		Concurrency: concurrency,
		sources:     make(map[string]*sourceJob),
		errors:      helpers.NewErrorHandler("Refresher"),
	}
}

// -----------------------------------------------------------------------------

// AddSource registers a source with the symbols and interval of sc.
func (r *Refresher) AddSource(source interfaces.IDataSource, sc models.MSourceConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := source.Name()
	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("source %s already exists", name)
	}
	r.sources[name] = &sourceJob{source: source, config: sc}
	r.order = append(r.order, name)
	r.Logger.Info("Added source %s with %d symbols", name, len(sc.Symbols))

	r.updateSchedulerLocked()
	return nil
}

// SourceNames returns the registered sources in registration order.
func (r *Refresher) SourceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Symbols returns every tracked symbol, sorted.
func (r *Refresher) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, job := range r.sources {
		for _, s := range job.config.Symbols {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Track adds symbol to the first registered source so scheduled refreshes
// pick it up. It returns the source name and whether the symbol was new.
func (r *Refresher) Track(symbol string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return "", false
	}
	for _, name := range r.order {
		for _, s := range r.sources[name].config.Symbols {
			if s == symbol {
				return name, false
			}
		}
	}

	name := r.order[0]
	job := r.sources[name]
	job.config.Symbols = append(job.config.Symbols, symbol)
	r.updateSchedulerLocked()
	r.Logger.Info("Tracking %s with source %s", symbol, name)
	return name, true
}

// LastRun is the completion time of the latest refresh.
func (r *Refresher) LastRun() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRun
}

func (r *Refresher) updateSchedulerLocked() {
	var symbols []string
	for _, job := range r.sources {
		symbols = append(symbols, job.config.Symbols...)
	}
	r.Scheduler.UpdateSymbols(symbols)
}

// -----------------------------------------------------------------------------

// Run performs an initial load regardless of market hours, then refreshes
// open markets every Interval until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context) error {
	r.Logger.Info("Starting refresher (every %v)", r.Interval)
	r.tick(ctx, false)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("Refresher stopped")
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx, true)
		}
	}
}

func (r *Refresher) tick(ctx context.Context, onlyOpen bool) {
	n, err := r.RefreshAll(ctx, onlyOpen)
	if r.errors.Handle(err, "refresh") {
		r.Logger.Error("Refresh keeps failing (%d consecutive errors)", r.errors.ErrorCount)
	}
	if err == nil {
		r.Logger.Debug("Refresh applied %d candles", n)
	}

	if r.DB != nil {
		if err := r.DB.CleanupOldData(); err != nil {
			r.Logger.Warning("Cleanup failed: %v", err)
		}
	}
}

// -----------------------------------------------------------------------------

// RefreshAll fetches every tracked symbol, or only those whose market is
// open when onlyOpen is set, and returns the number of candles applied.
// It fails only when every fetch failed.
func (r *Refresher) RefreshAll(ctx context.Context, onlyOpen bool) (int, error) {
	type batch struct {
		job     *sourceJob
		symbols []string
	}

	r.mu.RLock()
	batches := make([]batch, 0, len(r.order))
	for _, name := range r.order {
		job := r.sources[name]
		symbols := make([]string, len(job.config.Symbols))
		copy(symbols, job.config.Symbols)
		batches = append(batches, batch{job: job, symbols: symbols})
	}
	r.mu.RUnlock()

	var (
		mu       sync.Mutex
		total    int
		ok       int
		failures int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)

	for _, b := range batches {
		job, symbols := b.job, b.symbols
		if onlyOpen {
			symbols = r.Scheduler.OpenSymbols(symbols)
		}
		for _, symbol := range symbols {
			job, symbol := job, symbol
			g.Go(func() error {
				n, err := r.refreshOne(gctx, job, symbol)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures++
					if firstErr == nil {
						firstErr = err
					}
					r.Logger.Warning("Refresh %s from %s failed: %v", symbol, job.source.Name(), err)
					return nil
				}
				ok++
				total += n
				return nil
			})
		}
	}
	g.Wait()

	r.mu.Lock()
	r.lastRun = time.Now()
	r.mu.Unlock()

	if ok == 0 && failures > 0 {
		return 0, fmt.Errorf("all %d fetches failed: %w", failures, firstErr)
	}
	return total, nil
}

// -----------------------------------------------------------------------------

// RefreshSymbol fetches one symbol now. A symbol no source tracks yet is
// fetched from the first registered source.
func (r *Refresher) RefreshSymbol(ctx context.Context, symbol string) (int, error) {
	r.mu.RLock()
	var target *sourceJob
	for _, name := range r.order {
		job := r.sources[name]
		for _, s := range job.config.Symbols {
			if s == symbol {
				target = job
				break
			}
		}
		if target != nil {
			break
		}
	}
	if target == nil && len(r.order) > 0 {
		target = r.sources[r.order[0]]
	}
	r.mu.RUnlock()

	if target == nil {
		return 0, helpers.NewNotFoundError("no data source configured")
	}
	return r.refreshOne(ctx, target, symbol)
}

func (r *Refresher) refreshOne(ctx context.Context, job *sourceJob, symbol string) (int, error) {
	series, err := job.source.FetchSeries(ctx, symbol, job.config.Interval, job.config.Range)
	if err != nil {
		return 0, err
	}
	interval := job.config.Interval
	if interval == "" {
		interval = series.Interval
	}

	_, applied := r.Store.Merge(symbol, interval, series.Candles)
	if r.DB != nil && len(series.Candles) > 0 {
		if err := r.DB.SaveCandles(symbol, interval, series.Candles); err != nil {
			return applied, err
		}
	}
	return applied, nil
}

// -----------------------------------------------------------------------------

// Restore loads every persisted series within the retention window into
// the store.
func (r *Refresher) Restore() (int, error) {
	if r.DB == nil {
		return 0, nil
	}
	infos, err := r.DB.ListSeries()
	if err != nil {
		return 0, err
	}

	var since time.Time
	if days := r.Config.DataSource.DataRetentionDays; days > 0 {
		since = time.Now().UTC().AddDate(0, 0, -days)
	}

	restored := 0
	for _, info := range infos {
		series, err := r.DB.LoadSeries(info.Symbol, info.Interval, since, r.Store.MaxCandles)
		if err != nil {
			r.Logger.Warning("Restore %s/%s failed: %v", info.Symbol, info.Interval, err)
			continue
		}
		r.Store.Replace(series)
		restored++
	}
	r.Logger.Info("Restored %d/%d series from storage", restored, len(infos))
	return restored, nil
}
