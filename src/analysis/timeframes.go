package analysis

import (
	"candle-chart/src/helpers"
	"candle-chart/src/logger"
	"candle-chart/src/models"
)

// Timeframes resolves the configured display timeframes against stored
// series, resampling on the fly when a coarser timeframe is requested.
type Timeframes struct {
	Names   []string
	Seconds map[string]int64
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewTimeframes(names []string, log *logger.Logger) *Timeframes {
	if log == nil {
		log = logger.NewLogger(nil, "Timeframes")
	}
	tf := &Timeframes{Seconds: make(map[string]int64), Logger: log}
	for _, name := range names {
		d, err := ParseInterval(name)
		if err != nil {
			log.Warning("Skipping timeframe %s: %v", name, err)
			continue
		}
		tf.Names = append(tf.Names, name)
		tf.Seconds[name] = int64(d.Seconds())
	}
	return tf
}

// -----------------------------------------------------------------------------

// Resolve returns series at timeframe. An empty timeframe or one equal to
// the series interval returns the series unchanged. The target must be a
// whole multiple of the stored interval.
func (t *Timeframes) Resolve(series models.MSeries, timeframe string) (models.MSeries, error) {
	if timeframe == "" || timeframe == series.Interval {
		return series, nil
	}

	target, ok := t.Seconds[timeframe]
	if !ok {
		d, err := ParseInterval(timeframe)
		if err != nil {
			return models.MSeries{}, helpers.NewValidationError("unknown timeframe %q", timeframe)
		}
		target = int64(d.Seconds())
	}

	base, err := ParseInterval(series.Interval)
	if err != nil {
		return models.MSeries{}, helpers.NewValidationError("series interval %q cannot be resampled", series.Interval)
	}
	baseSeconds := int64(base.Seconds())
	if baseSeconds <= 0 || target <= 0 {
		return models.MSeries{}, helpers.NewValidationError("timeframe %s cannot be built from %s", timeframe, series.Interval)
	}
	if target < baseSeconds || target%baseSeconds != 0 {
		return models.MSeries{}, helpers.NewValidationError("timeframe %s is not a multiple of %s", timeframe, series.Interval)
	}

	return models.MSeries{
		Symbol:   series.Symbol,
		Interval: timeframe,
		Candles:  ResampleCandles(series.Candles, target),
		Version:  series.Version,
	}, nil
}
