package main

import (
	"context"
	"time"

	"candle-chart/src/analysis"
	datasource "candle-chart/src/data_source"
	"candle-chart/src/data_source/yahoo"
	"candle-chart/src/helpers"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"
	"candle-chart/src/network"
	"candle-chart/src/storage"
	"candle-chart/src/utils"
)

const (
	dbConnectRetries = 5
	dbConnectDelay   = time.Second
)

// -----------------------------------------------------------------------------

// setupDatabase opens the configured backend, retrying the schema setup
// while the database comes up.
func setupDatabase(ctx context.Context, config *models.MConfig, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	dbLogger := logger.NewLogger(config, "Storage-"+config.Storage.DBType)
	db, err := storage.New(config, dbLogger)
	if err != nil {
		return nil, err
	}

	err = helpers.RetryWithBackoff(ctx, "database initialize", dbConnectRetries, dbConnectDelay, db.Initialize)
	if err != nil {
		return nil, err
	}
	appLogger.Info("Database ready (%s)", config.Storage.DBType)
	return db, nil
}

// -----------------------------------------------------------------------------

// setupStore sizes the in-memory series store. Zero limits in the config
// are derived from the retention window and the machine's memory.
func setupStore(config *models.MConfig, appLogger *logger.Logger) *utils.SeriesStore {
	maxCandles := config.DataSource.MaxCandles
	if maxCandles == 0 {
		maxCandles = utils.CandleCapacity(config.DataSource.DataRetentionDays, finestInterval(config.DataSource.Sources))
	}
	memLimit := config.DataSource.MaxMemoryMB
	if memLimit == 0 {
		memLimit = helpers.RecommendedMemoryLimitMB()
	}

	appLogger.Info("Series store: %d candles per series, %d MB memory limit", maxCandles, memLimit)
	return utils.NewSeriesStore(maxCandles, memLimit)
}

func finestInterval(sources []models.MSourceConfig) time.Duration {
	var finest time.Duration
	for _, src := range sources {
		d, err := analysis.ParseInterval(src.Interval)
		if err != nil {
			continue
		}
		if finest == 0 || d < finest {
			finest = d
		}
	}
	return finest
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	networkLogger := logger.NewLogger(config, "NetworkManager")
	return network.NewNetworkManager(config, networkLogger)
}

// -----------------------------------------------------------------------------

// setupRefresher registers every configured source with the refresher.
func setupRefresher(
	config *models.MConfig,
	store *utils.SeriesStore,
	db interfaces.IDatabase,
	networkManager interfaces.INetworkManager,
	appLogger *logger.Logger,
) *datasource.Refresher {
	refresher := datasource.NewRefresher(config, store, db, logger.NewLogger(config, "Refresher"))

	for _, srcCfg := range config.DataSource.Sources {
		switch srcCfg.Name {
		case "yahoo":
			src := yahoo.NewYahooFinanceSource(srcCfg, networkManager)
			if err := refresher.AddSource(src, srcCfg); err != nil {
				appLogger.Warning("Skipping source %s: %v", srcCfg.Name, err)
			}
		default:
			appLogger.Warning("Unknown source type in config: %s", srcCfg.Name)
		}
	}
	return refresher
}
