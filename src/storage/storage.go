package storage

import (
	"candle-chart/src/helpers"
	"candle-chart/src/interfaces"
	"candle-chart/src/logger"
	"candle-chart/src/models"
)

// New builds the backend named by cfg.Storage.DBType. Initialize is left
// to the caller so it can be retried.
func New(cfg *models.MConfig, log *logger.Logger) (interfaces.IDatabase, error) {
	switch cfg.Storage.DBType {
	case "sqlite":
		return NewSQLiteDB(cfg, log), nil
	case "postgres":
		return NewPostgresDB(cfg, log)
	default:
		return nil, helpers.NewConfigurationError("unsupported database type: %s", cfg.Storage.DBType)
	}
}
