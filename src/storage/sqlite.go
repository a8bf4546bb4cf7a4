package storage

import (
	"database/sql"
	"os"
	"path/filepath"

	"candle-chart/src/helpers"
	"candle-chart/src/logger"
	"candle-chart/src/models"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS candles (
		symbol TEXT NOT NULL,
		interval_name TEXT NOT NULL,
		ts INTEGER NOT NULL,
		open REAL,
		high REAL,
		low REAL,
		close REAL,
		volume REAL,
		has_volume INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (symbol, interval_name, ts)
	);
`

// -----------------------------------------------------------------------------

type SQLiteDB struct {
	candleSQL
	Path string
}

// -----------------------------------------------------------------------------

func NewSQLiteDB(cfg *models.MConfig, log *logger.Logger) *SQLiteDB {
	if log == nil {
		log = logger.NewLogger(nil, "SQLiteDB")
	}
	return &SQLiteDB{
		candleSQL: candleSQL{
			table:         "candles",
			placeholder:   func(int) string { return "?" },
			retentionDays: cfg.DataSource.DataRetentionDays,
			logger:        log,
		},
		Path: cfg.Storage.DBPath,
	}
}

// -----------------------------------------------------------------------------

func (d *SQLiteDB) Initialize() error {
	if d.Path != ":memory:" {
		if dir := filepath.Dir(d.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return helpers.WrapDatabaseError(err, "create directory %s", dir)
			}
		}
	}

	db, err := sql.Open("sqlite", d.Path)
	if err != nil {
		return helpers.WrapDatabaseError(err, "open %s", d.Path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.WrapDatabaseError(err, "ping %s", d.Path)
	}
	// A single writer avoids SQLITE_BUSY between the refresher and imports.
	db.SetMaxOpenConns(1)
	d.db = db

	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.logger.Warning("Failed to set synchronous mode: %v", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		return helpers.WrapDatabaseError(err, "create candles table")
	}

	d.logger.Info("SQLite database ready at %s", d.Path)
	return nil
}
