package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"candle-chart/src/helpers"
	"candle-chart/src/logger"
	"candle-chart/src/models"

	_ "github.com/lib/pq"
)

var identSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	candleSQL
	Config *models.MConfig
	Schema string
}

// -----------------------------------------------------------------------------

// NewPostgresDB stores candles in a schema named after the application,
// falling back to the executable name.
func NewPostgresDB(cfg *models.MConfig, log *logger.Logger) (*PostgresDB, error) {
	if log == nil {
		log = logger.NewLogger(nil, "PostgresDB")
	}

	name := cfg.Name
	if name == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable name: %w", err)
		}
		name = strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	}
	schema := SchemaName(name)

	return &PostgresDB{
		candleSQL: candleSQL{
			table:         fmt.Sprintf(`%s."candles"`, quoteIdent(schema)),
			placeholder:   func(n int) string { return fmt.Sprintf("$%d", n) },
			retentionDays: cfg.DataSource.DataRetentionDays,
			logger:        log,
		},
		Config: cfg,
		Schema: schema,
	}, nil
}

// SchemaName turns an application name into a safe lower-case identifier.
func SchemaName(name string) string {
	s := strings.Trim(identSanitizer.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if s == "" {
		return "candle_chart"
	}
	return s
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	db, err := sql.Open("postgres", d.Config.Storage.DBConnectionString)
	if err != nil {
		return helpers.WrapDatabaseError(err, "open postgres")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.WrapDatabaseError(err, "ping postgres")
	}
	d.db = db

	if _, err := db.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, quoteIdent(d.Schema))); err != nil {
		return helpers.WrapDatabaseError(err, "create schema %s", d.Schema)
	}
	if err := d.createTables(); err != nil {
		return err
	}

	// Sources may list schema.table.column references; resolve them once so
	// the rest of the application only sees plain tickers.
	for i := range d.Config.DataSource.Sources {
		src := &d.Config.DataSource.Sources[i]
		symbols, err := d.FilterAndRegisterSymbols(src.Name, src.Symbols)
		if err != nil {
			d.logger.Error("Failed to resolve symbols for source %s: %v", src.Name, err)
			continue
		}
		src.Symbols = symbols
	}

	d.logger.Info("PostgresDB initialized (schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			symbol TEXT NOT NULL,
			interval_name TEXT NOT NULL,
			ts BIGINT NOT NULL,
			open DOUBLE PRECISION,
			high DOUBLE PRECISION,
			low DOUBLE PRECISION,
			close DOUBLE PRECISION,
			volume DOUBLE PRECISION,
			has_volume BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (symbol, interval_name, ts)
		);
	`, d.table)
	if _, err := d.db.Exec(query); err != nil {
		return helpers.WrapDatabaseError(err, "create candles table")
	}

	query = fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s."symbols" (
			symbol TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			ref TEXT,
			source_name TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`, quoteIdent(d.Schema))
	if _, err := d.db.Exec(query); err != nil {
		return helpers.WrapDatabaseError(err, "create symbols table")
	}
	return nil
}
