package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"candle-chart/src/helpers"
	"candle-chart/src/logger"
	"candle-chart/src/models"
)

// candleSQL holds the queries shared by the SQLite and Postgres backends.
// The two differ in DDL, placeholders and table qualification only.
type candleSQL struct {
	db            *sql.DB
	table         string
	placeholder   func(n int) string
	retentionDays int
	logger        *logger.Logger
}

// -----------------------------------------------------------------------------

func (s *candleSQL) args(from, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.placeholder(from + i)
	}
	return strings.Join(parts, ", ")
}

func (s *candleSQL) upsertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (symbol, interval_name, ts, open, high, low, close, volume, has_volume)
		VALUES (%s)
		ON CONFLICT (symbol, interval_name, ts) DO UPDATE SET
			open = excluded.open,
			high = excluded.high,
			low = excluded.low,
			close = excluded.close,
			volume = excluded.volume,
			has_volume = excluded.has_volume
	`, s.table, s.args(1, 9))
}

func (s *candleSQL) writeCandles(tx *sql.Tx, symbol, interval string, candles []models.MCandle) error {
	stmt, err := tx.Prepare(s.upsertQuery())
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(symbol, interval, c.Timestamp.Unix(), c.Open, c.High, c.Low, c.Close, c.Volume, c.HasVolume); err != nil {
			return err
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *candleSQL) SaveCandles(symbol, interval string, candles []models.MCandle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return helpers.WrapDatabaseError(err, "begin save %s/%s", symbol, interval)
	}
	defer tx.Rollback()

	if err := s.writeCandles(tx, symbol, interval, candles); err != nil {
		return helpers.WrapDatabaseError(err, "save %s/%s", symbol, interval)
	}
	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *candleSQL) ReplaceSeries(series models.MSeries) error {
	tx, err := s.db.Begin()
	if err != nil {
		return helpers.WrapDatabaseError(err, "begin replace %s/%s", series.Symbol, series.Interval)
	}
	defer tx.Rollback()

	del := fmt.Sprintf("DELETE FROM %s WHERE symbol = %s AND interval_name = %s", s.table, s.placeholder(1), s.placeholder(2))
	if _, err := tx.Exec(del, series.Symbol, series.Interval); err != nil {
		return helpers.WrapDatabaseError(err, "clear %s/%s", series.Symbol, series.Interval)
	}
	if err := s.writeCandles(tx, series.Symbol, series.Interval, series.Candles); err != nil {
		return helpers.WrapDatabaseError(err, "replace %s/%s", series.Symbol, series.Interval)
	}
	return tx.Commit()
}

// -----------------------------------------------------------------------------

func (s *candleSQL) LoadSeries(symbol, interval string, since time.Time, limit int) (models.MSeries, error) {
	query := fmt.Sprintf(`
		SELECT ts, open, high, low, close, volume, has_volume
		FROM %s
		WHERE symbol = %s AND interval_name = %s AND ts >= %s
		ORDER BY ts DESC`, s.table, s.placeholder(1), s.placeholder(2), s.placeholder(3))
	args := []interface{}{symbol, interval, since.Unix()}
	if limit > 0 {
		query += " LIMIT " + s.placeholder(4)
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return models.MSeries{}, helpers.WrapDatabaseError(err, "load %s/%s", symbol, interval)
	}
	defer rows.Close()

	var candles []models.MCandle
	for rows.Next() {
		var (
			ts int64
			c  models.MCandle
		)
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.HasVolume); err != nil {
			return models.MSeries{}, helpers.WrapDatabaseError(err, "scan %s/%s", symbol, interval)
		}
		c.Timestamp = time.Unix(ts, 0).UTC()
		candles = append(candles, c)
	}
	if err := rows.Err(); err != nil {
		return models.MSeries{}, helpers.WrapDatabaseError(err, "load %s/%s", symbol, interval)
	}

	// Rows came newest first so LIMIT keeps the tail.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return models.MSeries{Symbol: symbol, Interval: interval, Candles: candles}, nil
}

// -----------------------------------------------------------------------------

func (s *candleSQL) ListSeries() ([]models.MSeriesInfo, error) {
	query := fmt.Sprintf(`
		SELECT symbol, interval_name, COUNT(*), MIN(ts), MAX(ts)
		FROM %s
		GROUP BY symbol, interval_name
		ORDER BY symbol, interval_name`, s.table)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, helpers.WrapDatabaseError(err, "list series")
	}
	defer rows.Close()

	var out []models.MSeriesInfo
	for rows.Next() {
		var (
			info        models.MSeriesInfo
			first, last int64
		)
		if err := rows.Scan(&info.Symbol, &info.Interval, &info.Count, &first, &last); err != nil {
			return nil, helpers.WrapDatabaseError(err, "scan series list")
		}
		info.First = time.Unix(first, 0).UTC()
		info.Last = time.Unix(last, 0).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// -----------------------------------------------------------------------------

func (s *candleSQL) DeleteSeries(symbol, interval string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE symbol = %s AND interval_name = %s", s.table, s.placeholder(1), s.placeholder(2))
	if _, err := s.db.Exec(query, symbol, interval); err != nil {
		return helpers.WrapDatabaseError(err, "delete %s/%s", symbol, interval)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *candleSQL) CleanupOldData() error {
	if s.retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays).Unix()

	res, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE ts < %s", s.table, s.placeholder(1)), cutoff)
	if err != nil {
		return helpers.WrapDatabaseError(err, "cleanup")
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Info("Removed %d candles older than %d days", n, s.retentionDays)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *candleSQL) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
