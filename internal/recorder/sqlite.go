package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"TrendCast/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteRecorder persists bars and forecasts to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets the API read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_bars (
			symbol TEXT NOT NULL,
			date   TEXT NOT NULL,
			open   REAL,
			high   REAL,
			low    REAL,
			close  REAL NOT NULL,
			volume INTEGER,
			PRIMARY KEY (symbol, date)
		)`,

		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT NOT NULL,
			train_ratio   REAL,
			horizon_days  INTEGER,
			confidence_z  REAL,
			slope         REAL,
			intercept     REAL,
			std_error     REAL,
			residuals     INTEGER,
			train_size    INTEGER,
			held_out_size INTEGER,
			last_date     TEXT,
			last_close    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON forecast_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS forecast_points (
			run_id    INTEGER NOT NULL REFERENCES forecast_runs(id),
			date      TEXT NOT NULL,
			predicted REAL,
			lower     REAL,
			upper     REAL,
			PRIMARY KEY (run_id, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBars(series model.Series) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO daily_bars
		(symbol, date, open, high, low, close, volume) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.Exec(series.Symbol, b.Date.Format(dateLayout),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar %s: %w", b.Date.Format(dateLayout), err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordForecast(f *model.Forecast) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := f.GeneratedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO forecast_runs
		(timestamp, symbol, train_ratio, horizon_days, confidence_z,
		 slope, intercept, std_error, residuals,
		 train_size, held_out_size, last_date, last_close)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), f.Symbol, f.TrainRatio, f.HorizonDays, f.ConfidenceZ,
		f.Model.Slope, f.Model.Intercept, f.Residuals.StdError, f.Residuals.Count,
		f.TrainSize, f.HeldOutSize, f.LastDate.Format(dateLayout), f.LastClose,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO forecast_points
		(run_id, date, predicted, lower, upper) VALUES (?,?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()
	for _, p := range f.Points {
		if _, err := stmt.Exec(runID, p.Date.Format(dateLayout), p.Predicted, p.Lower, p.Upper); err != nil {
			return 0, fmt.Errorf("insert point: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

func (r *SQLiteRecorder) LatestForecast(symbol string) (*model.Forecast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		f        model.Forecast
		runID    int64
		ts       int64
		lastDate string
	)
	err := r.db.QueryRow(`SELECT id, timestamp, symbol, train_ratio, horizon_days, confidence_z,
			slope, intercept, std_error, residuals, train_size, held_out_size, last_date, last_close
		FROM forecast_runs WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT 1`, symbol).Scan(
		&runID, &ts, &f.Symbol, &f.TrainRatio, &f.HorizonDays, &f.ConfidenceZ,
		&f.Model.Slope, &f.Model.Intercept, &f.Residuals.StdError, &f.Residuals.Count,
		&f.TrainSize, &f.HeldOutSize, &lastDate, &f.LastClose,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	f.GeneratedAt = time.Unix(ts, 0).UTC()
	if f.LastDate, err = time.Parse(dateLayout, lastDate); err != nil {
		return nil, fmt.Errorf("parse last date: %w", err)
	}

	rows, err := r.db.Query(`SELECT date, predicted, lower, upper
		FROM forecast_points WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			p    model.ForecastPoint
			date string
		)
		if err := rows.Scan(&date, &p.Predicted, &p.Lower, &p.Upper); err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		if p.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parse point date: %w", err)
		}
		f.Points = append(f.Points, p)
	}
	return &f, rows.Err()
}

// BarCount returns the number of stored bars for symbol.
func (r *SQLiteRecorder) BarCount(symbol string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM daily_bars WHERE symbol = ?`, symbol).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
