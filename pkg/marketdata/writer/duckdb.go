package writer

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-screener/internal/logger"
	"github.com/rxtech-lab/argo-screener/internal/types"
	codes "github.com/rxtech-lab/argo-screener/pkg/errors"
	"go.uber.org/zap"
)

// ParquetWriter stages bars in an in-memory DuckDB table and exports them as
// a parquet snapshot in the market_data layout read by the duckdb provider.
type ParquetWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	rows       int
	log        *logger.Logger
}

// NewParquetWriter creates a writer exporting to outputPath.
func NewParquetWriter(outputPath string, log *logger.Logger) MarketDataWriter {
	if log == nil {
		log = logger.NewNop()
	}

	return &ParquetWriter{
		db:         nil,
		tx:         nil,
		stmt:       nil,
		outputPath: outputPath,
		rows:       0,
		log:        log,
	}
}

// Initialize opens the staging database, creates the market_data table and
// prepares the insert statement inside a transaction.
func (w *ParquetWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", "")
	if err != nil {
		return codes.Wrap(codes.ErrCodeOutputWriteFailed, "failed to open duckdb", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return codes.Wrap(codes.ErrCodeOutputWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return codes.Wrap(codes.ErrCodeOutputWriteFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return codes.Wrap(codes.ErrCodeOutputWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// Write stages one bar. Bars without an id get a fresh UUID; times are stored in UTC.
func (w *ParquetWriter) Write(data types.MarketData) error {
	if w.stmt == nil {
		return codes.New(codes.ErrCodeOutputWriteFailed, "writer not initialized")
	}

	id := data.Id
	if id == "" {
		id = uuid.New().String()
	}

	_, err := w.stmt.Exec(id, data.Time.UTC(), data.Symbol, data.Open, data.High, data.Low, data.Close, data.Volume)
	if err != nil {
		return codes.Wrapf(codes.ErrCodeOutputWriteFailed, err, "failed to stage bar %s at %s", data.Symbol, data.Time)
	}

	w.rows++

	return nil
}

// Finalize commits the staged bars and exports them, ordered by symbol and
// time, to a temporary file that is then renamed onto the output path.
func (w *ParquetWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", codes.New(codes.ErrCodeOutputWriteFailed, "writer not initialized or already finalized")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", codes.Wrap(codes.ErrCodeOutputWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	if dir := filepath.Dir(w.outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", codes.Wrapf(codes.ErrCodeOutputWriteFailed, err, "failed to create %s", dir)
		}
	}

	tmpPath := w.outputPath + ".tmp"
	escaped := strings.ReplaceAll(tmpPath, "'", "''")

	_, err := w.db.Exec(fmt.Sprintf(
		`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (FORMAT PARQUET)`, escaped))
	if err != nil {
		os.Remove(tmpPath)

		return "", codes.Wrap(codes.ErrCodeOutputWriteFailed, "failed to export parquet", err)
	}

	if err := os.Rename(tmpPath, w.outputPath); err != nil {
		os.Remove(tmpPath)

		return "", codes.Wrapf(codes.ErrCodeOutputWriteFailed, err, "failed to move snapshot to %s", w.outputPath)
	}

	w.log.Info("Exported market data snapshot",
		zap.String("path", w.outputPath),
		zap.Int("bars", w.rows),
	)

	return w.outputPath, nil
}

// Close releases the statement and database. An unfinished transaction is
// rolled back. Close is safe to call more than once.
func (w *ParquetWriter) Close() error {
	var errs []error

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close statement: %w", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.log.Warn("Failed to roll back snapshot transaction", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close db connection: %w", err))
		}

		w.db = nil
	}

	return errors.Join(errs...)
}

// GetOutputPath returns the configured output file path.
func (w *ParquetWriter) GetOutputPath() string {
	return w.outputPath
}
