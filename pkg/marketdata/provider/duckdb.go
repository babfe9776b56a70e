package provider

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-screener/internal/types"
	"github.com/rxtech-lab/argo-screener/pkg/errors"
)

// DuckDBClient reads bars from a parquet file with the market_data layout
// (id, time, symbol, open, high, low, close, volume) and resamples them to
// the requested bar width.
type DuckDBClient struct {
	db   *sql.DB
	path string
	sq   squirrel.StatementBuilderType
}

// NewDuckDBClient opens an in-memory DuckDB over the parquet file at path.
func NewDuckDBClient(path string) (Provider, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "duckdb provider requires a data path")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "parquet file %s", path)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	return &DuckDBClient{
		db:   db,
		path: path,
		sq:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Close releases the database handle.
func (c *DuckDBClient) Close() error {
	return c.db.Close()
}

// Fetch implements Provider. Each bucket's open is the first open, close the
// last close, high the max, low the min and volume the sum of its source rows.
func (c *DuckDBClient) Fetch(ctx context.Context, req Request) ([]types.MarketData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query, args, err := c.buildBucketQuery(req)
	if err != nil {
		return nil, err
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "bucket query for %s", req.Ticker)
	}
	defer rows.Close()

	var bars []types.MarketData

	for rows.Next() {
		var (
			ts                         time.Time
			open, high, low, closePrice float64
			volume                     sql.NullFloat64
		)

		if err := rows.Scan(&ts, &open, &high, &low, &closePrice, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar", err)
		}

		bars = append(bars, types.MarketData{
			Id:     "",
			Symbol: req.Ticker,
			Time:   ts.UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume.Float64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "error iterating bars", err)
	}

	return bars, nil
}

func (c *DuckDBClient) buildBucketQuery(req Request) (string, []any, error) {
	width, err := duckdbInterval(req.Multiplier, req.Timespan)
	if err != nil {
		return "", nil, err
	}

	bucket := fmt.Sprintf("time_bucket(INTERVAL '%s', time)", width)

	query, args, err := c.sq.
		Select(
			bucket+" AS bucket",
			"arg_min(open, time) AS open",
			"max(high) AS high",
			"min(low) AS low",
			"arg_max(close, time) AS close",
			"sum(volume) AS volume",
		).
		From(fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(c.path, "'", "''"))).
		Where(squirrel.And{
			squirrel.Eq{"symbol": req.Ticker},
			squirrel.GtOrEq{"time": req.Start.UTC()},
			squirrel.Lt{"time": req.End.UTC()},
		}).
		GroupBy("bucket").
		OrderBy("bucket ASC").
		ToSql()
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	return query, args, nil
}

func duckdbInterval(multiplier int, timespan models.Timespan) (string, error) {
	units := map[models.Timespan]string{
		models.Minute: "minutes",
		models.Hour:   "hours",
		models.Day:    "days",
		models.Week:   "weeks",
		models.Month:  "months",
	}

	unit, ok := units[timespan]
	if !ok {
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "duckdb provider does not support %s bars", timespan)
	}

	return fmt.Sprintf("%d %s", multiplier, unit), nil
}
