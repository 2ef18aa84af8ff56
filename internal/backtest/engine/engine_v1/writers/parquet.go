package writers

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"go.uber.org/zap"
)

// TradesParquetWriter collects closed trades in an in-memory DuckDB table and
// exports them to a Parquet file.
type TradesParquetWriter struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewTradesParquetWriter opens the in-memory database and creates the table.
func NewTradesParquetWriter(log *logger.Logger) (*TradesParquetWriter, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		log.Error("Failed to open database", zap.Error(err))

		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to open database", err)
	}

	if err := db.Ping(); err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to connect to database", err)
	}

	w := &TradesParquetWriter{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := w.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return w, nil
}

// Add inserts closed trades.
func (w *TradesParquetWriter) Add(trades ...types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	insert := w.sq.Insert("trades").Columns(
		"symbol", "side", "entry_ts", "entry_price", "sl", "tp",
		"exit_ts", "exit_price", "exit_reason", "r", "size", "pnl",
	)

	for _, t := range trades {
		pnl, _ := t.PnL().Float64()
		insert = insert.Values(
			t.Symbol, string(t.Side), t.EntryTime.UTC(), t.EntryPrice, t.StopLoss, t.TakeProfit,
			t.ExitTime.UTC(), t.ExitPrice, string(t.ExitReason), t.R, t.Size, pnl,
		)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert query", err)
	}

	if _, err := w.db.Exec(query, args...); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert trades", err)
	}

	return nil
}

// Count returns the number of trades collected.
func (w *TradesParquetWriter) Count() (int, error) {
	query, args, err := w.sq.Select("COUNT(*)").From("trades").ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := w.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count trades", err)
	}

	return count, nil
}

// Write exports the collected trades to a Parquet file at path.
func (w *TradesParquetWriter) Write(path string) error {
	escaped := strings.ReplaceAll(path, "'", "''")

	_, err := w.db.Exec(fmt.Sprintf(`COPY (SELECT * FROM trades ORDER BY exit_ts) TO '%s' (FORMAT PARQUET)`, escaped))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to export trades to %s", path)
	}

	w.logger.Debug("Exported trades to Parquet file", zap.String("file", path))

	return nil
}

// Close closes the database connection.
func (w *TradesParquetWriter) Close() error {
	if w == nil || w.db == nil {
		return nil
	}

	return w.db.Close()
}

func (w *TradesParquetWriter) initialize() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			symbol TEXT,
			side TEXT,
			entry_ts TIMESTAMPTZ,
			entry_price DOUBLE,
			sl DOUBLE,
			tp DOUBLE,
			exit_ts TIMESTAMPTZ,
			exit_price DOUBLE,
			exit_reason TEXT,
			r DOUBLE,
			size DOUBLE,
			pnl DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create trades table", err)
	}

	return nil
}
