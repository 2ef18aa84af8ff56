package datasource

import (
	"database/sql"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"go.uber.org/zap"
)

// DataSource produces the ordered bar stream of one symbol.
type DataSource interface {
	// Files returns the files that may hold bars within [start, end).
	Files(start, end optional.Option[time.Time]) ([]string, error)
	// ReadAll yields the bars within [start, end), file by file in name order.
	// Reading stops at the first error.
	ReadAll(start, end optional.Option[time.Time]) func(yield func(types.Bar, error) bool)
	// Close releases any resources held by the data source.
	Close() error
}

// FileDataSource reads <root>/<symbol>/*.csv and *.parquet files.
// Parquet files are read through an in-memory DuckDB opened on first use.
type FileDataSource struct {
	dir    string
	symbol string
	logger *logger.Logger
	db     *sql.DB
	sq     squirrel.StatementBuilderType
}

// NewFileDataSource creates a data source for symbol under root.
func NewFileDataSource(root, symbol string, log *logger.Logger) *FileDataSource {
	return &FileDataSource{
		dir:    filepath.Join(root, symbol),
		symbol: symbol,
		logger: log,
		db:     nil,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Files implements DataSource.
func (d *FileDataSource) Files(start, end optional.Option[time.Time]) ([]string, error) {
	all, err := ListFiles(d.dir)
	if err != nil {
		return nil, err
	}

	if len(all) == 0 {
		d.logger.Warn("No data files found",
			zap.String("symbol", d.symbol),
			zap.String("dir", d.dir),
		)

		return nil, nil
	}

	kept := FilterFiles(all, start, end)
	d.logger.Info("Selected data files",
		zap.String("symbol", d.symbol),
		zap.String("dir", d.dir),
		zap.Int("kept", len(kept)),
		zap.Int("total", len(all)),
	)

	return kept, nil
}

// ReadAll implements DataSource.
func (d *FileDataSource) ReadAll(start, end optional.Option[time.Time]) func(yield func(types.Bar, error) bool) {
	return func(yield func(types.Bar, error) bool) {
		files, err := d.Files(start, end)
		if err != nil {
			yield(types.Bar{}, err)

			return
		}

		inWindow := func(bar types.Bar, err error) bool {
			if err != nil {
				return yield(bar, err)
			}

			if start.IsSome() && bar.Time.Before(start.Unwrap()) {
				return true
			}

			if end.IsSome() && !bar.Time.Before(end.Unwrap()) {
				return true
			}

			return yield(bar, nil)
		}

		for _, f := range files {
			if !d.readFile(f, inWindow) {
				return
			}
		}
	}
}

func (d *FileDataSource) readFile(path string, yield func(types.Bar, error) bool) bool {
	rows, err := d.open(path)
	if err != nil {
		yield(types.Bar{}, err)

		return false
	}
	defer rows.Close()

	return normalize(path, rows, d.logger, yield)
}

func (d *FileDataSource) open(path string) (rowReader, error) {
	if !strings.EqualFold(filepath.Ext(path), ".parquet") {
		return openCSV(path)
	}

	if d.db == nil {
		db, err := sql.Open("duckdb", "")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataFileOpen, "failed to open duckdb", err)
		}

		d.db = db
	}

	return openParquet(d.db, d.sq, path)
}

// Close implements DataSource.
func (d *FileDataSource) Close() error {
	if d.db == nil {
		return nil
	}

	err := d.db.Close()
	d.db = nil

	return err
}
