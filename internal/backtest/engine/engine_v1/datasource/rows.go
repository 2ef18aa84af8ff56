package datasource

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// rowReader yields the raw records of one data file as strings.
type rowReader interface {
	// Columns returns the header as found in the file.
	Columns() []string
	// Next returns the next record or io.EOF.
	Next() ([]string, error)
	Close() error
}

type csvRows struct {
	file    *os.File
	reader  *csv.Reader
	columns []string
}

// openCSV opens a CSV file. A UTF-8 or UTF-16 byte order mark is consumed
// and the content decoded to UTF-8.
func openCSV(path string) (*csvRows, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataFileOpen, err, "failed to open %s", path)
	}

	decoded := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r := csv.NewReader(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	columns, err := r.Read()
	if err != nil && err != io.EOF {
		f.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataFileOpen, err, "failed to read header of %s", path)
	}

	return &csvRows{
		file:    f,
		reader:  r,
		columns: columns,
	}, nil
}

func (c *csvRows) Columns() []string {
	return c.columns
}

func (c *csvRows) Next() ([]string, error) {
	if c.columns == nil {
		return nil, io.EOF
	}

	return c.reader.Read()
}

func (c *csvRows) Close() error {
	return c.file.Close()
}

type parquetRows struct {
	rows    *sql.Rows
	columns []string
	values  []any
	ptrs    []any
}

// openParquet streams a parquet file through DuckDB's read_parquet.
func openParquet(db *sql.DB, sq squirrel.StatementBuilderType, path string) (*parquetRows, error) {
	source := fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(path, "'", "''"))

	query, args, err := sq.Select("*").From(source).ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build parquet query", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataFileOpen, err, "failed to open %s", path)
	}

	columns, err := rows.Columns()
	if err != nil {
		rows.Close()

		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read columns of %s", path)
	}

	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))

	for i := range values {
		ptrs[i] = &values[i]
	}

	return &parquetRows{
		rows:    rows,
		columns: columns,
		values:  values,
		ptrs:    ptrs,
	}, nil
}

func (p *parquetRows) Columns() []string {
	return p.columns
}

func (p *parquetRows) Next() ([]string, error) {
	if !p.rows.Next() {
		if err := p.rows.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read parquet row", err)
		}

		return nil, io.EOF
	}

	if err := p.rows.Scan(p.ptrs...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan parquet row", err)
	}

	record := make([]string, len(p.values))
	for i, v := range p.values {
		record[i] = formatValue(v)
	}

	return record, nil
}

func (p *parquetRows) Close() error {
	return p.rows.Close()
}

// formatValue renders a scanned value the way it would appear in a CSV.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case interface{ Float64() float64 }:
		return strconv.FormatFloat(val.Float64(), 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
