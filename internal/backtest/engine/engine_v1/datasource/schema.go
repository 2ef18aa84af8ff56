package datasource

import (
	"strings"

	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// Schema is the layout of a raw data file.
type Schema string

const (
	// SchemaOHLCV is a file of pre-aggregated bars.
	SchemaOHLCV Schema = "ohlcv"
	// SchemaTicks is a file of trades that is aggregated to one-minute bars.
	SchemaTicks Schema = "ticks"
)

// Column aliases in priority order.
var (
	TimestampAliases = []string{"timestamp", "ts", "t", "time"}
	PriceAliases     = []string{"price", "p", "last_price", "close", "c"}
	QuantityAliases  = []string{"qty", "quantity", "size", "amount", "volume", "q"}
	ohlcColumns      = []string{"open", "high", "low", "close"}
)

// header maps normalized column names to their index.
type header map[string]int

// newHeader lowercases the names and strips whitespace and a byte order mark.
// The first occurrence of a duplicated name wins.
func newHeader(columns []string) header {
	h := make(header, len(columns))

	for i, c := range columns {
		name := normalizeColumn(c)
		if _, ok := h[name]; !ok {
			h[name] = i
		}
	}

	return h
}

func normalizeColumn(c string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimLeft(c, "\ufeff")))
}

func (h header) has(name string) bool {
	_, ok := h[name]

	return ok
}

func (h header) hasAny(names []string) bool {
	for _, n := range names {
		if h.has(n) {
			return true
		}
	}

	return false
}

// firstPresent returns the first non-blank value among the aliases.
func (h header) firstPresent(row []string, aliases []string) (string, bool) {
	for _, a := range aliases {
		i, ok := h[a]
		if !ok || i >= len(row) {
			continue
		}

		if v := strings.TrimSpace(row[i]); v != "" {
			return v, true
		}
	}

	return "", false
}

// DetectSchema decides how a file should be read from its header columns.
// OHLCV wins when all of open, high, low and close are present.
func DetectSchema(path string, columns []string) (Schema, error) {
	h := newHeader(columns)

	ohlcv := true

	for _, c := range ohlcColumns {
		if !h.has(c) {
			ohlcv = false

			break
		}
	}

	if ohlcv {
		return SchemaOHLCV, nil
	}

	if h.hasAny(PriceAliases) && h.hasAny(QuantityAliases) {
		return SchemaTicks, nil
	}

	return "", errors.NewSchemaError(path, strings.Join(columns, ","))
}
