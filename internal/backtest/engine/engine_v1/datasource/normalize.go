package datasource

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-replay/internal/logger"
	"github.com/rxtech-lab/argo-replay/internal/types"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
	"go.uber.org/zap"
)

// normalize yields the one-minute bars of a single file, detecting its
// schema from the header. It returns false when the caller stopped early or
// an error was yielded.
func normalize(path string, rows rowReader, log *logger.Logger, yield func(types.Bar, error) bool) bool {
	schema, err := DetectSchema(path, rows.Columns())
	if err != nil {
		yield(types.Bar{}, err)

		return false
	}

	log.Debug("Reading data file",
		zap.String("file", path),
		zap.String("schema", string(schema)),
	)

	h := newHeader(rows.Columns())

	if schema == SchemaOHLCV {
		return readOHLCV(path, h, rows, yield)
	}

	return aggregateTicks(path, h, rows, log, yield)
}

func readOHLCV(path string, h header, rows rowReader, yield func(types.Bar, error) bool) bool {
	// header is line 1
	line := 1

	for {
		record, err := rows.Next()
		if err == io.EOF {
			return true
		}

		line++

		if err != nil {
			yield(types.Bar{}, errors.Wrapf(errors.ErrCodeDataFileOpen, err, "failed to read %s line %d", path, line))

			return false
		}

		bar, err := parseOHLCVRecord(h, record)
		if err != nil {
			yield(types.Bar{}, errors.Wrapf(errors.GetCode(err), err, "%s line %d", path, line))

			return false
		}

		if !yield(bar, nil) {
			return false
		}
	}
}

func parseOHLCVRecord(h header, record []string) (types.Bar, error) {
	raw, _ := h.firstPresent(record, TimestampAliases)

	ts, err := ParseTimestamp(raw)
	if err != nil {
		return types.Bar{}, err
	}

	bar := types.Bar{Time: FloorMinute(ts)}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
	}

	for _, f := range fields {
		v, err := parseNumber(h, record, f.name)
		if err != nil {
			return types.Bar{}, err
		}

		*f.dst = v
	}

	if i, ok := h["volume"]; ok && i < len(record) && strings.TrimSpace(record[i]) != "" {
		v, err := parseNumber(h, record, "volume")
		if err != nil {
			return types.Bar{}, err
		}

		bar.Volume = v
	}

	return bar, nil
}

func parseNumber(h header, record []string, column string) (float64, error) {
	i := h[column]
	if i >= len(record) {
		return 0, errors.Newf(errors.ErrCodeMalformedNumericData, "missing value for column %s", column)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeMalformedNumericData, err, "invalid %s value %q", column, record[i])
	}

	return v, nil
}

// minuteBar accumulates the ticks of one minute bucket.
type minuteBar struct {
	bar    types.Bar
	active bool
}

func (m *minuteBar) start(minute time.Time, price, qty float64) {
	m.bar = types.Bar{
		Time:   minute,
		Open:   price,
		High:   price,
		Low:    price,
		Close:  price,
		Volume: qty,
	}
	m.active = true
}

func (m *minuteBar) add(price, qty float64) {
	m.bar.Close = price
	m.bar.High = max(m.bar.High, price)
	m.bar.Low = min(m.bar.Low, price)
	m.bar.Volume += qty
}

// aggregateTicks folds time-ordered ticks into one-minute bars. Rows without a
// usable timestamp or price are skipped and a missing quantity counts as 0.
func aggregateTicks(path string, h header, rows rowReader, log *logger.Logger, yield func(types.Bar, error) bool) bool {
	var (
		acc     minuteBar
		skipped int
		line    = 1
	)

	for {
		record, err := rows.Next()
		if err == io.EOF {
			break
		}

		line++

		if err != nil {
			yield(types.Bar{}, errors.Wrapf(errors.ErrCodeDataFileOpen, err, "failed to read %s line %d", path, line))

			return false
		}

		minute, price, qty, ok := parseTick(h, record)
		if !ok {
			skipped++

			continue
		}

		switch {
		case !acc.active:
			acc.start(minute, price, qty)
		case !minute.Equal(acc.bar.Time):
			if !yield(acc.bar, nil) {
				return false
			}

			acc.start(minute, price, qty)
		default:
			acc.add(price, qty)
		}
	}

	if skipped > 0 {
		log.Debug("Skipped unusable tick rows",
			zap.String("file", path),
			zap.Int("rows", skipped),
		)
	}

	if acc.active {
		return yield(acc.bar, nil)
	}

	return true
}

func parseTick(h header, record []string) (time.Time, float64, float64, bool) {
	rawTs, ok := h.firstPresent(record, TimestampAliases)
	if !ok {
		return time.Time{}, 0, 0, false
	}

	ts, err := ParseTimestamp(rawTs)
	if err != nil {
		return time.Time{}, 0, 0, false
	}

	rawPrice, ok := h.firstPresent(record, PriceAliases)
	if !ok {
		return time.Time{}, 0, 0, false
	}

	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil {
		return time.Time{}, 0, 0, false
	}

	qty := 0.0

	if rawQty, ok := h.firstPresent(record, QuantityAliases); ok {
		if v, err := strconv.ParseFloat(rawQty, 64); err == nil {
			qty = v
		}
	}

	return FloorMinute(ts), price, qty, true
}
