// Package writers persists the per-symbol artifacts of a backtest run.
package writers

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/internal/types"
)

// FormatFloat renders v as the shortest round-tripping decimal, always with a
// fractional part or an exponent: 100 -> "100.0", 3.5e-05 -> "3.5e-05".
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if v != 0 {
		exp := math.Floor(math.Log10(math.Abs(v)))
		if exp < -4 || exp >= 16 {
			return strconv.FormatFloat(v, 'e', -1, 64)
		}
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// FormatOptional renders None as an empty field.
func FormatOptional(v optional.Option[float64]) string {
	if v.IsNone() {
		return ""
	}

	return FormatFloat(v.Unwrap())
}

// FormatTime renders t in UTC with an explicit offset.
func FormatTime(t time.Time) string {
	return t.UTC().Format(types.TimestampLayout)
}
