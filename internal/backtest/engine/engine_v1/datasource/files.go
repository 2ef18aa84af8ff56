package datasource

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// yearMonthPattern matches tokens such as 2024-01 or 2024_01 in file names.
var yearMonthPattern = regexp.MustCompile(`(\d{4})[-_](\d{2})`)

// supportedExtensions are the data file types read by the normalizer.
var supportedExtensions = map[string]bool{
	".csv":     true,
	".parquet": true,
}

// MonthRange returns the [first day, first day of next month) range encoded
// in a file name. ok is false when the name has no valid year-month token.
func MonthRange(name string) (time.Time, time.Time, bool) {
	m := yearMonthPattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, time.Time{}, false
	}

	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])

	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, false
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	return start, start.AddDate(0, 1, 0), true
}

// ListFiles returns the data files in dir sorted by name. A missing directory
// yields no files.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrapf(errors.ErrCodeDataFileOpen, err, "failed to list %s", dir)
	}

	var files []string

	for _, e := range entries {
		if e.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}

		files = append(files, filepath.Join(dir, e.Name()))
	}

	sort.Strings(files)

	return files, nil
}

// FilterFiles keeps the files whose year-month could overlap [start, end).
// Files without a year-month token are always kept.
func FilterFiles(files []string, start, end optional.Option[time.Time]) []string {
	if start.IsNone() && end.IsNone() {
		return files
	}

	kept := make([]string, 0, len(files))

	for _, f := range files {
		fileStart, fileEnd, ok := MonthRange(filepath.Base(f))
		if !ok {
			kept = append(kept, f)

			continue
		}

		if (end.IsNone() || fileStart.Before(end.Unwrap())) && (start.IsNone() || fileEnd.After(start.Unwrap())) {
			kept = append(kept, f)
		}
	}

	return kept
}
