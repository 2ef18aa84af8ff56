// Package walkforward builds the month-aligned evaluation windows used by the
// out-of-sample and walk-forward run modes.
package walkforward

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

const specFormat = "walkforward must be like 'train=3,test=1,step=1'"

// Spec is a walk-forward layout in whole months.
type Spec struct {
	TrainMonths int `yaml:"train_months" json:"train_months" jsonschema:"title=Train Months,minimum=1" validate:"gt=0"`
	TestMonths  int `yaml:"test_months" json:"test_months" jsonschema:"title=Test Months,minimum=1" validate:"gt=0"`
	StepMonths  int `yaml:"step_months" json:"step_months" jsonschema:"title=Step Months,minimum=1" validate:"gt=0,ltefield=TestMonths"`
}

// DefaultSpec is three months of training followed by one test month, rolled monthly.
func DefaultSpec() Spec {
	return Spec{TrainMonths: 3, TestMonths: 1, StepMonths: 1}
}

// Window is one fold. The test range starts where the train range ends.
type Window struct {
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// String implements fmt.Stringer.
func (w Window) String() string {
	return fmt.Sprintf("train=[%s..%s) test=[%s..%s)",
		w.TrainStart.Format(time.DateOnly), w.TrainEnd.Format(time.DateOnly),
		w.TestStart.Format(time.DateOnly), w.TestEnd.Format(time.DateOnly))
}

// String renders the layout in the format accepted by ParseSpec.
func (s Spec) String() string {
	return fmt.Sprintf("train=%d,test=%d,step=%d", s.TrainMonths, s.TestMonths, s.StepMonths)
}

// ParseSpec parses "train=3,test=1,step=1". Unknown keys are ignored.
func ParseSpec(s string) (Spec, error) {
	parts := make(map[string]string)

	for _, p := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return Spec{}, errors.New(errors.ErrCodeInvalidWalkForward, specFormat)
		}

		parts[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	values := make(map[string]int, 3)

	for _, key := range []string{"train", "test", "step"} {
		raw, ok := parts[key]
		if !ok {
			return Spec{}, errors.New(errors.ErrCodeInvalidWalkForward, specFormat)
		}

		v, err := strconv.Atoi(raw)
		if err != nil {
			return Spec{}, errors.Wrap(errors.ErrCodeInvalidWalkForward, specFormat, err)
		}

		values[key] = v
	}

	spec := Spec{
		TrainMonths: values["train"],
		TestMonths:  values["test"],
		StepMonths:  values["step"],
	}

	return spec, spec.Validate()
}

// Validate checks that all lengths are positive and step does not exceed test.
func (s Spec) Validate() error {
	for _, f := range []struct {
		name  string
		value int
	}{
		{"train", s.TrainMonths},
		{"test", s.TestMonths},
		{"step", s.StepMonths},
	} {
		if f.value <= 0 {
			return errors.Newf(errors.ErrCodeInvalidWalkForward, "%s must be positive", f.name)
		}
	}

	if s.StepMonths > s.TestMonths {
		return errors.New(errors.ErrCodeInvalidWalkForward, "step must be <= test")
	}

	return nil
}

// MonthStart returns midnight UTC on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds n calendar months, clamping the day to the end of the target
// month: Mar 31 minus one month is Feb 28 or 29.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)
	lastDay := target.AddDate(0, 1, -1).Day()

	return target.AddDate(0, 0, min(t.Day(), lastDay)-1)
}

// Months splits [start, end) into calendar months starting from the month of
// start.
func Months(start, end time.Time) [][2]time.Time {
	var months [][2]time.Time

	for cur := MonthStart(start); cur.Before(end); {
		next := cur.AddDate(0, 1, 0)
		months = append(months, [2]time.Time{cur, next})
		cur = next
	}

	return months
}

// BuildWindows lays out folds over [start, end). Each fold starts step months
// after the previous one and no fold's test range extends past the end of the
// last month.
func BuildWindows(start, end time.Time, spec Spec) ([]Window, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	months := Months(start, end)
	if len(months) == 0 {
		return nil, nil
	}

	last := months[len(months)-1][1]

	var windows []Window

	for i := 0; i < len(months); i += spec.StepMonths {
		trainStart := months[i][0]
		trainEnd := trainStart.AddDate(0, spec.TrainMonths, 0)
		testEnd := trainEnd.AddDate(0, spec.TestMonths, 0)

		if testEnd.After(last) {
			break
		}

		windows = append(windows, Window{
			TrainStart: trainStart,
			TrainEnd:   trainEnd,
			TestStart:  trainEnd,
			TestEnd:    testEnd,
		})
	}

	return windows, nil
}

// OOSWindow returns the [end - k months, end) range of the out-of-sample mode.
func OOSWindow(end time.Time, k int) (time.Time, time.Time, error) {
	if k <= 0 {
		return time.Time{}, time.Time{}, errors.Newf(errors.ErrCodeInvalidParameter, "oos_last_k_months must be positive, got %d", k)
	}

	return AddMonths(end, -k), end, nil
}
