package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-replay/pkg/errors"
)

// MovingAverage is a trailing window over the last period values.
type MovingAverage struct {
	period int
	values []float64
	next   int
}

// NewMovingAverage creates a window holding at most period values.
func NewMovingAverage(period int) (*MovingAverage, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &MovingAverage{
		period: period,
		values: make([]float64, 0, period),
		next:   0,
	}, nil
}

// Push appends a value, evicting the oldest one once the window is full.
func (m *MovingAverage) Push(v float64) {
	if len(m.values) < m.period {
		m.values = append(m.values, v)

		return
	}

	m.values[m.next] = v
	m.next = (m.next + 1) % m.period
}

// Full reports whether the window holds period values.
func (m *MovingAverage) Full() bool {
	return len(m.values) == m.period
}

// Len returns the number of values currently held.
func (m *MovingAverage) Len() int {
	return len(m.values)
}

// Mean returns the arithmetic mean of the values currently held, or None if
// the window is empty.
func (m *MovingAverage) Mean() optional.Option[float64] {
	n := len(m.values)
	if n == 0 {
		return optional.None[float64]()
	}

	// sum oldest to newest so results do not depend on the ring offset
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += m.values[(m.next+i)%n]
	}

	return optional.Some(sum / float64(n))
}
