// Package sweep evaluates community conductance across a series of graphs,
// one per parameter value, and aggregates each graph's scores.
package sweep

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmptySweep = errors.New("no conductance values to aggregate")
	ErrNoParams   = errors.New("sweep has no parameter values")
	ErrBadRange   = errors.New("invalid parameter range")
)

// Summary aggregates the conductances of one graph
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Summarize returns the arithmetic mean and the population standard
// deviation (divisor n) of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrEmptySweep
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	return Summary{Mean: mean, StdDev: std}, nil
}

// Range returns start, start+step, ... up to but excluding stop.
// Range(10, 110, 10) is 10, 20, ..., 100.
func Range(start, stop, step float64) ([]float64, error) {
	for _, v := range []float64{start, stop, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: bounds must be finite", ErrBadRange)
		}
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %g must be positive", ErrBadRange, step)
	}
	if stop <= start {
		return nil, nil
	}

	n := int(math.Ceil((stop - start) / step))
	params := make([]float64, n)
	for i := range params {
		params[i] = start + float64(i)*step
	}
	return params, nil
}
