// Package stats reduces a raw benchmark sample into summary statistics.
package stats

import (
	"fmt"
	"io"
	"math"
)

// Summary holds the descriptive statistics for one metric series of a
// benchmark run. The time series and the memory series of a run are
// summarized independently and never mixed.
type Summary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`

	// Std is the sample standard deviation (divide by N-1). It is 0 for
	// series with fewer than two values.
	Std float64 `json:"std"`

	// CVPercent is the coefficient of variation, std/mean*100. When the
	// mean is zero the ratio is undefined: CVPercent is NaN-free JSON
	// (reported as 0) and CVUndefined is set instead of dividing by zero.
	CVPercent   float64 `json:"cv_percent"`
	CVUndefined bool    `json:"cv_undefined,omitempty"`

	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Span float64 `json:"span"`
}

// Summarize computes the summary for one series of values, in execution
// order. An empty series yields a zero Summary with CVUndefined set.
func Summarize(metric string, values []float64) Summary {
	s := Summary{Metric: metric, Count: len(values)}
	if len(values) == 0 {
		s.CVUndefined = true
		return s
	}

	sum := 0.0
	s.Min = values[0]
	s.Max = values[0]
	for _, v := range values {
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = sum / float64(len(values))
	s.Span = s.Max - s.Min

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			d := v - s.Mean
			sq += d * d
		}
		s.Std = math.Sqrt(sq / float64(len(values)-1))
	}

	if s.Mean == 0 {
		s.CVUndefined = true
	} else {
		s.CVPercent = s.Std / s.Mean * 100
	}
	return s
}

// Print writes the summary in the harness's terminal format.
func (s Summary) Print(w io.Writer) {
	fmt.Fprintf(w, "\n--- %s ---\n", s.Metric)
	if s.Count == 0 {
		fmt.Fprintf(w, "No data.\n")
		return
	}
	fmt.Fprintf(w, "Mean:   %.2f\n", s.Mean)
	fmt.Fprintf(w, "Std:    %.2f\n", s.Std)
	if s.CVUndefined {
		fmt.Fprintf(w, "CV:     n/a (mean is zero)\n")
	} else {
		fmt.Fprintf(w, "CV:     %.1f%%\n", s.CVPercent)
	}
	fmt.Fprintf(w, "Min:    %.2f\n", s.Min)
	fmt.Fprintf(w, "Max:    %.2f\n", s.Max)
	fmt.Fprintf(w, "Span:   %.2f\n", s.Span)
}
