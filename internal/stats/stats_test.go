package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestSummarizeSingleValue(t *testing.T) {
	s := Summarize("Elapsed Time (s)", []float64{5.0})

	if s.Mean != 5.0 {
		t.Errorf("expected mean 5.0, got %v", s.Mean)
	}
	if s.Std != 0 {
		t.Errorf("expected std 0 for single value, got %v", s.Std)
	}
	if s.Min != 5.0 || s.Max != 5.0 {
		t.Errorf("expected min=max=5.0, got min=%v max=%v", s.Min, s.Max)
	}
	if s.Span != 0 {
		t.Errorf("expected span 0, got %v", s.Span)
	}
	if s.CVUndefined {
		t.Errorf("CV should be defined for nonzero mean")
	}
}

func TestSummarizeThreeValues(t *testing.T) {
	s := Summarize("Elapsed Time (s)", []float64{1.0, 2.0, 3.0})

	if s.Mean != 2.0 {
		t.Errorf("expected mean 2.0, got %v", s.Mean)
	}
	if s.Min != 1.0 {
		t.Errorf("expected min 1.0, got %v", s.Min)
	}
	if s.Max != 3.0 {
		t.Errorf("expected max 3.0, got %v", s.Max)
	}
	if s.Span != 2.0 {
		t.Errorf("expected span 2.0, got %v", s.Span)
	}

	// Sample standard deviation: sqrt(((1-2)^2 + (2-2)^2 + (3-2)^2) / 2) = 1
	if math.Abs(s.Std-1.0) > 1e-12 {
		t.Errorf("expected sample std 1.0, got %v", s.Std)
	}
	if math.Abs(s.CVPercent-50.0) > 1e-12 {
		t.Errorf("expected CV 50%%, got %v", s.CVPercent)
	}
}

func TestSummarizeZeroMean(t *testing.T) {
	// Memory deltas can be negative, so a zero mean is reachable. The CV
	// must be flagged undefined rather than divided by zero.
	s := Summarize("Memory Used (MB)", []float64{-1.0, 1.0})

	if s.Mean != 0 {
		t.Fatalf("expected mean 0, got %v", s.Mean)
	}
	if !s.CVUndefined {
		t.Errorf("expected CV to be flagged undefined for zero mean")
	}
	if s.CVPercent != 0 {
		t.Errorf("expected CVPercent 0 (not NaN) when undefined, got %v", s.CVPercent)
	}
	if s.Span != 2.0 {
		t.Errorf("expected span 2.0, got %v", s.Span)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("Elapsed Time (s)", nil)

	if s.Count != 0 {
		t.Errorf("expected count 0, got %d", s.Count)
	}
	if !s.CVUndefined {
		t.Errorf("expected CV undefined for empty series")
	}

	var buf bytes.Buffer
	s.Print(&buf)
	if !strings.Contains(buf.String(), "No data.") {
		t.Errorf("expected 'No data.' for empty series, got: %s", buf.String())
	}
}

func TestSummarizePreservesNegativeValues(t *testing.T) {
	// Negative memory deltas are valid data and must not be clamped.
	s := Summarize("Memory Used (MB)", []float64{-12.5, -3.0, -7.25})

	if s.Max != -3.0 {
		t.Errorf("expected max -3.0, got %v", s.Max)
	}
	if s.Min != -12.5 {
		t.Errorf("expected min -12.5, got %v", s.Min)
	}
}
