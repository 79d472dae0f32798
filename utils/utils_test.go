package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDurationUS(t *testing.T) {
	if got := DurationUS(1 * time.Millisecond); got != 1000 {
		t.Errorf("DurationUS(1ms) = %v, want 1000", got)
	}
	if got := DurationUS(2500 * time.Nanosecond); got != 2.5 {
		t.Errorf("DurationUS(2500ns) = %v, want 2.5", got)
	}
}

func TestLogfRespectsVerbose(t *testing.T) {
	var buf bytes.Buffer
	oldVerbose, oldOutput := Verbose, Output
	defer func() { Verbose, Output = oldVerbose, oldOutput }()
	Output = &buf

	Verbose = false
	Logf("hidden %d\n", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output with Verbose off, got %q", buf.String())
	}

	Verbose = true
	Logf("shown %d\n", 2)
	if got := buf.String(); got != "shown 2\n" {
		t.Errorf("got %q, want %q", got, "shown 2\n")
	}
}

func TestPrintTimingStats(t *testing.T) {
	var buf bytes.Buffer
	oldVerbose, oldOutput := Verbose, Output
	defer func() { Verbose, Output = oldVerbose, oldOutput }()
	Verbose, Output = true, &buf

	PrintTimingStats(&TimingStats{
		TotalTime:       100 * time.Millisecond,
		DataLoadingTime: 10 * time.Millisecond,
		TrainingTime:    80 * time.Millisecond,
		EvaluationTime:  5 * time.Millisecond,
		PlottingTime:    5 * time.Millisecond,
	})

	out := buf.String()
	if !strings.Contains(out, "TIMING STATISTICS") {
		t.Errorf("missing header in %q", out)
	}
	if !strings.Contains(out, "Training: 80ms (80.0%)") {
		t.Errorf("missing training line in %q", out)
	}
}

func TestParseHiddenLayers(t *testing.T) {
	neurons, err := ParseHiddenLayers("128, 64,32")
	if err != nil {
		t.Fatalf("ParseHiddenLayers: %v", err)
	}
	want := []int{128, 64, 32}
	for i, n := range neurons {
		if n != want[i] {
			t.Fatalf("got %v, want %v", neurons, want)
		}
	}

	if _, err := ParseHiddenLayers("128,x"); err == nil {
		t.Error("expected error for non-numeric layer size")
	}
}

func TestSplitLabels(t *testing.T) {
	labels, err := SplitLabels("setosa, versicolor ,virginica", 3)
	if err != nil {
		t.Fatalf("SplitLabels: %v", err)
	}
	want := []string{"setosa", "versicolor", "virginica"}
	for i, l := range labels {
		if l != want[i] {
			t.Fatalf("got %v, want %v", labels, want)
		}
	}

	if _, err := SplitLabels("a,b", 3); err == nil {
		t.Error("expected error for wrong label count")
	}
}

func TestParseQuery(t *testing.T) {
	query, err := ParseQuery("5.1, 3.5,1.4,0.2")
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	want := []float64{5.1, 3.5, 1.4, 0.2}
	for i, v := range query {
		if v != want[i] {
			t.Fatalf("got %v, want %v", query, want)
		}
	}

	if _, err := ParseQuery("1.0,nope"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}
