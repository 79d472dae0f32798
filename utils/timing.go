package utils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Verbose controls whether progress and timing output is printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where progress and timing output is printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// Logf prints a progress line, honoring Verbose and Output.
func Logf(format string, args ...interface{}) {
	if !Verbose {
		return
	}
	fmt.Fprintf(Output, format, args...)
}

// TimingStats holds wall-clock timings for the phases of a lesson run.
type TimingStats struct {
	TotalTime       time.Duration
	DataLoadingTime time.Duration
	TrainingTime    time.Duration
	EvaluationTime  time.Duration
	PlottingTime    time.Duration
}

// PrintTimingStats prints a timing breakdown for a finished run.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(stats *TimingStats) {
	if !Verbose {
		return
	}
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Total time: %v\n", stats.TotalTime)
	if stats.TotalTime <= 0 {
		return
	}
	fmt.Fprintf(Output, "  Data loading: %v (%.1f%%)\n", stats.DataLoadingTime, float64(stats.DataLoadingTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Training: %v (%.1f%%)\n", stats.TrainingTime, float64(stats.TrainingTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Evaluation: %v (%.1f%%)\n", stats.EvaluationTime, float64(stats.EvaluationTime)/float64(stats.TotalTime)*100)
	fmt.Fprintf(Output, "  Plotting: %v (%.1f%%)\n", stats.PlottingTime, float64(stats.PlottingTime)/float64(stats.TotalTime)*100)
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
