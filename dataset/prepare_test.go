package dataset

import (
	"math"
	"testing"
)

func sample() Lines {
	return Lines{
		{Inputs: []float64{1, 2}, Targets: []float64{1, 0}},
		{Inputs: []float64{3, 2}, Targets: []float64{0, 1}},
		{Inputs: []float64{5, 2}, Targets: []float64{1, 0}},
	}
}

func TestCalculateMeanStdDev(t *testing.T) {
	lines := sample()
	mean := CalculateMean(lines)
	if mean[0] != 3 || mean[1] != 2 {
		t.Fatalf("unexpected mean: %v", mean)
	}
	std := CalculateStdDev(lines)
	want := math.Sqrt(8.0 / 3.0)
	if math.Abs(std[0]-want) > 1e-9 {
		t.Errorf("std[0]: got %f, want %f", std[0], want)
	}
	if std[1] != 0 {
		t.Errorf("constant feature should have zero deviation, got %f", std[1])
	}
}

func TestNormalizeLines(t *testing.T) {
	lines := sample()
	normalized := NormalizeLines(lines, CalculateMean(lines), CalculateStdDev(lines))

	mean := CalculateMean(normalized)
	if math.Abs(mean[0]) > 1e-9 {
		t.Errorf("normalized mean should be 0, got %f", mean[0])
	}
	// zero-deviation features pass through
	if normalized[0].Inputs[1] != 2 {
		t.Errorf("constant feature changed: %f", normalized[0].Inputs[1])
	}
	// originals untouched
	if lines[0].Inputs[0] != 1 {
		t.Errorf("input lines mutated: %f", lines[0].Inputs[0])
	}
}

func TestSplitDeterministic(t *testing.T) {
	lines := make(Lines, 10)
	for i := range lines {
		lines[i] = Line{Inputs: []float64{float64(i)}, Targets: []float64{1}}
	}

	train1, test1 := Split(lines, 0.3, 42)
	train2, test2 := Split(lines, 0.3, 42)
	if len(test1) != 3 || len(train1) != 7 {
		t.Fatalf("unexpected split sizes: %d train, %d test", len(train1), len(test1))
	}
	for i := range train1 {
		if train1[i].Inputs[0] != train2[i].Inputs[0] {
			t.Fatal("same seed should give the same split")
		}
	}
	for i := range test1 {
		if test1[i].Inputs[0] != test2[i].Inputs[0] {
			t.Fatal("same seed should give the same split")
		}
	}
}

func TestCreateBatches(t *testing.T) {
	lines := make(Lines, 7)
	batches := CreateBatches(lines, 3)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	if len(batches[0]) != 3 || len(batches[2]) != 1 {
		t.Errorf("unexpected batch sizes: %d, %d", len(batches[0]), len(batches[2]))
	}
}

func TestFeaturesLabels(t *testing.T) {
	lines := sample()
	features := Features(lines)
	labels := Labels(lines)
	if len(features) != 3 || len(labels) != 3 {
		t.Fatalf("unexpected lengths: %d, %d", len(features), len(labels))
	}
	if features[1][0] != 3 {
		t.Errorf("unexpected feature: %f", features[1][0])
	}
	if labels[0] != 0 || labels[1] != 1 {
		t.Errorf("unexpected labels: %v", labels)
	}
}
