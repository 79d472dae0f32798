package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetLinesDigits(t *testing.T) {
	path := writeFile(t, "1,0,255\n0,128,0\n")
	lines, err := GetLinesDigits(path, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if math.Abs(lines[0].Inputs[0]-0.01) > 1e-9 {
		t.Errorf("zero pixel should scale to 0.01, got %f", lines[0].Inputs[0])
	}
	if math.Abs(lines[0].Inputs[1]-1.0) > 1e-9 {
		t.Errorf("full pixel should scale to 1.0, got %f", lines[0].Inputs[1])
	}
	if lines[0].Label() != 1 || lines[1].Label() != 0 {
		t.Errorf("unexpected labels: %d, %d", lines[0].Label(), lines[1].Label())
	}
	if lines[0].Targets[1] != 0.99 || lines[0].Targets[0] != 0.01 {
		t.Errorf("unexpected targets: %v", lines[0].Targets)
	}
}

func TestGetLinesDigitsBadRow(t *testing.T) {
	path := writeFile(t, "1,0,255\n0,128\n")
	_, err := GetLinesDigits(path, 2, 2)
	if err == nil {
		t.Fatal("expected an error for a short row")
	}
}

func TestGetLinesDigitsLabelOutOfRange(t *testing.T) {
	path := writeFile(t, "7,0,255\n")
	_, err := GetLinesDigits(path, 2, 2)
	if err == nil {
		t.Fatal("expected an error for an out-of-range label")
	}
}

func TestGetLinesIris(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"5.1,3.5,1.4,0.2,setosa",
		"7.0,3.2,4.7,1.4,versicolor",
		"4.9,3.0,1.4,0.2,setosa",
		"6.3,3.3,6.0,2.5,virginica",
	}, "\n")+"\n")

	lines, labels, err := GetLinesIris(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	want := []string{"setosa", "versicolor", "virginica"}
	if len(labels) != len(want) {
		t.Fatalf("expected %d labels, got %v", len(want), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("label %d: got %s, want %s", i, labels[i], want[i])
		}
	}
	if lines[2].Label() != 0 || lines[3].Label() != 2 {
		t.Errorf("unexpected class indices: %d, %d", lines[2].Label(), lines[3].Label())
	}
	if lines[1].Inputs[2] != 4.7 {
		t.Errorf("features should pass through unscaled, got %f", lines[1].Inputs[2])
	}
}

func TestGetLines(t *testing.T) {
	lines, err := GetLines(strings.NewReader("0,0,0\n0,1,1\n1,0,1\n1,1,0\n"), 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[1].Inputs[1] != 1 || lines[1].Targets[0] != 1 {
		t.Errorf("unexpected line: %+v", lines[1])
	}
}

func TestGetLinesInvalidLine(t *testing.T) {
	_, err := GetLines(strings.NewReader("0,0\n"), 2, 1)
	if err == nil {
		t.Fatal("expected an error for a short line")
	}
	if !strings.Contains(err.Error(), "at line 1") {
		t.Errorf("error should name the line: %s", err)
	}
}
