package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Line is a single labeled example: input features plus a one-hot target.
type Line struct {
	Inputs  []float64
	Targets []float64
}

type Lines []Line

// Soft one-hot bounds. Keeping targets off 0 and 1 avoids saturating
// sigmoid-style outputs early in training.
const (
	targetLow  = 0.01
	targetHigh = 0.99
)

// GetLinesDigits reads a digit CSV. The first value in each row is the label,
// the rest are pixel intensities in [0,255], scaled here into (0,1].
func GetLinesDigits(filename string, inputNum, outputNum int) (Lines, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer file.Close()

	var lines Lines
	r := csv.NewReader(bufio.NewReader(file))
	var lineNum int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}
		lineNum++
		if len(record) != inputNum+1 {
			return nil, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(record),
				expected: inputNum + 1,
			}
		}

		inputs := make([]float64, inputNum)
		for i := range inputs {
			x, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing pixel at line %d: %w", lineNum, err)
			}
			inputs[i] = (x / 255.0 * targetHigh) + targetLow
		}

		label, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("parsing label at line %d: %w", lineNum, err)
		}
		if label < 0 || label >= outputNum {
			return nil, fmt.Errorf("label %d at line %d out of range [0,%d)", label, lineNum, outputNum)
		}
		targets := oneHot(outputNum, label)

		lines = append(lines, Line{Inputs: inputs, Targets: targets})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: no rows", filename)
	}

	return lines, nil
}

// GetLinesIris reads a flower-measurement CSV with rows of the form
// sepal_len,sepal_wid,petal_len,petal_wid,species. Species names become the
// label vocabulary in order of first appearance.
func GetLinesIris(filename string) (Lines, []string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer file.Close()

	const featureNum = 4
	var (
		labels  []string
		indexOf = map[string]int{}
		raw     []struct {
			inputs []float64
			label  int
		}
	)
	r := csv.NewReader(bufio.NewReader(file))
	var lineNum int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", filename, err)
		}
		lineNum++
		if len(record) != featureNum+1 {
			return nil, nil, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(record),
				expected: featureNum + 1,
			}
		}

		inputs := make([]float64, featureNum)
		for i := range inputs {
			x, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parsing feature at line %d: %w", lineNum, err)
			}
			inputs[i] = x
		}

		name := strings.TrimSpace(record[featureNum])
		if name == "" {
			return nil, nil, fmt.Errorf("empty species at line %d", lineNum)
		}
		idx, ok := indexOf[name]
		if !ok {
			idx = len(labels)
			indexOf[name] = idx
			labels = append(labels, name)
		}
		raw = append(raw, struct {
			inputs []float64
			label  int
		}{inputs, idx})
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("%s: no rows", filename)
	}

	lines := make(Lines, len(raw))
	for i, row := range raw {
		lines[i] = Line{
			Inputs:  row.inputs,
			Targets: oneHot(len(labels), row.label),
		}
	}

	return lines, labels, nil
}

// GetLines reads plain comma-separated rows of inputNum inputs followed by
// outputNum raw target values, with no scaling applied.
func GetLines(reader io.Reader, inputNum, outputNum int) (Lines, error) {
	scanner := bufio.NewScanner(reader)
	var lines Lines
	var lineNum int
	for scanner.Scan() {
		lineNum++
		splits := strings.Split(scanner.Text(), ",")
		if len(splits) != inputNum+outputNum {
			return lines, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(splits),
				expected: inputNum + outputNum,
			}
		}
		inputs := make([]float64, inputNum)
		targets := make([]float64, outputNum)
		for i, split := range splits {
			num, err := strconv.ParseFloat(split, 64)
			if err != nil {
				return lines, fmt.Errorf("parsing value at line %d: %w", lineNum, err)
			}
			if i < inputNum {
				inputs[i] = num
			} else {
				targets[i-inputNum] = num
			}
		}
		lines = append(lines, Line{Inputs: inputs, Targets: targets})
	}
	return lines, nil
}

func oneHot(size, hot int) []float64 {
	targets := make([]float64, size)
	for i := range targets {
		targets[i] = targetLow
	}
	targets[hot] = targetHigh
	return targets
}

// Label returns the index of the hot entry in a line's target vector.
func (l Line) Label() int {
	best := 0
	for i, t := range l.Targets {
		if t > l.Targets[best] {
			best = i
		}
	}
	return best
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}
