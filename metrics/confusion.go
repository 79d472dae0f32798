package metrics

import (
	"fmt"
	"strings"
)

// Confusion accumulates a confusion matrix over labeled predictions.
// Rows are actual classes, columns are predicted classes.
type Confusion struct {
	Labels []string
	counts [][]int
}

// NewConfusion creates an empty matrix for the given class labels.
func NewConfusion(labels []string) *Confusion {
	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	return &Confusion{Labels: labels, counts: counts}
}

// Observe records one prediction. Out-of-range classes are ignored.
func (c *Confusion) Observe(actual, predicted int) {
	if actual < 0 || actual >= len(c.Labels) || predicted < 0 || predicted >= len(c.Labels) {
		return
	}
	c.counts[actual][predicted]++
}

// Count returns the number of observations of an (actual, predicted) pair.
func (c *Confusion) Count(actual, predicted int) int {
	return c.counts[actual][predicted]
}

// Totals returns the total number of observations.
func (c *Confusion) Totals() int {
	total := 0
	for _, row := range c.counts {
		for _, n := range row {
			total += n
		}
	}
	return total
}

// Accuracy is the fraction of observations on the diagonal. An empty matrix
// has accuracy 0.
func (c *Confusion) Accuracy() float64 {
	total := c.Totals()
	if total == 0 {
		return 0
	}
	correct := 0
	for i := range c.counts {
		correct += c.counts[i][i]
	}
	return float64(correct) / float64(total)
}

// Precision is the fraction of predictions of a class that were correct.
func (c *Confusion) Precision(class int) float64 {
	predicted := 0
	for i := range c.counts {
		predicted += c.counts[i][class]
	}
	if predicted == 0 {
		return 0
	}
	return float64(c.counts[class][class]) / float64(predicted)
}

// Recall is the fraction of actual members of a class that were found.
func (c *Confusion) Recall(class int) float64 {
	actual := 0
	for _, n := range c.counts[class] {
		actual += n
	}
	if actual == 0 {
		return 0
	}
	return float64(c.counts[class][class]) / float64(actual)
}

// String renders the matrix as an aligned table with per-class recall and a
// trailing accuracy line.
func (c *Confusion) String() string {
	const corner = "actual\\pred"
	width := len(corner) + 1
	for _, label := range c.Labels {
		if len(label)+2 > width {
			width = len(label) + 2
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%*s", width, corner)
	for _, label := range c.Labels {
		fmt.Fprintf(&b, "%*s", width, label)
	}
	fmt.Fprintf(&b, "%*s\n", width, "recall")

	for i, label := range c.Labels {
		fmt.Fprintf(&b, "%*s", width, label)
		for j := range c.Labels {
			fmt.Fprintf(&b, "%*d", width, c.counts[i][j])
		}
		fmt.Fprintf(&b, "%*.3f\n", width, c.Recall(i))
	}

	fmt.Fprintf(&b, "accuracy %.4f over %d observations", c.Accuracy(), c.Totals())
	return b.String()
}
