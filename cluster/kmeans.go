// Package cluster groups unlabeled observations with centroid-based
// clustering. The clustering itself is delegated to
// github.com/mpraski/clusters; this package adds restarts, centroid and
// inertia reporting, and a label-agreement teaching aid.
package cluster

import (
	"fmt"
	"math"
	"sync"

	"github.com/mpraski/clusters"
	"github.com/sourcegraph/conc/pool"

	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of one clustering run.
type Result struct {
	Assignments []int
	Centroids   [][]float64
	Inertia     float64
	Sizes       []int
}

// KMeans clusters data into k groups, running the library clusterer
// restarts times concurrently and keeping the lowest-inertia result.
func KMeans(data [][]float64, k, iterations, restarts int) (*Result, error) {
	if k < 2 {
		return nil, fmt.Errorf("need at least 2 clusters, got %d", k)
	}
	if k > len(data) {
		return nil, fmt.Errorf("cannot split %d observations into %d clusters", len(data), k)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive")
	}
	if restarts <= 0 {
		restarts = 1
	}

	var (
		mu   sync.Mutex
		best *Result
	)
	p := pool.New().WithMaxGoroutines(restarts).WithErrors()
	for r := 0; r < restarts; r++ {
		p.Go(func() error {
			c, err := clusters.KMeans(iterations, k, clusters.EuclideanDistance)
			if err != nil {
				return fmt.Errorf("creating clusterer: %w", err)
			}
			if err := c.Learn(data); err != nil {
				return fmt.Errorf("fitting clusters: %w", err)
			}

			assignments := normalize(c.Guesses())
			centroids := Centroids(data, assignments, k)
			result := &Result{
				Assignments: assignments,
				Centroids:   centroids,
				Inertia:     Inertia(data, assignments, centroids),
				Sizes:       sizes(assignments, k),
			}

			mu.Lock()
			if best == nil || result.Inertia < best.Inertia {
				best = result
			}
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return best, nil
}

// normalize shifts the library's 1-based cluster numbering to 0-based.
func normalize(guesses []int) []int {
	assignments := make([]int, len(guesses))
	minGuess := math.MaxInt
	for _, g := range guesses {
		if g < minGuess {
			minGuess = g
		}
	}
	for i, g := range guesses {
		assignments[i] = g - minGuess
	}
	return assignments
}

// Centroids returns the mean vector of each cluster. An empty cluster gets a
// zero centroid.
func Centroids(data [][]float64, assignments []int, k int) [][]float64 {
	dims := len(data[0])
	centroids := make([][]float64, k)
	counts := make([]int, k)
	for i := range centroids {
		centroids[i] = make([]float64, dims)
	}
	for i, row := range data {
		c := assignments[i]
		floats.Add(centroids[c], row)
		counts[c]++
	}
	for c, centroid := range centroids {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), centroid)
	}
	return centroids
}

// Inertia is the within-cluster sum of squared distances to the centroids.
func Inertia(data [][]float64, assignments []int, centroids [][]float64) float64 {
	total := 0.0
	for i, row := range data {
		d := floats.Distance(row, centroids[assignments[i]], 2)
		total += d * d
	}
	return total
}

func sizes(assignments []int, k int) []int {
	counts := make([]int, k)
	for _, a := range assignments {
		counts[a]++
	}
	return counts
}

// Agreement maps clusters onto true labels with the best permutation and
// returns the resulting accuracy. Exponential in the number of clusters, so
// only sensible for small k.
func (r *Result) Agreement(labels []int) float64 {
	if len(labels) != len(r.Assignments) || len(labels) == 0 {
		return 0
	}
	k := len(r.Sizes)
	perm := make([]int, k)
	for i := range perm {
		perm[i] = i
	}

	best := 0
	permute(perm, 0, func(p []int) {
		correct := 0
		for i, a := range r.Assignments {
			if p[a] == labels[i] {
				correct++
			}
		}
		if correct > best {
			best = correct
		}
	})
	return float64(best) / float64(len(labels))
}

func permute(p []int, i int, visit func([]int)) {
	if i == len(p) {
		visit(p)
		return
	}
	for j := i; j < len(p); j++ {
		p[i], p[j] = p[j], p[i]
		permute(p, i+1, visit)
		p[i], p[j] = p[j], p[i]
	}
}
