// Package svm trains a one-vs-rest linear support-vector classifier. The
// margin solver itself is delegated to github.com/jvlmdr/go-svm/setsvm; this
// package only prepares the per-class problems and combines their decisions.
package svm

import (
	"fmt"

	"github.com/jvlmdr/go-svm/setsvm"
	"github.com/sourcegraph/conc/pool"

	"mlclass/metrics"
	"mlclass/utils"
)

// Config holds the solver hyperparameters shared by all per-class problems.
type Config struct {
	// Lambda is the regularization strength; each example gets cost 1/Lambda.
	Lambda    float64
	MaxEpochs int
	// Tol stops a class problem once the duality gap falls below it.
	Tol     float64
	Workers int
}

// Classifier is a trained one-vs-rest linear SVM. Weights holds one vector
// per class with the intercept folded into the trailing bias feature.
type Classifier struct {
	Labels  []string
	Weights [][]float64
}

// biasFeature is the constant appended to every example so the solver's
// homogeneous form learns an intercept.
const biasFeature = 1.0

// Train fits one binary margin classifier per class, +1 for members of the
// class and -1 for the rest. Class problems are solved concurrently.
func Train(features [][]float64, labels []int, names []string, cfg Config) (*Classifier, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("got %d feature rows but %d labels", len(features), len(labels))
	}
	if cfg.Lambda <= 0 {
		return nil, fmt.Errorf("lambda must be positive")
	}
	if cfg.MaxEpochs <= 0 {
		return nil, fmt.Errorf("max epochs must be positive")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = len(names)
	}

	clf := &Classifier{
		Labels:  append([]string(nil), names...),
		Weights: make([][]float64, len(names)),
	}

	p := pool.New().WithMaxGoroutines(workers).WithErrors()
	for class := range names {
		class := class
		p.Go(func() error {
			w, err := trainBinary(features, labels, class, cfg)
			if err != nil {
				return fmt.Errorf("training class %s: %w", names[class], err)
			}
			clf.Weights[class] = w
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return clf, nil
}

// trainBinary solves the class-vs-rest problem for one class.
func trainBinary(features [][]float64, labels []int, class int, cfg Config) ([]float64, error) {
	x := make([]setsvm.Set, len(features))
	y := make([]float64, len(features))
	c := make([]float64, len(features))
	for i, f := range features {
		v := make([]float64, len(f)+1)
		copy(v, f)
		v[len(f)] = biasFeature
		x[i] = setsvm.Slice([][]float64{v})
		if labels[i] == class {
			y[i] = 1
		} else {
			y[i] = -1
		}
		c[i] = 1 / cfg.Lambda
	}

	term := func(epoch int, f, g float64, w []float64, a setsvm.Dual) (bool, error) {
		if f-g <= cfg.Tol {
			return true, nil
		}
		if epoch >= cfg.MaxEpochs {
			utils.Logf("class %d stopped at epoch %d with gap %.6f\n", class, epoch, f-g)
			return true, nil
		}
		return false, nil
	}

	return setsvm.Train(x, y, c, term, false)
}

// Decision returns the raw margin of each class for one example.
func (clf *Classifier) Decision(x []float64) ([]float64, error) {
	decisions := make([]float64, len(clf.Weights))
	for class, w := range clf.Weights {
		if len(x)+1 != len(w) {
			return nil, fmt.Errorf("expected %d features, got %d", len(w)-1, len(x))
		}
		d := w[len(x)] * biasFeature
		for i, v := range x {
			d += w[i] * v
		}
		decisions[class] = d
	}
	return decisions, nil
}

// Predict returns the class with the largest margin.
func (clf *Classifier) Predict(x []float64) (int, error) {
	decisions, err := clf.Decision(x)
	if err != nil {
		return 0, err
	}
	best := 0
	for class, d := range decisions {
		if d > decisions[best] {
			best = class
		}
	}
	return best, nil
}

// Evaluate predicts every example into a confusion matrix.
func (clf *Classifier) Evaluate(features [][]float64, labels []int) (*metrics.Confusion, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("got %d feature rows but %d labels", len(features), len(labels))
	}
	confusion := metrics.NewConfusion(clf.Labels)
	for i, f := range features {
		predicted, err := clf.Predict(f)
		if err != nil {
			return nil, err
		}
		confusion.Observe(labels[i], predicted)
	}
	return confusion, nil
}
