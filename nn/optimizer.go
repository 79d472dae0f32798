package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// optimizer applies one update step from averaged gradients. params and
// grads are parallel slices of identically shaped matrices.
type optimizer interface {
	step(params, grads []*mat.Dense)
}

func newOptimizer(name string, learningRate float64) (optimizer, error) {
	switch name {
	case "", "sgd":
		return &sgd{learningRate: learningRate}, nil
	case "adam":
		return &adam{
			learningRate: learningRate,
			beta1:        0.9,
			beta2:        0.999,
			epsilon:      1e-8,
		}, nil
	default:
		return nil, fmt.Errorf("invalid optimizer: %s", name)
	}
}

type sgd struct {
	learningRate float64
}

func (s *sgd) step(params, grads []*mat.Dense) {
	for i, p := range params {
		p.Sub(p, scale(s.learningRate, grads[i]))
	}
}

// adam keeps per-parameter first and second moment estimates with bias
// correction.
type adam struct {
	learningRate float64
	beta1        float64
	beta2        float64
	epsilon      float64

	t       int
	moment1 []*mat.Dense
	moment2 []*mat.Dense
}

func (a *adam) step(params, grads []*mat.Dense) {
	if a.moment1 == nil {
		a.moment1 = make([]*mat.Dense, len(params))
		a.moment2 = make([]*mat.Dense, len(params))
		for i, p := range params {
			r, c := p.Dims()
			a.moment1[i] = mat.NewDense(r, c, nil)
			a.moment2[i] = mat.NewDense(r, c, nil)
		}
	}
	a.t++
	correction1 := 1 - math.Pow(a.beta1, float64(a.t))
	correction2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i, p := range params {
		g := grads[i]
		m := a.moment1[i]
		v := a.moment2[i]
		r, c := p.Dims()
		for row := 0; row < r; row++ {
			for col := 0; col < c; col++ {
				gv := g.At(row, col)
				mv := a.beta1*m.At(row, col) + (1-a.beta1)*gv
				vv := a.beta2*v.At(row, col) + (1-a.beta2)*gv*gv
				m.Set(row, col, mv)
				v.Set(row, col, vv)

				mHat := mv / correction1
				vHat := vv / correction2
				p.Set(row, col, p.At(row, col)-a.learningRate*mHat/(math.Sqrt(vHat)+a.epsilon))
			}
		}
	}
}
