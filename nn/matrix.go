package nn

import (
	"math"
	randv2 "math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func dot(m, n mat.Matrix) *mat.Dense {
	r, _ := m.Dims()
	_, c := n.Dims()
	o := mat.NewDense(r, c, nil)
	o.Product(m, n)
	return o
}

func apply(fn func(i, j int, v float64) float64, m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Apply(fn, m)
	return o
}

func scale(s float64, m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Scale(s, m)
	return o
}

func multiply(m, n mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.MulElem(m, n)
	return o
}

func add(m, n mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Add(m, n)
	return o
}

func subtract(m, n mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	o.Sub(m, n)
	return o
}

// randomArray draws size values from a uniform distribution scaled by the
// layer fan-in, the usual flat initialization for small dense nets.
func randomArray(size int, fanIn float64, src randv2.Source) []float64 {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(fanIn),
		Max: 1 / math.Sqrt(fanIn),
		Src: src,
	}

	data := make([]float64, size)
	for i := 0; i < size; i++ {
		data[i] = dist.Rand()
	}
	return data
}

// softmaxColumn applies a numerically stable softmax to a column vector.
func softmaxColumn(m mat.Matrix) *mat.Dense {
	r, _ := m.Dims()
	col := make([]float64, r)
	for i := 0; i < r; i++ {
		col[i] = m.At(i, 0)
	}
	ApplySoftmaxToVector(col)
	return mat.NewDense(r, 1, col)
}

// ApplySoftmaxToVector rewrites the vector in place with its softmax.
func ApplySoftmaxToVector(v []float64) {
	maxVal := math.Inf(-1)
	for _, x := range v {
		if x > maxVal {
			maxVal = x
		}
	}
	sum := 0.0
	for i, x := range v {
		v[i] = math.Exp(x - maxVal)
		sum += v[i]
	}
	for i := range v {
		v[i] /= sum
	}
}

// crossEntropy returns -sum(target * log(output)) for column vectors.
func crossEntropy(output mat.Matrix, targets []float64) float64 {
	loss := 0.0
	for i, t := range targets {
		p := output.At(i, 0)
		if p < 1e-12 {
			p = 1e-12
		}
		loss -= t * math.Log(p)
	}
	return loss
}
