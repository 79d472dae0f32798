package nn

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestActivatorLookup(t *testing.T) {
	for _, name := range []string{"sigmoid", "tanh", "relu"} {
		a, ok := ActivatorLookup[name]
		if !ok {
			t.Fatalf("missing activator %s", name)
		}
		if a.String() != name {
			t.Errorf("activator %s reports name %s", name, a.String())
		}
	}
	if _, ok := ActivatorLookup["softplus"]; ok {
		t.Error("unexpected activator")
	}
}

func TestSigmoid(t *testing.T) {
	s := Sigmoid{}
	if got := s.Activate(0, 0, 0); got != 0.5 {
		t.Errorf("sigmoid(0): got %f, want 0.5", got)
	}
	// derivative at the activation value 0.5 is 0.25
	d := s.Deactivate(mat.NewDense(1, 1, []float64{0.5}))
	if got := d.At(0, 0); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("sigmoid'(0.5): got %f, want 0.25", got)
	}
}

func TestTanh(t *testing.T) {
	a := Tanh{}
	if got := a.Activate(0, 0, 0); got != 0 {
		t.Errorf("tanh(0): got %f, want 0", got)
	}
	d := a.Deactivate(mat.NewDense(1, 1, []float64{0.5}))
	if got := d.At(0, 0); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("tanh' at activation 0.5: got %f, want 0.75", got)
	}
}

func TestReLU(t *testing.T) {
	r := ReLU{}
	if got := r.Activate(0, 0, 3); got != 3 {
		t.Errorf("relu(3): got %f, want 3", got)
	}
	if got := r.Activate(0, 0, -2); math.Abs(got+0.0002) > 1e-9 {
		t.Errorf("relu(-2): got %f, want -0.0002", got)
	}
	d := r.Deactivate(mat.NewDense(1, 2, []float64{-1, 4}))
	if d.At(0, 0) != 0.0001 || d.At(0, 1) != 1 {
		t.Errorf("unexpected relu derivative: %v, %v", d.At(0, 0), d.At(0, 1))
	}
}

func TestSoftmax(t *testing.T) {
	v := []float64{1, 2, 3}
	ApplySoftmaxToVector(v)
	sum := v[0] + v[1] + v[2]
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("softmax should sum to 1, got %f", sum)
	}
	if !(v[2] > v[1] && v[1] > v[0]) {
		t.Errorf("softmax should preserve order: %v", v)
	}

	// stability under large logits
	big := []float64{1000, 1001}
	ApplySoftmaxToVector(big)
	if math.IsNaN(big[0]) || math.IsNaN(big[1]) {
		t.Errorf("softmax overflowed: %v", big)
	}
}
