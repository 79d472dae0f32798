package svm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mlclass/utils"
)

func init() {
	utils.Verbose = false
}

func fixedClassifier() *Classifier {
	// two features plus a bias weight per class
	return &Classifier{
		Labels: []string{"left", "right"},
		Weights: [][]float64{
			{-1, 0, 0.5},
			{1, 0, -0.5},
		},
	}
}

func TestDecision(t *testing.T) {
	clf := fixedClassifier()
	d, err := clf.Decision([]float64{2, 7})
	require.NoError(t, err)
	assert.InDelta(t, -1.5, d[0], 1e-9)
	assert.InDelta(t, 1.5, d[1], 1e-9)
}

func TestPredict(t *testing.T) {
	clf := fixedClassifier()

	class, err := clf.Predict([]float64{3, 0})
	require.NoError(t, err)
	assert.Equal(t, 1, class)

	class, err = clf.Predict([]float64{-3, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, class)
}

func TestPredictDimensionMismatch(t *testing.T) {
	clf := fixedClassifier()
	_, err := clf.Predict([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	clf := fixedClassifier()
	features := [][]float64{{2, 0}, {-2, 0}, {4, 1}}
	labels := []int{1, 0, 0}

	confusion, err := clf.Evaluate(features, labels)
	require.NoError(t, err)
	assert.Equal(t, 3, confusion.Totals())
	assert.InDelta(t, 2.0/3.0, confusion.Accuracy(), 1e-9)

	_, err = clf.Evaluate(features, labels[:2])
	assert.Error(t, err)
}

func TestTrainValidation(t *testing.T) {
	_, err := Train(nil, nil, []string{"a"}, Config{Lambda: 1e-3, MaxEpochs: 10})
	assert.Error(t, err)

	_, err = Train([][]float64{{1}}, []int{0, 1}, []string{"a", "b"}, Config{Lambda: 1e-3, MaxEpochs: 10})
	assert.Error(t, err)

	_, err = Train([][]float64{{1}}, []int{0}, []string{"a"}, Config{Lambda: 0, MaxEpochs: 10})
	assert.Error(t, err)
}

func TestTrainSeparable(t *testing.T) {
	// two well-separated clumps on the first axis
	features := [][]float64{
		{2, 1}, {3, -1}, {2.5, 0}, {3.5, 1},
		{-2, 1}, {-3, -1}, {-2.5, 0}, {-3.5, 1},
	}
	labels := []int{0, 0, 0, 0, 1, 1, 1, 1}

	clf, err := Train(features, labels, []string{"pos", "neg"}, Config{
		Lambda:    1e-3,
		MaxEpochs: 1000,
		Tol:       1e-6,
	})
	require.NoError(t, err)
	require.Len(t, clf.Weights, 2)

	confusion, err := clf.Evaluate(features, labels)
	require.NoError(t, err)
	assert.Equal(t, 1.0, confusion.Accuracy(), "separable data should be fully classified")
}
