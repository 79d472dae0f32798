package nn

import (
	"fmt"
	"math/rand"
	randv2 "math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"mlclass/dataset"
	"mlclass/metrics"
	"mlclass/utils"
)

// Config holds the hyperparameters of a feed-forward network.
type Config struct {
	Name               string
	InputNum           int
	HiddenLayerNeurons []int
	OutputNum          int
	Epochs             int
	TargetLabels       []string
	Activator          Activator
	Optimizer          string // "sgd" or "adam"
	LearningRate       float64
	BatchSize          int
	Seed               int64
}

// Validate reports the first structural problem with the configuration.
func (c Config) Validate() error {
	if c.InputNum <= 0 || c.OutputNum <= 0 {
		return fmt.Errorf("input and output sizes must be positive")
	}
	if len(c.HiddenLayerNeurons) == 0 {
		return fmt.Errorf("at least one hidden layer is required")
	}
	for _, n := range c.HiddenLayerNeurons {
		if n <= 0 {
			return fmt.Errorf("hidden layer sizes must be positive")
		}
	}
	if len(c.TargetLabels) != c.OutputNum {
		return fmt.Errorf("expected %d target labels, got %d", c.OutputNum, len(c.TargetLabels))
	}
	if c.Activator == nil {
		return fmt.Errorf("an activator is required")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if _, err := newOptimizer(c.Optimizer, c.LearningRate); err != nil {
		return err
	}
	return nil
}

// EpochStats summarizes one training epoch.
type EpochStats struct {
	Epoch    int
	Loss     float64
	Accuracy float64
	Elapsed  time.Duration
}

// Network is a feed-forward classifier: dense layers with a configurable
// hidden activation and a softmax output trained on cross-entropy.
type Network struct {
	config  Config
	weights []*mat.Dense // weights[i] maps layer i to layer i+1, (out x in)
	biases  []*mat.Dense // biases[i] is (out x 1)
	rng     *rand.Rand
}

// NewNetwork builds a network with fan-in scaled uniform weights and zero
// biases. The same Config and Seed always produce the same network.
func NewNetwork(c Config) (*Network, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network config: %w", err)
	}

	sizes := make([]int, 0, len(c.HiddenLayerNeurons)+2)
	sizes = append(sizes, c.InputNum)
	sizes = append(sizes, c.HiddenLayerNeurons...)
	sizes = append(sizes, c.OutputNum)

	net := &Network{
		config:  c,
		weights: make([]*mat.Dense, len(sizes)-1),
		biases:  make([]*mat.Dense, len(sizes)-1),
		rng:     rand.New(rand.NewSource(c.Seed)),
	}
	src := randv2.NewPCG(uint64(c.Seed), uint64(c.Seed))
	for i := range net.weights {
		rows, cols := sizes[i+1], sizes[i]
		net.weights[i] = mat.NewDense(rows, cols, randomArray(rows*cols, float64(cols), src))
		net.biases[i] = mat.NewDense(rows, 1, nil)
	}

	return net, nil
}

// newPredictionNetwork wraps loaded weight and bias matrices for inference.
func newPredictionNetwork(weights, biases []*mat.Dense, activator Activator, labels []string) *Network {
	return &Network{
		config: Config{
			Activator:    activator,
			TargetLabels: labels,
		},
		weights: weights,
		biases:  biases,
	}
}

// feedForward runs one input column through the network and returns the
// activations of every layer, input included. The output layer is softmaxed.
func (net *Network) feedForward(inputData []float64) []*mat.Dense {
	layers := make([]*mat.Dense, len(net.weights)+1)
	layers[0] = mat.NewDense(len(inputData), 1, append([]float64(nil), inputData...))

	last := len(net.weights) - 1
	for i, w := range net.weights {
		sum := add(dot(w, layers[i]), net.biases[i])
		if i == last {
			layers[i+1] = softmaxColumn(sum)
		} else {
			layers[i+1] = apply(net.config.Activator.Activate, sum)
		}
	}
	return layers
}

// backpropagate accumulates the gradients of one sample into gradW/gradB.
// With a softmax output and cross-entropy loss the output delta reduces to
// (output - target).
func (net *Network) backpropagate(layers []*mat.Dense, targetData []float64, gradW, gradB []*mat.Dense) {
	last := len(net.weights) - 1
	targets := mat.NewDense(len(targetData), 1, append([]float64(nil), targetData...))
	delta := subtract(layers[last+1], targets)

	for i := last; i >= 0; i-- {
		gradW[i].Add(gradW[i], dot(delta, layers[i].T()))
		gradB[i].Add(gradB[i], delta)
		if i > 0 {
			delta = multiply(dot(net.weights[i].T(), delta), net.config.Activator.Deactivate(layers[i]))
		}
	}
}

// Train runs mini-batch gradient descent over the training set, evaluating
// accuracy on the test set after every epoch.
func (net *Network) Train(train, test dataset.Lines) ([]EpochStats, error) {
	if len(train) == 0 {
		return nil, fmt.Errorf("empty training set")
	}
	opt, err := newOptimizer(net.config.Optimizer, net.config.LearningRate)
	if err != nil {
		return nil, err
	}

	utils.Logf("Started training...\n")
	start := time.Now()

	shuffled := make(dataset.Lines, len(train))
	copy(shuffled, train)

	stats := make([]EpochStats, 0, net.config.Epochs)
	for epoch := 1; epoch <= net.config.Epochs; epoch++ {
		epochStart := time.Now()
		net.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		lossSum := 0.0
		for _, batch := range dataset.CreateBatches(shuffled, net.config.BatchSize) {
			lossSum += net.trainBatch(batch, opt)
		}

		stat := EpochStats{
			Epoch:   epoch,
			Loss:    lossSum / float64(len(shuffled)),
			Elapsed: time.Since(epochStart),
		}
		if len(test) > 0 {
			confusion, err := net.Evaluate(test)
			if err != nil {
				return stats, fmt.Errorf("evaluating epoch %d: %w", epoch, err)
			}
			stat.Accuracy = confusion.Accuracy()
		}
		stats = append(stats, stat)

		utils.Logf("Epoch %d of %d complete, loss %.4f, accuracy %.2f%%\n",
			epoch, net.config.Epochs, stat.Loss, 100*stat.Accuracy)
	}

	utils.Logf("Training took %d seconds\n", int(time.Since(start).Seconds()))
	return stats, nil
}

// trainBatch accumulates gradients over one batch, averages them, and applies
// a single optimizer step. Returns the summed sample loss.
func (net *Network) trainBatch(batch dataset.Lines, opt optimizer) float64 {
	gradW := make([]*mat.Dense, len(net.weights))
	gradB := make([]*mat.Dense, len(net.biases))
	for i, w := range net.weights {
		r, c := w.Dims()
		gradW[i] = mat.NewDense(r, c, nil)
		r, _ = net.biases[i].Dims()
		gradB[i] = mat.NewDense(r, 1, nil)
	}

	lossSum := 0.0
	for _, line := range batch {
		layers := net.feedForward(line.Inputs)
		lossSum += crossEntropy(layers[len(layers)-1], line.Targets)
		net.backpropagate(layers, line.Targets, gradW, gradB)
	}

	invBatch := 1.0 / float64(len(batch))
	params := append(append([]*mat.Dense(nil), net.weights...), net.biases...)
	grads := make([]*mat.Dense, 0, len(gradW)+len(gradB))
	for _, g := range gradW {
		g.Scale(invBatch, g)
		grads = append(grads, g)
	}
	for _, g := range gradB {
		g.Scale(invBatch, g)
		grads = append(grads, g)
	}
	opt.step(params, grads)

	return lossSum
}

// PredictIndex returns the index of the most probable class.
func (net *Network) PredictIndex(inputData []float64) int {
	layers := net.feedForward(inputData)
	outputs := layers[len(layers)-1]

	best := 0
	highest := outputs.At(0, 0)
	rows, _ := outputs.Dims()
	for i := 1; i < rows; i++ {
		if outputs.At(i, 0) > highest {
			best = i
			highest = outputs.At(i, 0)
		}
	}
	return best
}

// Predict returns the label of the most probable class.
func (net *Network) Predict(inputData []float64) string {
	return net.config.TargetLabels[net.PredictIndex(inputData)]
}

// Probabilities returns the softmax output for one input.
func (net *Network) Probabilities(inputData []float64) []float64 {
	layers := net.feedForward(inputData)
	outputs := layers[len(layers)-1]
	rows, _ := outputs.Dims()
	probs := make([]float64, rows)
	for i := range probs {
		probs[i] = outputs.At(i, 0)
	}
	return probs
}

// Evaluate predicts every line of the set into a confusion matrix.
func (net *Network) Evaluate(lines dataset.Lines) (*metrics.Confusion, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty evaluation set")
	}
	confusion := metrics.NewConfusion(net.config.TargetLabels)
	for _, line := range lines {
		confusion.Observe(line.Label(), net.PredictIndex(line.Inputs))
	}
	return confusion, nil
}

// Config returns the network configuration.
func (net *Network) Config() Config {
	return net.config
}
