package dataset

import (
	"math"
	"math/rand"
)

// NormalizeLines standardizes each feature to the given per-feature mean and
// standard deviation. Features with zero deviation pass through unchanged.
func NormalizeLines(lines Lines, mean, std []float64) Lines {
	normalized := make(Lines, len(lines))
	for i, line := range lines {
		inputs := make([]float64, len(line.Inputs))
		for j, x := range line.Inputs {
			if std[j] == 0 {
				inputs[j] = x
				continue
			}
			inputs[j] = (x - mean[j]) / std[j]
		}
		normalized[i] = Line{Inputs: inputs, Targets: line.Targets}
	}
	return normalized
}

// CalculateMean returns the per-feature mean of the set.
func CalculateMean(lines Lines) []float64 {
	if len(lines) == 0 {
		return nil
	}
	mean := make([]float64, len(lines[0].Inputs))
	for _, line := range lines {
		for i, x := range line.Inputs {
			mean[i] += x
		}
	}
	for i := range mean {
		mean[i] /= float64(len(lines))
	}
	return mean
}

// CalculateStdDev returns the per-feature population standard deviation.
func CalculateStdDev(lines Lines) []float64 {
	if len(lines) == 0 {
		return nil
	}
	mean := CalculateMean(lines)
	std := make([]float64, len(lines[0].Inputs))
	for _, line := range lines {
		for i, x := range line.Inputs {
			diff := x - mean[i]
			std[i] += diff * diff
		}
	}
	for i := range std {
		std[i] = math.Sqrt(std[i] / float64(len(lines)))
	}
	return std
}

// Split shuffles the set and carves off testFrac of it as a held-out test
// set. The split is deterministic for a given seed.
func Split(lines Lines, testFrac float64, seed int64) (train, test Lines) {
	shuffled := make(Lines, len(lines))
	copy(shuffled, lines)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	n := int(float64(len(shuffled)) * testFrac)
	return shuffled[n:], shuffled[:n]
}

// CreateBatches slices the set into batches of batchSize. The last batch may
// be short.
func CreateBatches(lines Lines, batchSize int) []Lines {
	numBatches := (len(lines) + batchSize - 1) / batchSize
	batches := make([]Lines, numBatches)

	for i := 0; i < numBatches; i++ {
		startIdx := i * batchSize
		endIdx := startIdx + batchSize
		if endIdx > len(lines) {
			endIdx = len(lines)
		}
		batches[i] = lines[startIdx:endIdx]
	}

	return batches
}

// Features returns the raw feature matrix of the set, one row per line.
func Features(lines Lines) [][]float64 {
	features := make([][]float64, len(lines))
	for i, line := range lines {
		features[i] = line.Inputs
	}
	return features
}

// Labels returns the class index of each line.
func Labels(lines Lines) []int {
	labels := make([]int, len(lines))
	for i, line := range lines {
		labels[i] = line.Label()
	}
	return labels
}
