package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHiddenLayers parses a comma-separated list of hidden layer sizes.
func ParseHiddenLayers(hiddenLayersStr string) ([]int, error) {
	hiddenLayers := strings.Split(hiddenLayersStr, ",")
	neurons := make([]int, len(hiddenLayers))
	for i, str := range hiddenLayers {
		neuron, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return nil, fmt.Errorf("parsing hidden layer %q: %w", str, err)
		}
		neurons[i] = neuron
	}
	return neurons, nil
}

// SplitLabels parses a comma-separated label list, checking the count.
func SplitLabels(labelsStr string, want int) ([]string, error) {
	labels := strings.Split(labelsStr, ",")
	if len(labels) != want {
		return nil, fmt.Errorf("expected %d target labels, got %d", want, len(labels))
	}
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	return labels, nil
}

// ParseQuery parses a comma-separated list of feature values.
func ParseQuery(queryStr string) ([]float64, error) {
	parts := strings.Split(queryStr, ",")
	query := make([]float64, len(parts))
	for i, s := range parts {
		num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing query value %q: %w", s, err)
		}
		query[i] = num
	}
	return query, nil
}
