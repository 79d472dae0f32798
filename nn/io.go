package nn

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// Save writes one weight and one bias file per layer under dir, named
// <name>-<stamp>-w<i>.wgt and <name>-<stamp>-b<i>.wgt. The stamp ties the
// files to a recorded run.
func (net *Network) Save(dir string, stamp int64) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	for i := range net.weights {
		if err := saveMatrix(layerPath(dir, net.config.Name, stamp, "w", i), net.weights[i]); err != nil {
			return fmt.Errorf("saving weights for layer %d: %w", i, err)
		}
		if err := saveMatrix(layerPath(dir, net.config.Name, stamp, "b", i), net.biases[i]); err != nil {
			return fmt.Errorf("saving biases for layer %d: %w", i, err)
		}
	}
	return nil
}

// Load rebuilds a prediction network from the files written by Save.
func Load(dir, name string, stamp int64, activator Activator, labels []string) (*Network, error) {
	var weights, biases []*mat.Dense
	for i := 0; ; i++ {
		wPath := layerPath(dir, name, stamp, "w", i)
		if _, err := os.Stat(wPath); os.IsNotExist(err) {
			break
		}
		w, err := loadMatrix(wPath)
		if err != nil {
			return nil, fmt.Errorf("loading weights for layer %d: %w", i, err)
		}
		b, err := loadMatrix(layerPath(dir, name, stamp, "b", i))
		if err != nil {
			return nil, fmt.Errorf("loading biases for layer %d: %w", i, err)
		}
		weights = append(weights, w)
		biases = append(biases, b)
	}
	if len(weights) == 0 {
		return nil, fmt.Errorf("no weight files for %s-%d under %s", name, stamp, dir)
	}

	return newPredictionNetwork(weights, biases, activator, labels), nil
}

func layerPath(dir, name string, stamp int64, kind string, layer int) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%d-%s%d.wgt", name, stamp, kind, layer))
}

func saveMatrix(path string, m *mat.Dense) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := m.MarshalBinaryTo(f); err != nil {
		f.Close()
		return fmt.Errorf("marshalling matrix: %w", err)
	}
	return f.Close()
}

func loadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m mat.Dense
	if _, err := m.UnmarshalBinaryFrom(f); err != nil {
		return nil, fmt.Errorf("unmarshalling matrix: %w", err)
	}
	return &m, nil
}
