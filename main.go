package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mlclass/cluster"
	"mlclass/dataset"
	"mlclass/nn"
	"mlclass/runlog"
	"mlclass/svm"
	"mlclass/utils"
	"mlclass/viz"
)

const usage = `usage: mlclass <command> <name> [flags]

commands:
  digits        train a feed-forward network on a digit CSV
  predict       classify a query with the best recorded network
  iris-svm      train a one-vs-rest linear SVM on a flower CSV
  iris-cluster  k-means clustering of the flower measurements
`

func main() {
	if len(os.Args) < 3 {
		fmt.Print(usage)
		os.Exit(1)
	}
	subCommand := os.Args[1]
	name := os.Args[2]

	switch subCommand {
	case "digits":
		runDigits(name, os.Args[3:])
	case "predict":
		runPredict(name, os.Args[3:])
	case "iris-svm":
		runIrisSVM(name, os.Args[3:])
	case "iris-cluster":
		runIrisCluster(name, os.Args[3:])
	default:
		fmt.Printf("unknown command %q\n%s", subCommand, usage)
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func openRegistry(path string) *runlog.Store {
	store, err := runlog.Open(path)
	if err != nil {
		fatalf("opening run registry: %s", err.Error())
	}
	return store
}

func runDigits(name string, args []string) {
	flags := flag.NewFlagSet("digits", flag.ContinueOnError)
	flagData := flags.String("data", "./data/mnist_train.csv", "training CSV of label,pixels rows")
	flagInput := flags.Int("input", 784, "number of input pixels per row")
	flagHidden := flags.String("hidden", "128", "hidden layer sizes (comma-separated)")
	flagOutput := flags.Int("output", 10, "number of classes")
	flagEpochs := flags.Int("epochs", 6, "number of epochs")
	flagActivator := flags.String("activator", "sigmoid", "hidden activation: sigmoid, tanh or relu")
	flagOptimizer := flags.String("optimizer", "adam", "optimizer: sgd or adam")
	flagRate := flags.Float64("rate", 0.001, "learning rate")
	flagLabels := flags.String("labels", "0,1,2,3,4,5,6,7,8,9", "names for each output class")
	flagBatch := flags.Int("batch", 60, "batch size")
	flagSeed := flags.Int64("seed", 1, "random seed")
	flagTestFrac := flags.Float64("testfrac", 0.2, "fraction of rows held out for testing")
	flagOut := flags.String("out", "./data/out", "directory for saved weights")
	flagRunlog := flags.String("runlog", "./data/out/runs.db", "run registry database")
	flagPlot := flags.String("plot", "./data/out/loss.png", "loss curve PNG, empty to skip")
	if err := flags.Parse(args); err != nil {
		fatalf("parsing digits flags: %s", err.Error())
	}

	hidden, err := utils.ParseHiddenLayers(*flagHidden)
	if err != nil {
		fatalf("parsing hidden layers: %s", err.Error())
	}
	activator, ok := nn.ActivatorLookup[*flagActivator]
	if !ok {
		fatalf("invalid activator %q", *flagActivator)
	}
	labels, err := utils.SplitLabels(*flagLabels, *flagOutput)
	if err != nil {
		fatalf("parsing labels: %s", err.Error())
	}

	var timing utils.TimingStats
	start := time.Now()

	loadStart := time.Now()
	lines, err := dataset.GetLinesDigits(*flagData, *flagInput, *flagOutput)
	if err != nil {
		fatalf("loading digits: %s", err.Error())
	}
	train, test := dataset.Split(lines, *flagTestFrac, *flagSeed)
	timing.DataLoadingTime = time.Since(loadStart)
	utils.Logf("Read %d lines (%d train, %d test)\n", len(lines), len(train), len(test))

	config := nn.Config{
		Name:               name,
		InputNum:           *flagInput,
		HiddenLayerNeurons: hidden,
		OutputNum:          *flagOutput,
		Epochs:             *flagEpochs,
		TargetLabels:       labels,
		Activator:          activator,
		Optimizer:          *flagOptimizer,
		LearningRate:       *flagRate,
		BatchSize:          *flagBatch,
		Seed:               *flagSeed,
	}
	network, err := nn.NewNetwork(config)
	if err != nil {
		fatalf("building network: %s", err.Error())
	}

	trainStart := time.Now()
	stats, err := network.Train(train, test)
	if err != nil {
		fatalf("training network: %s", err.Error())
	}
	timing.TrainingTime = time.Since(trainStart)

	evalStart := time.Now()
	confusion, err := network.Evaluate(test)
	if err != nil {
		fatalf("evaluating network: %s", err.Error())
	}
	timing.EvaluationTime = time.Since(evalStart)
	fmt.Println(confusion)

	if *flagPlot != "" {
		plotStart := time.Now()
		if err := viz.LossCurve(stats, name, *flagPlot); err != nil {
			fatalf("plotting loss curve: %s", err.Error())
		}
		timing.PlottingTime = time.Since(plotStart)
		utils.Logf("Wrote %s\n", *flagPlot)
	}

	stamp := time.Now().Unix()
	if err := network.Save(*flagOut, stamp); err != nil {
		fatalf("saving weights: %s", err.Error())
	}

	store := openRegistry(*flagRunlog)
	defer store.Close()
	run := runlog.Run{
		Name:  name,
		Model: "nn",
		Params: map[string]string{
			"activator": activator.String(),
			"hidden":    *flagHidden,
			"labels":    strings.Join(labels, ","),
			"optimizer": *flagOptimizer,
			"rate":      strconv.FormatFloat(*flagRate, 'f', -1, 64),
			"weights":   *flagOut,
		},
		Accuracy: confusion.Accuracy(),
		Seconds:  timing.TrainingTime.Seconds(),
		Stamp:    stamp,
	}
	if err := store.Record(run); err != nil {
		fatalf("recording run: %s", err.Error())
	}

	timing.TotalTime = time.Since(start)
	utils.PrintTimingStats(&timing)
}

func runPredict(name string, args []string) {
	flags := flag.NewFlagSet("predict", flag.ContinueOnError)
	flagQuery := flags.String("query", "", "comma-separated feature values")
	flagRunlog := flags.String("runlog", "./data/out/runs.db", "run registry database")
	if err := flags.Parse(args); err != nil {
		fatalf("parsing predict flags: %s", err.Error())
	}
	if *flagQuery == "" {
		fatalf("a -query is required")
	}
	query, err := utils.ParseQuery(*flagQuery)
	if err != nil {
		fatalf("parsing query: %s", err.Error())
	}

	store := openRegistry(*flagRunlog)
	defer store.Close()
	run, err := store.BestRun(name)
	if err != nil {
		fatalf("finding best run: %s", err.Error())
	}
	if run.Model != "nn" {
		fatalf("best run for %s is a %s model, predict only supports nn", name, run.Model)
	}
	activator, ok := nn.ActivatorLookup[run.Params["activator"]]
	if !ok {
		fatalf("recorded run has invalid activator %q", run.Params["activator"])
	}
	labels := strings.Split(run.Params["labels"], ",")

	network, err := nn.Load(run.Params["weights"], name, run.Stamp, activator, labels)
	if err != nil {
		fatalf("loading network: %s", err.Error())
	}

	fmt.Println("Prediction:", network.Predict(query))
}

func runIrisSVM(name string, args []string) {
	flags := flag.NewFlagSet("iris-svm", flag.ContinueOnError)
	flagData := flags.String("data", "./data/iris.csv", "flower CSV of measurements,species rows")
	flagLambda := flags.Float64("lambda", 1e-3, "regularization strength")
	flagEpochs := flags.Int("epochs", 1000, "solver epoch limit per class")
	flagTol := flags.Float64("tol", 1e-4, "duality gap tolerance")
	flagWorkers := flags.Int("workers", 0, "concurrent class problems, 0 for one per class")
	flagTestFrac := flags.Float64("testfrac", 0.2, "fraction of rows held out for testing")
	flagSeed := flags.Int64("seed", 1, "random seed")
	flagX := flags.Int("x", 2, "feature index on the plot x axis")
	flagY := flags.Int("y", 3, "feature index on the plot y axis")
	flagPlot := flags.String("plot", "./data/out/svm.png", "decision boundary PNG, empty to skip")
	flagRunlog := flags.String("runlog", "./data/out/runs.db", "run registry database")
	if err := flags.Parse(args); err != nil {
		fatalf("parsing iris-svm flags: %s", err.Error())
	}

	var timing utils.TimingStats
	start := time.Now()

	loadStart := time.Now()
	lines, labels, err := dataset.GetLinesIris(*flagData)
	if err != nil {
		fatalf("loading flowers: %s", err.Error())
	}
	train, test := dataset.Split(lines, *flagTestFrac, *flagSeed)
	mean := dataset.CalculateMean(train)
	std := dataset.CalculateStdDev(train)
	train = dataset.NormalizeLines(train, mean, std)
	test = dataset.NormalizeLines(test, mean, std)
	timing.DataLoadingTime = time.Since(loadStart)
	utils.Logf("Read %d lines (%d train, %d test), classes %s\n",
		len(lines), len(train), len(test), strings.Join(labels, ", "))

	trainStart := time.Now()
	clf, err := svm.Train(dataset.Features(train), dataset.Labels(train), labels, svm.Config{
		Lambda:    *flagLambda,
		MaxEpochs: *flagEpochs,
		Tol:       *flagTol,
		Workers:   *flagWorkers,
	})
	if err != nil {
		fatalf("training svm: %s", err.Error())
	}
	timing.TrainingTime = time.Since(trainStart)

	evalStart := time.Now()
	confusion, err := clf.Evaluate(dataset.Features(test), dataset.Labels(test))
	if err != nil {
		fatalf("evaluating svm: %s", err.Error())
	}
	timing.EvaluationTime = time.Since(evalStart)
	fmt.Println(confusion)

	if *flagPlot != "" {
		plotStart := time.Now()
		if err := plotBoundary(clf, train, *flagX, *flagY, labels, name, *flagPlot); err != nil {
			fatalf("plotting boundary: %s", err.Error())
		}
		timing.PlottingTime = time.Since(plotStart)
		utils.Logf("Wrote %s\n", *flagPlot)
	}

	store := openRegistry(*flagRunlog)
	defer store.Close()
	run := runlog.Run{
		Name:  name,
		Model: "svm",
		Params: map[string]string{
			"lambda": strconv.FormatFloat(*flagLambda, 'g', -1, 64),
			"labels": strings.Join(labels, ","),
		},
		Accuracy: confusion.Accuracy(),
		Seconds:  timing.TrainingTime.Seconds(),
		Stamp:    time.Now().Unix(),
	}
	if err := store.Record(run); err != nil {
		fatalf("recording run: %s", err.Error())
	}

	timing.TotalTime = time.Since(start)
	utils.PrintTimingStats(&timing)
}

// plotBoundary classifies a dense grid over two features, holding the others
// at their (standardized) mean of zero, and draws it under the data points.
func plotBoundary(clf *svm.Classifier, lines dataset.Lines, xi, yi int, labels []string, title, path string) error {
	features := dataset.Features(lines)
	if xi >= len(features[0]) || yi >= len(features[0]) {
		return fmt.Errorf("feature indices %d,%d out of range", xi, yi)
	}

	xMin, xMax := featureRange(features, xi)
	yMin, yMax := featureRange(features, yi)

	const steps = 60
	var grid [][]float64
	var gridGroups []int
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps; j++ {
			point := make([]float64, len(features[0]))
			point[xi] = xMin + (xMax-xMin)*float64(i)/steps
			point[yi] = yMin + (yMax-yMin)*float64(j)/steps
			class, err := clf.Predict(point)
			if err != nil {
				return err
			}
			grid = append(grid, point)
			gridGroups = append(gridGroups, class)
		}
	}

	return viz.Boundary(grid, gridGroups, features, dataset.Labels(lines), xi, yi, labels, title, path)
}

func featureRange(features [][]float64, idx int) (min, max float64) {
	min, max = features[0][idx], features[0][idx]
	for _, f := range features {
		if f[idx] < min {
			min = f[idx]
		}
		if f[idx] > max {
			max = f[idx]
		}
	}
	margin := (max - min) * 0.1
	return min - margin, max + margin
}

func runIrisCluster(name string, args []string) {
	flags := flag.NewFlagSet("iris-cluster", flag.ContinueOnError)
	flagData := flags.String("data", "./data/iris.csv", "flower CSV of measurements,species rows")
	flagK := flags.Int("k", 3, "number of clusters")
	flagIterations := flags.Int("iterations", 100, "clustering iteration limit")
	flagRestarts := flags.Int("restarts", 8, "restarts, keeping the lowest inertia")
	flagX := flags.Int("x", 2, "feature index on the plot x axis")
	flagY := flags.Int("y", 3, "feature index on the plot y axis")
	flagPlot := flags.String("plot", "./data/out/clusters.png", "cluster scatter PNG, empty to skip")
	flagRunlog := flags.String("runlog", "./data/out/runs.db", "run registry database")
	if err := flags.Parse(args); err != nil {
		fatalf("parsing iris-cluster flags: %s", err.Error())
	}

	var timing utils.TimingStats
	start := time.Now()

	loadStart := time.Now()
	lines, labels, err := dataset.GetLinesIris(*flagData)
	if err != nil {
		fatalf("loading flowers: %s", err.Error())
	}
	features := dataset.Features(lines)
	timing.DataLoadingTime = time.Since(loadStart)
	utils.Logf("Read %d lines, true classes %s\n", len(lines), strings.Join(labels, ", "))

	trainStart := time.Now()
	result, err := cluster.KMeans(features, *flagK, *flagIterations, *flagRestarts)
	if err != nil {
		fatalf("clustering: %s", err.Error())
	}
	timing.TrainingTime = time.Since(trainStart)

	agreement := result.Agreement(dataset.Labels(lines))
	fmt.Printf("cluster sizes: %v\n", result.Sizes)
	fmt.Printf("inertia: %.3f\n", result.Inertia)
	fmt.Printf("best-permutation agreement with species: %.2f%%\n", 100*agreement)
	for c, centroid := range result.Centroids {
		fmt.Printf("centroid %d: %s\n", c, formatVector(centroid))
	}

	if *flagPlot != "" {
		plotStart := time.Now()
		if err := viz.Scatter(features, result.Assignments, *flagX, *flagY, nil, name, *flagPlot); err != nil {
			fatalf("plotting clusters: %s", err.Error())
		}
		timing.PlottingTime = time.Since(plotStart)
		utils.Logf("Wrote %s\n", *flagPlot)
	}

	store := openRegistry(*flagRunlog)
	defer store.Close()
	run := runlog.Run{
		Name:  name,
		Model: "kmeans",
		Params: map[string]string{
			"k":        strconv.Itoa(*flagK),
			"restarts": strconv.Itoa(*flagRestarts),
		},
		Accuracy: agreement,
		Seconds:  timing.TrainingTime.Seconds(),
		Stamp:    time.Now().Unix(),
	}
	if err := store.Record(run); err != nil {
		fatalf("recording run: %s", err.Error())
	}

	timing.TotalTime = time.Since(start)
	utils.PrintTimingStats(&timing)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 3, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
