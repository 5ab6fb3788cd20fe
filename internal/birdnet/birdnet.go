// Package birdnet wraps the BirdNET TensorFlow Lite model behind a small
// classification interface: load the model and its label file once, then turn
// decoded audio chunks into per-species confidence scores.
package birdnet

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	tflite "github.com/tphakala/go-tflite"

	"github.com/sonobird/sonobird/internal/conf"
	"github.com/sonobird/sonobird/internal/errors"
	"github.com/sonobird/sonobird/internal/logging"
)

// ErrInference is the terminal failure for model inference on an input.
var ErrInference = errors.NewStd("model inference failed")

var log = logging.ForService("birdnet")

// BirdNET represents the loaded model with its interpreter and labels.
type BirdNET struct {
	interpreter *tflite.Interpreter
	labels      []string
	settings    *conf.Settings
	mu          sync.Mutex
}

// New initializes a BirdNET instance from settings, loading the model file
// and the species label file.
func New(settings *conf.Settings) (*BirdNET, error) {
	bn := &BirdNET{settings: settings}

	if err := bn.initializeModel(); err != nil {
		return nil, err
	}
	if err := bn.loadLabels(); err != nil {
		return nil, err
	}

	return bn, nil
}

// Labels returns the loaded species labels.
func (bn *BirdNET) Labels() []string {
	return bn.labels
}

func (bn *BirdNET) initializeModel() error {
	start := time.Now()

	modelData, err := os.ReadFile(bn.settings.BirdNET.ModelPath)
	if err != nil {
		return errors.New(fmt.Errorf("failed to read model file: %w", err)).
			Component("birdnet").
			Category(errors.CategoryModelLoad).
			Context("model_path", bn.settings.BirdNET.ModelPath).
			Timing("model-load", time.Since(start)).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return errors.Newf("cannot load TensorFlow Lite model").
			Component("birdnet").
			Category(errors.CategoryModelInit).
			Context("model_size_mb", len(modelData)/1024/1024).
			Build()
	}

	threads := bn.determineThreadCount()
	options := tflite.NewInterpreterOptions()
	options.SetNumThread(threads)
	options.SetErrorReporter(func(msg string, userData any) {
		log.Error("TFLite error", "message", msg)
	}, nil)

	bn.interpreter = tflite.NewInterpreter(model, options)
	if bn.interpreter == nil {
		return errors.Newf("cannot create TensorFlow Lite interpreter").
			Component("birdnet").
			Category(errors.CategoryModelInit).
			Build()
	}
	if status := bn.interpreter.AllocateTensors(); status != tflite.OK {
		return errors.Newf("tensor allocation failed").
			Component("birdnet").
			Category(errors.CategoryModelInit).
			Build()
	}

	log.Info("BirdNET model initialized",
		"model_path", bn.settings.BirdNET.ModelPath,
		"threads", threads,
		"total_cpus", runtime.NumCPU(),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// loadLabels reads the label file, one species label per line.
func (bn *BirdNET) loadLabels() error {
	file, err := os.Open(bn.settings.BirdNET.LabelPath)
	if err != nil {
		return errors.New(fmt.Errorf("failed to open label file: %w", err)).
			Component("birdnet").
			Category(errors.CategoryLabelLoad).
			Context("label_path", bn.settings.BirdNET.LabelPath).
			Build()
	}
	defer file.Close()

	labels, err := readLabels(file)
	if err != nil {
		return errors.New(err).
			Component("birdnet").
			Category(errors.CategoryLabelLoad).
			Context("label_path", bn.settings.BirdNET.LabelPath).
			Build()
	}

	bn.labels = labels
	log.Debug("species labels loaded", "count", len(labels))
	return nil
}

// readLabels parses labels from r, skipping blank lines.
func readLabels(r *os.File) ([]string, error) {
	var labels []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}
	if len(labels) == 0 {
		return nil, errors.NewStd("label file contains no labels")
	}
	return labels, nil
}

// determineThreadCount clamps the configured interpreter thread count to the
// available CPUs, defaulting to all of them.
func (bn *BirdNET) determineThreadCount() int {
	threads := bn.settings.BirdNET.Threads
	if threads <= 0 || threads > runtime.NumCPU() {
		return runtime.NumCPU()
	}
	return threads
}
