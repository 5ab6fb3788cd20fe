package birdnet

import (
	"context"
	"fmt"
	"math"

	tflite "github.com/tphakala/go-tflite"

	"github.com/sonobird/sonobird/internal/detection"
	"github.com/sonobird/sonobird/internal/errors"
)

// Classify runs inference over all decoded audio chunks and returns one
// prediction per species label, keeping the best score seen across chunks.
// At least one prediction is returned on success.
func (bn *BirdNET) Classify(ctx context.Context, chunks [][]float32) (detection.PredictionSet, error) {
	if len(chunks) == 0 {
		return nil, errors.New(fmt.Errorf("%w: no audio chunks to classify", ErrInference)).
			Component("birdnet").
			Category(errors.CategoryModelInference).
			Build()
	}

	best := make(map[string]float64, len(bn.labels))

	for idx, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(fmt.Errorf("%w: %w", ErrInference, err)).
				Component("birdnet").
				Category(errors.CategoryModelInference).
				Context("chunk", idx).
				Build()
		}

		confidence, err := bn.predict(chunk)
		if err != nil {
			return nil, errors.New(fmt.Errorf("%w: chunk %d: %w", ErrInference, idx, err)).
				Component("birdnet").
				Category(errors.CategoryModelInference).
				Context("chunk", idx).
				Build()
		}

		predictions, err := pairLabelsAndConfidence(bn.labels, confidence)
		if err != nil {
			return nil, errors.New(fmt.Errorf("%w: %w", ErrInference, err)).
				Component("birdnet").
				Category(errors.CategoryModelInference).
				Build()
		}

		mergeBestScores(best, predictions)
	}

	results := make(detection.PredictionSet, 0, len(best))
	for _, label := range bn.labels {
		if score, ok := best[label]; ok {
			results = append(results, detection.Prediction{Label: label, Score: score})
		}
	}

	if len(results) == 0 {
		return nil, errors.New(fmt.Errorf("%w: model produced no predictions", ErrInference)).
			Component("birdnet").
			Category(errors.CategoryModelInference).
			Build()
	}

	return results, nil
}

// predict performs inference on a single chunk and returns the
// sensitivity-adjusted confidence per label.
func (bn *BirdNET) predict(chunk []float32) ([]float32, error) {
	// The interpreter is not safe for concurrent invocation.
	bn.mu.Lock()
	defer bn.mu.Unlock()

	inputTensor := bn.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, fmt.Errorf("cannot get input tensor")
	}

	copy(inputTensor.Float32s(), chunk)

	if status := bn.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("tensor invoke failed: %v", status)
	}

	outputTensor := bn.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return nil, fmt.Errorf("cannot get output tensor")
	}

	predictions := extractPredictions(outputTensor)
	return applySigmoidToPredictions(predictions, bn.settings.BirdNET.Sensitivity), nil
}

// extractPredictions copies prediction results out of a TensorFlow Lite tensor.
func extractPredictions(tensor *tflite.Tensor) []float32 {
	predSize := tensor.Dim(tensor.NumDims() - 1)
	predictions := make([]float32, predSize)
	copy(predictions, tensor.Float32s())
	return predictions
}

// applySigmoidToPredictions converts raw logits to confidence values.
func applySigmoidToPredictions(predictions []float32, sensitivity float64) []float32 {
	confidence := make([]float32, len(predictions))
	for i, pred := range predictions {
		confidence[i] = float32(customSigmoid(float64(pred), sensitivity))
	}
	return confidence
}

// customSigmoid applies a sigmoid function with sensitivity adjustment to a value.
func customSigmoid(x, sensitivity float64) float64 {
	return 1.0 / (1.0 + math.Exp(-sensitivity*x))
}

// pairLabelsAndConfidence pairs labels with their corresponding confidence values.
func pairLabelsAndConfidence(labels []string, confidence []float32) (detection.PredictionSet, error) {
	if len(labels) != len(confidence) {
		return nil, fmt.Errorf("mismatched labels and predictions lengths: %d vs %d", len(labels), len(confidence))
	}

	predictions := make(detection.PredictionSet, 0, len(labels))
	for i, label := range labels {
		predictions = append(predictions, detection.Prediction{Label: label, Score: float64(confidence[i])})
	}
	return predictions, nil
}

// mergeBestScores keeps the highest score per label across chunks.
func mergeBestScores(best map[string]float64, predictions detection.PredictionSet) {
	for _, pred := range predictions {
		if score, ok := best[pred.Label]; !ok || pred.Score > score {
			best[pred.Label] = pred.Score
		}
	}
}
