package birdnet

import (
	"math"
	"testing"

	"github.com/sonobird/sonobird/internal/detection"
)

func TestPairLabelsAndConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		labels      []string
		confidence  []float32
		wantErr     bool
		errContains string
		validate    func(t *testing.T, results detection.PredictionSet)
	}{
		{
			name:       "valid pairing",
			labels:     []string{"Robin", "Sparrow", "Eagle"},
			confidence: []float32{0.9, 0.7, 0.5},
			validate: func(t *testing.T, results detection.PredictionSet) {
				if len(results) != 3 {
					t.Fatalf("expected 3 results, got %d", len(results))
				}
				if results[0].Label != "Robin" || math.Abs(results[0].Score-0.9) > 1e-6 {
					t.Errorf("unexpected first result: %+v", results[0])
				}
			},
		},
		{
			name:       "mismatched lengths - more labels",
			labels:     []string{"Robin", "Sparrow", "Eagle"},
			confidence: []float32{0.9, 0.7},
			wantErr:    true,
		},
		{
			name:       "mismatched lengths - more confidence",
			labels:     []string{"Robin"},
			confidence: []float32{0.9, 0.7},
			wantErr:    true,
		},
		{
			name:       "empty slices",
			labels:     []string{},
			confidence: []float32{},
			validate: func(t *testing.T, results detection.PredictionSet) {
				if len(results) != 0 {
					t.Errorf("expected 0 results, got %d", len(results))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			results, err := pairLabelsAndConfidence(tt.labels, tt.confidence)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, results)
			}
		})
	}
}

func TestCustomSigmoid(t *testing.T) {
	t.Parallel()

	// Zero maps to 0.5 regardless of sensitivity.
	if got := customSigmoid(0, 1.0); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("sigmoid(0) = %f, want 0.5", got)
	}

	// Monotonically increasing in x.
	prev := customSigmoid(-10, 1.0)
	for x := -9.0; x <= 10; x++ {
		cur := customSigmoid(x, 1.0)
		if cur <= prev {
			t.Fatalf("sigmoid not increasing at x=%f", x)
		}
		prev = cur
	}

	// Output stays in (0,1).
	for _, x := range []float64{-100, -1, 0, 1, 100} {
		got := customSigmoid(x, 1.0)
		if got <= 0 || got >= 1 {
			t.Errorf("sigmoid(%f) = %f out of (0,1)", x, got)
		}
	}

	// Higher sensitivity sharpens the curve for positive logits.
	if customSigmoid(1, 1.5) <= customSigmoid(1, 0.5) {
		t.Error("higher sensitivity should yield higher confidence for positive logits")
	}
}

func TestApplySigmoidToPredictions(t *testing.T) {
	t.Parallel()

	confidence := applySigmoidToPredictions([]float32{-2, 0, 2}, 1.0)
	if len(confidence) != 3 {
		t.Fatalf("expected 3 values, got %d", len(confidence))
	}
	if confidence[0] >= confidence[1] || confidence[1] >= confidence[2] {
		t.Errorf("sigmoid order not preserved: %v", confidence)
	}
	if math.Abs(float64(confidence[1])-0.5) > 1e-6 {
		t.Errorf("sigmoid(0) = %f, want 0.5", confidence[1])
	}
}

func TestMergeBestScores(t *testing.T) {
	t.Parallel()

	best := map[string]float64{}
	mergeBestScores(best, detection.PredictionSet{
		{Label: "Robin", Score: 0.4},
		{Label: "Sparrow", Score: 0.2},
	})
	mergeBestScores(best, detection.PredictionSet{
		{Label: "Robin", Score: 0.8},
		{Label: "Sparrow", Score: 0.1},
		{Label: "Eagle", Score: 0.3},
	})

	want := map[string]float64{"Robin": 0.8, "Sparrow": 0.2, "Eagle": 0.3}
	for label, score := range want {
		if best[label] != score {
			t.Errorf("%s: expected %f, got %f", label, score, best[label])
		}
	}
}

func TestDetermineThreadCount(t *testing.T) {
	t.Parallel()

	bn := &BirdNET{settings: testSettings(0)}
	if got := bn.determineThreadCount(); got < 1 {
		t.Errorf("automatic thread count must be at least 1, got %d", got)
	}

	bn = &BirdNET{settings: testSettings(1)}
	if got := bn.determineThreadCount(); got != 1 {
		t.Errorf("expected 1 thread, got %d", got)
	}

	bn = &BirdNET{settings: testSettings(100000)}
	if got := bn.determineThreadCount(); got < 1 {
		t.Errorf("oversized thread count must clamp to at least 1, got %d", got)
	}
}
