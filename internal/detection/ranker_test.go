package detection

import (
	"math/rand"
	"testing"

	"github.com/sonobird/sonobird/internal/errors"
)

func TestRankOrdersByScoreDescending(t *testing.T) {
	t.Parallel()

	input := PredictionSet{
		{Label: "House Sparrow", Score: 0.12},
		{Label: "American Robin", Score: 0.82},
		{Label: "Blue Jay", Score: 0.45},
	}

	ranked, err := Rank(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ranked) != len(input) {
		t.Fatalf("expected %d results, got %d", len(input), len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score < ranked[i].Score {
			t.Errorf("not sorted at index %d: %f < %f", i, ranked[i-1].Score, ranked[i].Score)
		}
	}
	if ranked.Top().Label != "American Robin" {
		t.Errorf("expected top American Robin, got %s", ranked.Top().Label)
	}
}

func TestRankIsStableForEqualScores(t *testing.T) {
	t.Parallel()

	input := PredictionSet{
		{Label: "First", Score: 0.5},
		{Label: "Second", Score: 0.5},
		{Label: "Third", Score: 0.5},
		{Label: "Winner", Score: 0.9},
	}

	ranked, err := Rank(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Winner", "First", "Second", "Third"}
	for i, label := range want {
		if ranked[i].Label != label {
			t.Errorf("position %d: expected %s, got %s", i, label, ranked[i].Label)
		}
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := PredictionSet{
		{Label: "Low", Score: 0.1},
		{Label: "High", Score: 0.9},
	}

	if _, err := Rank(input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if input[0].Label != "Low" || input[1].Label != "High" {
		t.Error("Rank modified its input slice")
	}
}

func TestRankEmptySetFails(t *testing.T) {
	t.Parallel()

	ranked, err := Rank(PredictionSet{})
	if err == nil {
		t.Fatal("expected error for empty prediction set")
	}
	if !errors.Is(err, ErrNoPredictions) {
		t.Errorf("expected ErrNoPredictions, got %v", err)
	}
	if ranked != nil {
		t.Errorf("expected nil result, got %v", ranked)
	}
}

func TestRankRandomSetsSortedNonIncreasing(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 100; run++ {
		n := 1 + rng.Intn(20)
		input := make(PredictionSet, n)
		for i := range input {
			input[i] = Prediction{Label: "Species", Score: rng.Float64()}
		}

		ranked, err := Rank(input)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if len(ranked) != n {
			t.Fatalf("run %d: expected %d results, got %d", run, n, len(ranked))
		}
		for i := 1; i < len(ranked); i++ {
			if ranked[i-1].Score < ranked[i].Score {
				t.Fatalf("run %d: not non-increasing at %d", run, i)
			}
		}
	}
}
