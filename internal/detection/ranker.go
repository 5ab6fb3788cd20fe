package detection

import (
	"sort"

	"github.com/sonobird/sonobird/internal/errors"
)

// ErrNoPredictions is returned when the classifier yields an empty prediction
// set. That is a collaborator contract violation and always fatal to the run.
var ErrNoPredictions = errors.NewStd("classifier returned no predictions")

// Rank sorts predictions by score in descending order. The sort is stable,
// predictions with equal scores keep their original relative order. The input
// slice is not modified.
func Rank(predictions PredictionSet) (RankedPredictions, error) {
	if len(predictions) == 0 {
		return nil, errors.New(ErrNoPredictions).
			Component("detection").
			Category(errors.CategoryValidation).
			Build()
	}

	ranked := make(RankedPredictions, len(predictions))
	copy(ranked, predictions)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}
