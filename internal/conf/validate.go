// validate.go: settings validation for sonobird.
package conf

import (
	"strings"

	"github.com/sonobird/sonobird/internal/errors"
)

// ValidateSettings checks settings for consistency before any analysis runs.
func ValidateSettings(settings *Settings) error {
	var errs []string

	if settings.BirdNET.Sensitivity < 0.0 || settings.BirdNET.Sensitivity > 1.5 {
		errs = append(errs, "BirdNET sensitivity must be between 0.0 and 1.5")
	}
	if settings.BirdNET.Overlap < 0.0 || settings.BirdNET.Overlap > 2.9 {
		errs = append(errs, "BirdNET overlap must be between 0.0 and 2.9")
	}
	if settings.BirdNET.Threads < 0 {
		errs = append(errs, "BirdNET threads must be 0 (automatic) or positive")
	}

	if settings.Alerts.LowConfidence < 0.0 || settings.Alerts.LowConfidence > 1.0 {
		errs = append(errs, "low confidence threshold must be between 0.0 and 1.0")
	}
	if settings.Alerts.UnknownSound < 0.0 || settings.Alerts.UnknownSound > 1.0 {
		errs = append(errs, "unknown sound threshold must be between 0.0 and 1.0")
	}
	if settings.Alerts.UnknownSound > settings.Alerts.LowConfidence {
		errs = append(errs, "unknown sound threshold must not exceed low confidence threshold")
	}
	for _, label := range settings.Alerts.RareSpecies {
		if strings.TrimSpace(label) == "" {
			errs = append(errs, "rare species registry must not contain empty labels")
			break
		}
	}

	if settings.Output.TopN < 1 {
		errs = append(errs, "output topn must be at least 1")
	}

	if settings.Fetch.TimeoutSeconds < 1 {
		errs = append(errs, "fetch timeout must be at least 1 second")
	}
	if settings.Fetch.MaxRetries < 0 {
		errs = append(errs, "fetch max retries must not be negative")
	}

	if len(errs) > 0 {
		return errors.Newf("invalid configuration: %s", strings.Join(errs, "; ")).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("error_count", len(errs)).
			Build()
	}
	return nil
}
