package detection

// AlertKind identifies a flagged condition derived from the top prediction.
type AlertKind string

const (
	AlertRareSpecies   AlertKind = "RARE_SPECIES"
	AlertLowConfidence AlertKind = "LOW_CONFIDENCE"
	AlertUnknownSound  AlertKind = "UNKNOWN_SOUND"
)

// Alert is one flagged condition with its operator-facing message.
type Alert struct {
	Kind    AlertKind
	Message string
}

// AlertConfig is the immutable configuration for an AlertEngine. Thresholds
// must satisfy UnknownSound <= LowConfidence, which conf validation enforces.
type AlertConfig struct {
	Registry      *Registry
	LowConfidence float64
	UnknownSound  float64
}

// AlertEngine evaluates alert rules against the top prediction. It holds no
// mutable state and is safe for concurrent use.
type AlertEngine struct {
	cfg AlertConfig
}

// NewAlertEngine creates an engine with the given configuration.
func NewAlertEngine(cfg AlertConfig) *AlertEngine {
	if cfg.Registry == nil {
		cfg.Registry = NewRegistry(nil)
	}
	return &AlertEngine{cfg: cfg}
}

// Evaluate runs the three alert rules against the top prediction and returns
// the alerts that fired, in rule order. The rules are independent: an
// unknown-sound score always also fires low confidence, that layering is
// intentional. Threshold comparisons are strict, a score exactly at a
// threshold does not fire.
func (ae *AlertEngine) Evaluate(top Prediction) []Alert {
	var alerts []Alert

	if ae.cfg.Registry.Contains(top.Label) {
		alerts = append(alerts, Alert{
			Kind:    AlertRareSpecies,
			Message: "Rare species detected!",
		})
	}

	if top.Score < ae.cfg.LowConfidence {
		alerts = append(alerts, Alert{
			Kind:    AlertLowConfidence,
			Message: "Model is not confident in the result",
		})
	}

	if top.Score < ae.cfg.UnknownSound {
		alerts = append(alerts, Alert{
			Kind:    AlertUnknownSound,
			Message: "Possibly an unknown species or noise",
		})
	}

	return alerts
}
