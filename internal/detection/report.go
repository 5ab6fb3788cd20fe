package detection

import (
	"fmt"
	"strings"
)

// FormatReport renders ranked predictions and their alerts into a
// deterministic text block: the top prediction with its confidence as a
// percentage, the alert list in evaluation order, and a numbered list of the
// first topN predictions. topN is clamped to the available prediction count
// and never drops below one. The function is pure, printing is the caller's
// concern.
func FormatReport(ranked RankedPredictions, alerts []Alert, topN int) string {
	if topN < 1 {
		topN = 1
	}
	if topN > len(ranked) {
		topN = len(ranked)
	}

	var b strings.Builder

	top := ranked.Top()
	fmt.Fprintf(&b, "%s — %s\n", top.Label, formatPercent(top.Score))

	if len(alerts) > 0 {
		b.WriteString("\nAlerts:\n")
		for _, alert := range alerts {
			fmt.Fprintf(&b, "  %s: %s\n", alert.Kind, alert.Message)
		}
	}

	fmt.Fprintf(&b, "\nTop %d predictions:\n", topN)
	for i, pred := range ranked[:topN] {
		fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, pred.Label, formatPercent(pred.Score))
	}

	return b.String()
}

// formatPercent renders a [0,1] score as a percentage with one decimal,
// e.g. 0.5 becomes "50.0%".
func formatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
