package output

import (
	"encoding/json"

	"github.com/fincast/fincast/internal/domain"
)

// JSONFormatter emits the raw records, indented, for downstream tooling.
type JSONFormatter struct{}

// Name implements Formatter.
func (JSONFormatter) Name() string { return "json" }

// FormatTimeline implements Formatter.
func (JSONFormatter) FormatTimeline(timeline domain.Timeline) ([]byte, error) {
	return json.MarshalIndent(timeline, "", "  ")
}

// FormatSummary implements Formatter.
func (JSONFormatter) FormatSummary(summary domain.MonteCarloSummary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}
