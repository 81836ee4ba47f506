// Package output renders projection timelines and Monte Carlo summaries for
// the CLI: console tables, JSON for downstream tooling, and CSV for
// spreadsheets.
package output

import (
	"fmt"

	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders engine output in one concrete format.
type Formatter interface {
	Name() string
	FormatTimeline(timeline domain.Timeline) ([]byte, error)
	FormatSummary(summary domain.MonteCarloSummary) ([]byte, error)
}

// GetFormatterByName resolves a format flag to a formatter.
func GetFormatterByName(name string) (Formatter, error) {
	switch name {
	case "console", "":
		return ConsoleFormatter{}, nil
	case "json":
		return JSONFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", name)
	}
}

// FormatCurrency renders a dollar figure with two decimal places.
func FormatCurrency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
