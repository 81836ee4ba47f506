package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/fincast/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders human-readable tables.
type ConsoleFormatter struct{}

// Name implements Formatter.
func (ConsoleFormatter) Name() string { return "console" }

// FormatTimeline implements Formatter.
func (ConsoleFormatter) FormatTimeline(timeline domain.Timeline) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "YEAR\tGROSS INCOME\tEXPENSES\tTAX\tDISCRETIONARY\tNET WORTH\t")
	for _, sy := range timeline {
		marker := ""
		if sy.HasDeficit() {
			marker = " !"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s%s\t\n",
			sy.Year,
			FormatCurrency(sy.Cashflow.GrossIncome),
			FormatCurrency(sy.Cashflow.TotalExpense),
			FormatCurrency(sy.TaxDetails.Total()),
			FormatCurrency(sy.Cashflow.Discretionary),
			FormatCurrency(sy.NetWorth()),
			marker,
		)
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}

	for _, sy := range timeline {
		for _, line := range sy.Logs {
			fmt.Fprintf(buf, "[%d] %s\n", sy.Year, line)
		}
	}
	return buf.Bytes(), nil
}

// FormatSummary implements Formatter.
func (ConsoleFormatter) FormatSummary(summary domain.MonteCarloSummary) ([]byte, error) {
	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, "MONTE CARLO SUMMARY")
	fmt.Fprintln(buf, "===================")
	fmt.Fprintf(buf, "Scenarios:        %d (seed %d)\n", summary.NumScenarios, summary.Seed)
	fmt.Fprintf(buf, "Success rate:     %s%%\n", summary.SuccessRate.Mul(decimal.NewFromInt(100)).StringFixed(1))
	fmt.Fprintf(buf, "Trimmed mean:     %s\n", FormatCurrency(summary.TrimmedMeanFinalNetWorth))
	fmt.Fprintf(buf, "Worst scenario:   #%d\n", summary.WorstScenario)
	fmt.Fprintf(buf, "Median scenario:  #%d\n", summary.MedianScenario)
	fmt.Fprintf(buf, "Best scenario:    #%d\n", summary.BestScenario)

	if years := len(summary.Percentiles.P50); years > 0 {
		fmt.Fprintln(buf)
		w := tabwriter.NewWriter(buf, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "YEAR\tP10\tP50\tP90\t")
		for i := 0; i < years; i++ {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", i,
				FormatCurrency(summary.Percentiles.P10[i]),
				FormatCurrency(summary.Percentiles.P50[i]),
				FormatCurrency(summary.Percentiles.P90[i]))
		}
		if err := w.Flush(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
