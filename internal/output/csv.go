package output

import (
	"bytes"

	"github.com/fincast/fincast/internal/domain"
	"github.com/gocarina/gocsv"
)

// timelineRow is the flat CSV projection of one simulated year.
type timelineRow struct {
	Year          int    `csv:"Year"`
	GrossIncome   string `csv:"GrossIncome"`
	TotalExpense  string `csv:"TotalExpense"`
	TotalTax      string `csv:"TotalTax"`
	Discretionary string `csv:"Discretionary"`
	UserInvested  string `csv:"UserInvested"`
	NetWorth      string `csv:"NetWorth"`
	Deficit       string `csv:"Deficit"`
}

// summaryRow is the flat CSV projection of one percentile-band year.
type summaryRow struct {
	YearIndex int    `csv:"YearIndex"`
	P10       string `csv:"P10"`
	P25       string `csv:"P25"`
	P50       string `csv:"P50"`
	P75       string `csv:"P75"`
	P90       string `csv:"P90"`
}

// CSVFormatter emits one row per year, suitable for spreadsheets.
type CSVFormatter struct{}

// Name implements Formatter.
func (CSVFormatter) Name() string { return "csv" }

// FormatTimeline implements Formatter.
func (CSVFormatter) FormatTimeline(timeline domain.Timeline) ([]byte, error) {
	rows := make([]*timelineRow, 0, len(timeline))
	for _, sy := range timeline {
		deficit := "no"
		if sy.HasDeficit() {
			deficit = "yes"
		}
		rows = append(rows, &timelineRow{
			Year:          sy.Year,
			GrossIncome:   sy.Cashflow.GrossIncome.StringFixed(2),
			TotalExpense:  sy.Cashflow.TotalExpense.StringFixed(2),
			TotalTax:      sy.TaxDetails.Total().StringFixed(2),
			Discretionary: sy.Cashflow.Discretionary.StringFixed(2),
			UserInvested:  sy.Cashflow.UserInvested.StringFixed(2),
			NetWorth:      sy.NetWorth().StringFixed(2),
			Deficit:       deficit,
		})
	}
	buf := &bytes.Buffer{}
	if err := gocsv.Marshal(rows, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatSummary implements Formatter. Only the percentile bands translate
// usefully to rows; headline figures go in a comment-style first column of
// the console format instead.
func (CSVFormatter) FormatSummary(summary domain.MonteCarloSummary) ([]byte, error) {
	rows := make([]*summaryRow, 0, len(summary.Percentiles.P50))
	for i := range summary.Percentiles.P50 {
		rows = append(rows, &summaryRow{
			YearIndex: i,
			P10:       summary.Percentiles.P10[i].StringFixed(2),
			P25:       summary.Percentiles.P25[i].StringFixed(2),
			P50:       summary.Percentiles.P50[i].StringFixed(2),
			P75:       summary.Percentiles.P75[i].StringFixed(2),
			P90:       summary.Percentiles.P90[i].StringFixed(2),
		})
	}
	buf := &bytes.Buffer{}
	if err := gocsv.Marshal(rows, buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
