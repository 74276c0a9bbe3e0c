// Package report renders billing periods and statistics as plain text
// for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"evn/internal/core"
)

// CategoryStatistics is one category's cross-period reduction, ready for
// display. Periods == 0 means no data is recorded for the category.
type CategoryStatistics struct {
	Kind       core.Kind
	Periods    int64
	MeanUnits  float64
	StdevUnits float64
	MinUnits   int64
	MaxUnits   int64
	AvgNet     decimal.Decimal
	AvgGross   decimal.Decimal
}

// WritePeriod prints one category line per kind, e.g.
//
//	NA	12 min	| 0.9076€ (1.080044€)
func WritePeriod(w io.Writer, period core.BillingPeriod) {
	for _, total := range period.Totals {
		fmt.Fprintf(w, "   %s\t%d %s\t| %s€ (%s€)\n",
			total.Kind, total.Units, total.Kind.Unit(), total.Net, total.Gross)
	}
}

// WritePeriods prints every period with its date heading.
func WritePeriods(w io.Writer, periods []core.BillingPeriod) {
	for _, period := range periods {
		fmt.Fprintf(w, "\n%s:\n", period.Date)
		WritePeriod(w, period)
	}
}

// WriteDates prints one registered billing date per line.
func WriteDates(w io.Writer, dates []core.Date) {
	for _, date := range dates {
		fmt.Fprintf(w, "   %s\n", date)
	}
}

// WriteStatistics prints the aligned statistics table. Categories
// without recorded periods get an explicit no-data row instead of zeros.
func WriteStatistics(w io.Writer, stats []CategoryStatistics) {
	fmt.Fprintf(w, " %-20s %12s %-4s %7s  %-12s | %9s (%9s)\n",
		"connection type", "avg", "", "stdev", "(min/max)", "net", "gross")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, s := range stats {
		if s.Periods == 0 {
			fmt.Fprintf(w, "   %-18s: no data recorded\n", s.Kind.Label())
			continue
		}
		fmt.Fprintf(w, "   %-18s: %10.2f %-4s %7.2f  %-12s | %8s€ (%8s€)\n",
			s.Kind.Label(),
			s.MeanUnits,
			s.Kind.Unit(),
			s.StdevUnits,
			fmt.Sprintf("(%d/%d)", s.MinUnits, s.MaxUnits),
			s.AvgNet.StringFixed(2),
			s.AvgGross.StringFixed(2))
	}
}
