// Package report renders analysis results as human-readable text and exports
// them as JSON, YAML, CSV or XLSX.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/model"
)

var printer = message.NewPrinter(language.English)

// WriteSummary prints the world total, continent totals and top-N ranking.
func WriteSummary(w io.Writer, agg *model.AggregateResult) {
	printer.Fprintf(w, "World population (%s): %d\n\n", strconv.Itoa(agg.Year), agg.WorldTotal)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CONTINENT\tPOPULATION\tSHARE\t")
	for _, e := range analysis.ContinentRanking(agg.ByContinent) {
		printer.Fprintf(tw, "%s\t%d\t%s\t\n", e.Name, e.Population, share(e.Population, agg.WorldTotal))
	}
	tw.Flush() //nolint:errcheck

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tCOUNTRY\tPOPULATION\t")
	for i, e := range agg.Top {
		printer.Fprintf(tw, "%d\t%s\t%d\t\n", i+1, e.Name, e.Population)
	}
	tw.Flush() //nolint:errcheck
}

// WriteTrend prints one line per trend point.
func WriteTrend(w io.Writer, series model.TrendSeries) {
	fmt.Fprintf(w, "Population of %s\n", series.Country)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "YEAR\tPOPULATION\t")
	for _, p := range series.Points {
		printer.Fprintf(tw, "%s\t%d\t\n", strconv.Itoa(p.Year), roundPopulation(p.Population))
	}
	tw.Flush() //nolint:errcheck
}

// WriteProjection prints the fitted line and the projected value, rounded to
// a whole person.
func WriteProjection(w io.Writer, proj *model.Projection) {
	sign := "+"
	if proj.Model.Intercept < 0 {
		sign = "-"
	}
	printer.Fprintf(w, "Fitted line: population = %.2f * year %s %.2f\n", proj.Model.Slope, sign, math.Abs(proj.Model.Intercept))
	printer.Fprintf(w, "Projected population of %s in %s: %d\n", proj.Country, strconv.Itoa(proj.TargetYear), roundPopulation(proj.Value))
}

// WriteText prints every part of res that is present.
func WriteText(w io.Writer, res *model.RunResult) {
	sections := 0
	sep := func() {
		if sections > 0 {
			fmt.Fprintln(w)
		}
		sections++
	}
	if res.Aggregate != nil {
		sep()
		WriteSummary(w, res.Aggregate)
	}
	if res.Series != nil && res.Series.Len() > 0 {
		sep()
		WriteTrend(w, *res.Series)
	}
	if res.Projection != nil {
		sep()
		WriteProjection(w, res.Projection)
	}
	if len(res.Charts) > 0 {
		sep()
		fmt.Fprintln(w, "Charts:")
		for _, c := range res.Charts {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}
}

func share(part, total int64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func roundPopulation(v float64) int64 {
	return int64(math.Round(v))
}
