package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/worldpop-cli/internal/analysis"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Workbook lays res out as a workbook with one sheet per present section:
// Summary, Continents, Top, Trend and Projection.
func Workbook(res *model.RunResult) (*xlsx.File, error) {
	f := xlsx.NewFile()

	if agg := res.Aggregate; agg != nil {
		sheet, err := addSheet(f, "Summary", "Year", "World population")
		if err != nil {
			return nil, err
		}
		row := sheet.AddRow()
		row.AddCell().SetInt(agg.Year)
		row.AddCell().SetInt64(agg.WorldTotal)

		if err := rankingSheet(f, "Continents", analysis.ContinentRanking(agg.ByContinent)); err != nil {
			return nil, err
		}
		if err := rankingSheet(f, "Top", agg.Top); err != nil {
			return nil, err
		}
	}

	if s := res.Series; s != nil && s.Len() > 0 {
		sheet, err := addSheet(f, "Trend", "Year", "Population", "Fitted")
		if err != nil {
			return nil, err
		}
		for _, p := range s.Points {
			row := sheet.AddRow()
			row.AddCell().SetInt(p.Year)
			row.AddCell().SetFloat(p.Population)
			if res.Projection != nil {
				row.AddCell().SetFloat(analysis.Predict(res.Projection.Model, p.Year))
			}
		}
	}

	if p := res.Projection; p != nil {
		sheet, err := addSheet(f, "Projection", "Country", "Target year", "Slope", "Intercept", "Projected population")
		if err != nil {
			return nil, err
		}
		row := sheet.AddRow()
		row.AddCell().SetString(p.Country)
		row.AddCell().SetInt(p.TargetYear)
		row.AddCell().SetFloat(p.Model.Slope)
		row.AddCell().SetFloat(p.Model.Intercept)
		row.AddCell().SetFloat(p.Value)
	}

	if len(f.Sheets) == 0 {
		return nil, eris.New("report: nothing to export")
	}
	return f, nil
}

func rankingSheet(f *xlsx.File, name string, entries []model.RankEntry) error {
	sheet, err := addSheet(f, name, "Rank", "Name", "Population")
	if err != nil {
		return err
	}
	for i, e := range entries {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(e.Name)
		row.AddCell().SetInt64(e.Population)
	}
	return nil
}

func addSheet(f *xlsx.File, name string, headers ...string) (*xlsx.Sheet, error) {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "report: add sheet %s", name)
	}
	row := sheet.AddRow()
	for _, h := range headers {
		row.AddCell().SetString(h)
	}
	return sheet, nil
}
