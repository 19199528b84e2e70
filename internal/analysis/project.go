package analysis

import (
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// Fit computes the ordinary least squares line population = slope*year +
// intercept over series.
func Fit(series model.TrendSeries) (model.LinearModel, error) {
	if series.Len() < 2 {
		return model.LinearModel{}, eris.Wrapf(ErrInsufficientData, "%d point(s) for %q", series.Len(), series.Country)
	}

	xs, ys := series.XY()
	first := xs[0]
	distinct := false
	for _, x := range xs[1:] {
		if x != first {
			distinct = true
			break
		}
	}
	if !distinct {
		return model.LinearModel{}, eris.Wrapf(ErrDegenerateInput, "every point is year %v", first)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return model.LinearModel{Slope: slope, Intercept: intercept}, nil
}

// Predict evaluates m at targetYear. Any year is accepted and the result is
// not clamped.
func Predict(m model.LinearModel, targetYear int) float64 {
	return m.Slope*float64(targetYear) + m.Intercept
}

// Project extracts the trend of country over years, fits it, and predicts
// targetYear. The extracted series is returned alongside for charting.
func Project(t *dataset.Table, country string, years []int, targetYear int) (*model.Projection, model.TrendSeries, error) {
	series, err := Extract(t, country, years)
	if err != nil {
		return nil, model.TrendSeries{}, err
	}
	m, err := Fit(series)
	if err != nil {
		return nil, series, err
	}
	return &model.Projection{
		Country:    series.Country,
		TargetYear: targetYear,
		Model:      m,
		Value:      Predict(m, targetYear),
	}, series, nil
}
