package model

// TrendPoint is a single (year, population) observation.
type TrendPoint struct {
	Year       int     `json:"year" yaml:"year" csv:"year"`
	Population float64 `json:"population" yaml:"population" csv:"population"`
}

// TrendSeries is one country's population over increasing, unique years.
type TrendSeries struct {
	Country string       `json:"country" yaml:"country"`
	Points  []TrendPoint `json:"points" yaml:"points"`
}

// Len returns the number of points in the series.
func (s TrendSeries) Len() int { return len(s.Points) }

// XY splits the series into parallel year and population slices.
func (s TrendSeries) XY() (xs, ys []float64) {
	xs = make([]float64, len(s.Points))
	ys = make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = float64(p.Year)
		ys[i] = p.Population
	}
	return xs, ys
}

// LinearModel is a fitted population = Slope*year + Intercept line.
type LinearModel struct {
	Slope     float64 `json:"slope" yaml:"slope"`
	Intercept float64 `json:"intercept" yaml:"intercept"`
}

// Projection is the predicted population of a country at a target year.
type Projection struct {
	Country    string      `json:"country" yaml:"country"`
	TargetYear int         `json:"target_year" yaml:"target_year"`
	Model      LinearModel `json:"model" yaml:"model"`
	Value      float64     `json:"value" yaml:"value"`
}
