package dataset

import (
	"math"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/worldpop-cli/internal/model"
)

// Merge folds the territory with code From into the country with code Into.
type Merge struct {
	From string `yaml:"from"`
	Into string `yaml:"into"`
}

// Adjustments are table corrections applied after load.
type Adjustments struct {
	Merges      []Merge `yaml:"merges"`
	FillDensity bool    `yaml:"fill_density"`
}

// LoadAdjustments reads adjustments from a YAML file.
func LoadAdjustments(path string) (*Adjustments, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read adjustments %s", path)
	}

	var adj Adjustments
	if err := yaml.Unmarshal(data, &adj); err != nil {
		return nil, eris.Wrap(err, "dataset: parse adjustments")
	}
	for i, m := range adj.Merges {
		if m.From == "" || m.Into == "" {
			return nil, eris.Errorf("dataset: adjustments merge %d needs both from and into", i)
		}
		if m.From == m.Into {
			return nil, eris.Errorf("dataset: adjustments merge %d folds %s into itself", i, m.From)
		}
	}
	return &adj, nil
}

// Apply runs density filling first, then each merge in order.
func (a *Adjustments) Apply(t *Table) (*Table, error) {
	out := t
	var err error
	if a.FillDensity {
		if out, err = out.FillDensity(); err != nil {
			return nil, err
		}
	}
	for _, m := range a.Merges {
		if out, err = out.MergeTerritory(m.From, m.Into); err != nil {
			return nil, err
		}
		zap.L().Info("dataset: merged territory", zap.String("from", m.From), zap.String("into", m.Into))
	}
	return out, nil
}

// FillDensity returns a new Table where records with no density but a
// positive area get density = latest-year population / area.
func (t *Table) FillDensity() (*Table, error) {
	latest, ok := t.LatestYear()
	if !ok {
		return t, nil
	}

	records := t.Records()
	filled := 0
	for i := range records {
		r := &records[i]
		if r.Density != nil {
			continue
		}
		if d, ok := densityOf(*r, latest); ok {
			r.Density = &d
			filled++
		}
	}
	if filled > 0 {
		zap.L().Debug("dataset: filled missing density", zap.Int("records", filled), zap.Int("year", latest))
	}
	return NewTable(records)
}

// MergeTerritory returns a new Table in which the record coded from is summed
// into the record coded into (population per year and area) and then dropped.
// The merged density is recomputed from the summed figures.
func (t *Table) MergeTerritory(from, into string) (*Table, error) {
	src, ok := t.LookupCode(from)
	if !ok {
		return nil, eris.Errorf("dataset: merge source %q not found", from)
	}
	if _, ok := t.LookupCode(into); !ok {
		return nil, eris.Errorf("dataset: merge target %q not found", into)
	}

	latest, _ := t.LatestYear()
	records := make([]model.CountryRecord, 0, t.Len()-1)
	for _, r := range t.Records() {
		switch r.Code {
		case from:
			continue
		case into:
			for y, v := range src.Population {
				r.Population[y] += v
			}
			if src.Area != nil {
				area := *src.Area
				if r.Area != nil {
					area += *r.Area
				}
				r.Area = &area
			}
			if d, ok := densityOf(r, latest); ok {
				r.Density = &d
			}
		}
		records = append(records, r)
	}
	return NewTable(records)
}

func densityOf(r model.CountryRecord, year int) (float64, bool) {
	pop, ok := r.PopulationIn(year)
	if !ok || r.Area == nil || *r.Area <= 0 {
		return 0, false
	}
	return float64(pop) / *r.Area, true
}

// LogDensity returns log10(density+1), the scale used by the density
// choropleth. ok is false when the record has no usable (finite, non-negative)
// density.
func LogDensity(r model.CountryRecord) (float64, bool) {
	if r.Density == nil || *r.Density < 0 || math.IsInf(*r.Density, 0) || math.IsNaN(*r.Density) {
		return 0, false
	}
	return math.Log10(*r.Density + 1), true
}
