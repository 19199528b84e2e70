// Package store persists analysis runs and imported population facts in
// SQLite or Postgres.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/worldpop-cli/internal/dataset"
	"github.com/sells-group/worldpop-cli/internal/model"
)

// ErrNotFound is returned when a run ID has no row.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Dataset string `json:"dataset,omitempty"`
	Country string `json:"country,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface.
type Store interface {
	// Runs
	SaveRun(ctx context.Context, run model.Run) (*model.Run, error)
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Facts
	ImportFacts(ctx context.Context, datasetName string, t *dataset.Table) (int64, error)
	CountFacts(ctx context.Context, datasetName string) (int64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

// Fact is one (country, year) population observation of an imported dataset.
type Fact struct {
	Dataset    string
	Country    string
	Code       string
	Continent  string
	Year       int
	Population int64
}

// Facts flattens t into one Fact per present population value, ordered by
// country load order then year.
func Facts(datasetName string, t *dataset.Table) []Fact {
	var out []Fact
	t.Each(func(r model.CountryRecord) {
		for _, y := range r.Years() {
			out = append(out, Fact{
				Dataset:    datasetName,
				Country:    r.Name,
				Code:       r.Code,
				Continent:  r.Continent,
				Year:       y,
				Population: r.Population[y],
			})
		}
	})
	return out
}

// prepareRun assigns an ID and creation time where the caller left them
// empty.
func prepareRun(run model.Run) (model.Run, error) {
	if run.Dataset == "" {
		return run, eris.New("store: run has no dataset")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	return run, nil
}
