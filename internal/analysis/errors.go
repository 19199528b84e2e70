// Package analysis implements the population statistics: aggregation over a
// loaded table, per-country trend extraction, and least-squares projection.
// Every function is pure and safe to call concurrently on a shared Table.
package analysis

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Error kinds returned by this package. Callers match them with errors.Is.
var (
	ErrMissingColumn    = eris.New("analysis: requested year column not present")
	ErrCountryNotFound  = eris.New("analysis: country not found")
	ErrEmptySeries      = eris.New("analysis: no population values for the requested years")
	ErrInsufficientData = eris.New("analysis: at least two points are required")
	ErrDegenerateInput  = eris.New("analysis: all points share the same year")
	ErrInvalidArgument  = eris.New("analysis: invalid argument")
)

var kinds = []error{
	ErrMissingColumn,
	ErrCountryNotFound,
	ErrEmptySeries,
	ErrInsufficientData,
	ErrDegenerateInput,
	ErrInvalidArgument,
}

// Kind returns the sentinel err wraps, or nil if it wraps none of them.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
