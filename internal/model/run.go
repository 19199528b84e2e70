package model

import "time"

// Run is a persisted record of one analysis invocation.
type Run struct {
	ID         string     `json:"id" yaml:"id"`
	Dataset    string     `json:"dataset" yaml:"dataset"`
	Country    string     `json:"country" yaml:"country"`
	Year       int        `json:"year" yaml:"year"`
	TargetYear int        `json:"target_year" yaml:"target_year"`
	Result     *RunResult `json:"result,omitempty" yaml:"result,omitempty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
}

// RunResult holds the outputs of a report run.
type RunResult struct {
	Aggregate  *AggregateResult `json:"aggregate,omitempty" yaml:"aggregate,omitempty"`
	Series     *TrendSeries     `json:"series,omitempty" yaml:"series,omitempty"`
	Projection *Projection      `json:"projection,omitempty" yaml:"projection,omitempty"`
	Charts     []string         `json:"charts,omitempty" yaml:"charts,omitempty"`
}
