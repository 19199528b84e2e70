package model

// RankEntry is one position of a descending population ranking.
type RankEntry struct {
	Name       string `json:"name" yaml:"name" csv:"name"`
	Population int64  `json:"population" yaml:"population" csv:"population"`
}

// AggregateResult bundles the world total, continent totals, and top-N
// ranking for one year.
type AggregateResult struct {
	Year        int              `json:"year" yaml:"year"`
	WorldTotal  int64            `json:"world_total" yaml:"world_total"`
	ByContinent map[string]int64 `json:"by_continent" yaml:"by_continent"`
	Top         []RankEntry      `json:"top" yaml:"top"`
}
