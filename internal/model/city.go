package model

// City is one point of the major-cities map layer.
type City struct {
	Name               string  `json:"name" yaml:"name"`
	Country            string  `json:"country" yaml:"country"`
	Latitude           float64 `json:"latitude" yaml:"latitude"`
	Longitude          float64 `json:"longitude" yaml:"longitude"`
	PopulationMillions float64 `json:"population_millions" yaml:"population_millions"`
}
