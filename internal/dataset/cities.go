package dataset

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/worldpop-cli/internal/model"
)

var majorCities = []model.City{
	{Name: "Tokyo", Country: "Japan", Latitude: 35.6762, Longitude: 139.6503, PopulationMillions: 37.4},
	{Name: "Delhi", Country: "India", Latitude: 28.7041, Longitude: 77.1025, PopulationMillions: 32.9},
	{Name: "Shanghai", Country: "China", Latitude: 31.2304, Longitude: 121.4737, PopulationMillions: 28.5},
	{Name: "São Paulo", Country: "Brazil", Latitude: -23.5505, Longitude: -46.6333, PopulationMillions: 22.6},
	{Name: "Mumbai", Country: "India", Latitude: 19.0760, Longitude: 72.8777, PopulationMillions: 20.7},
	{Name: "Beijing", Country: "China", Latitude: 39.9042, Longitude: 116.4074, PopulationMillions: 20.5},
	{Name: "Cairo", Country: "Egypt", Latitude: 30.0444, Longitude: 31.2357, PopulationMillions: 21.3},
	{Name: "Dhaka", Country: "Bangladesh", Latitude: 23.8103, Longitude: 90.4125, PopulationMillions: 22.0},
	{Name: "Mexico City", Country: "Mexico", Latitude: 19.4326, Longitude: -99.1332, PopulationMillions: 21.9},
	{Name: "Osaka", Country: "Japan", Latitude: 34.6937, Longitude: 135.5023, PopulationMillions: 19.1},
	{Name: "Karachi", Country: "Pakistan", Latitude: 24.8607, Longitude: 67.0011, PopulationMillions: 16.8},
	{Name: "Chongqing", Country: "China", Latitude: 29.4316, Longitude: 106.9123, PopulationMillions: 16.4},
	{Name: "Istanbul", Country: "Turkey", Latitude: 41.0082, Longitude: 28.9784, PopulationMillions: 15.6},
	{Name: "Buenos Aires", Country: "Argentina", Latitude: -34.6037, Longitude: -58.3816, PopulationMillions: 15.4},
	{Name: "Kolkata", Country: "India", Latitude: 22.5726, Longitude: 88.3639, PopulationMillions: 15.1},
	{Name: "Lagos", Country: "Nigeria", Latitude: 6.5244, Longitude: 3.3792, PopulationMillions: 14.9},
	{Name: "Manila", Country: "Philippines", Latitude: 14.5995, Longitude: 120.9842, PopulationMillions: 14.4},
	{Name: "Rio de Janeiro", Country: "Brazil", Latitude: -22.9068, Longitude: -43.1729, PopulationMillions: 13.7},
	{Name: "Guangzhou", Country: "China", Latitude: 23.1291, Longitude: 113.2644, PopulationMillions: 13.6},
	{Name: "Los Angeles", Country: "USA", Latitude: 34.0522, Longitude: -118.2437, PopulationMillions: 13.2},
	{Name: "Moscow", Country: "Russia", Latitude: 55.7558, Longitude: 37.6173, PopulationMillions: 12.6},
	{Name: "Paris", Country: "France", Latitude: 48.8566, Longitude: 2.3522, PopulationMillions: 11.2},
	{Name: "Bangkok", Country: "Thailand", Latitude: 13.7563, Longitude: 100.5018, PopulationMillions: 10.9},
	{Name: "Jakarta", Country: "Indonesia", Latitude: -6.2088, Longitude: 106.8456, PopulationMillions: 10.8},
	{Name: "London", Country: "UK", Latitude: 51.5074, Longitude: -0.1278, PopulationMillions: 9.5},
	{Name: "Lima", Country: "Peru", Latitude: -12.0464, Longitude: -77.0428, PopulationMillions: 11.2},
	{Name: "Seoul", Country: "South Korea", Latitude: 37.5665, Longitude: 126.9780, PopulationMillions: 9.9},
	{Name: "Bogotá", Country: "Colombia", Latitude: 4.7110, Longitude: -74.0721, PopulationMillions: 11.3},
	{Name: "Chennai", Country: "India", Latitude: 13.0827, Longitude: 80.2707, PopulationMillions: 11.5},
	{Name: "Bangalore", Country: "India", Latitude: 12.9716, Longitude: 77.5946, PopulationMillions: 12.8},
}

// MajorCities returns a copy of the built-in list of the world's largest
// urban areas.
func MajorCities() []model.City {
	return append([]model.City(nil), majorCities...)
}

// LoadCities reads a city list from a YAML file of the form
// `cities: [{name, country, latitude, longitude, population_millions}]`.
func LoadCities(path string) ([]model.City, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read cities %s", path)
	}

	var doc struct {
		Cities []model.City `yaml:"cities"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "dataset: parse cities")
	}
	if len(doc.Cities) == 0 {
		return nil, eris.Errorf("dataset: cities file %s lists no cities", path)
	}
	for i, c := range doc.Cities {
		if err := validateCity(c); err != nil {
			return nil, eris.Wrapf(err, "dataset: city %d", i)
		}
	}
	return doc.Cities, nil
}

func validateCity(c model.City) error {
	switch {
	case c.Name == "":
		return eris.New("name is required")
	case c.Latitude < -90 || c.Latitude > 90:
		return eris.Errorf("%s: latitude %v out of range", c.Name, c.Latitude)
	case c.Longitude < -180 || c.Longitude > 180:
		return eris.Errorf("%s: longitude %v out of range", c.Name, c.Longitude)
	case c.PopulationMillions < 0:
		return eris.Errorf("%s: negative population", c.Name)
	}
	return nil
}
