package model

// Auxiliary dataset names as used in requests and configuration
const (
	DatasetWeather    = "weather"
	DatasetTransport  = "transport"
	DatasetVegetation = "vegetation"
)

// WeatherPoint is one sampled weather observation inside the viewport
type WeatherPoint struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperature"` // °C
	WindSpeed   float64 `json:"wind_speed"`  // km/h
}

// TransportStation is one public transport stop or station
type TransportStation struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"` // station, tram_stop, bus_stop, ...
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VegetationRecord is one tree from the city tree cadastre
type VegetationRecord struct {
	ID        string  `json:"id"`
	Species   string  `json:"species"`
	Height    float64 `json:"height"` // metres
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Datasets bundles the fetched auxiliary collections for one request.
// Collections are consumed read-only; a nil slice means the dataset was not
// enabled, an empty slice means it was enabled but returned nothing.
type Datasets struct {
	Weather    []WeatherPoint
	Transport  []TransportStation
	Vegetation []VegetationRecord
}

// Empty reports whether no auxiliary data was fetched at all.
func (d Datasets) Empty() bool {
	return d.Weather == nil && d.Transport == nil && d.Vegetation == nil
}
