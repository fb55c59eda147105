package dataset

import (
	"context"
	"log"
	"net/http"
	"time"

	"geochat/internal/config"
	"geochat/internal/model"
)

// Registry owns the auxiliary dataset fetchers. Each dataset declares an item
// cap. Fetch failures degrade to an empty collection and are logged, never
// fatal; auxiliary data is always best-effort.
type Registry struct {
	weather    *WeatherClient
	transport  *TransportClient
	vegetation *VegetationClient
}

// NewRegistry builds the fetchers from configuration
func NewRegistry(cfg *config.DatasetConfig) *Registry {
	httpClient := &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	return &Registry{
		weather:    &WeatherClient{baseURL: cfg.OpenMeteoURL, httpClient: httpClient, cap: cfg.WeatherCap},
		transport:  &TransportClient{baseURL: cfg.OverpassURL, httpClient: httpClient, cap: cfg.TransportCap},
		vegetation: &VegetationClient{baseURL: cfg.TreeWFSURL, httpClient: httpClient, cap: cfg.VegetationCap},
	}
}

// FetchEnabled fetches every enabled dataset for the given bounds. The
// returned Datasets uses nil slices for datasets that were not enabled and
// empty slices for enabled datasets that returned nothing.
func (r *Registry) FetchEnabled(ctx context.Context, enabled []string, bounds model.Bounds) model.Datasets {
	var out model.Datasets
	for _, name := range enabled {
		switch name {
		case model.DatasetWeather:
			points, err := r.weather.Fetch(ctx, bounds)
			if err != nil {
				log.Printf("Warning: weather fetch failed: %v", err)
				points = []model.WeatherPoint{}
			}
			out.Weather = points
		case model.DatasetTransport:
			stations, err := r.transport.Fetch(ctx, bounds)
			if err != nil {
				log.Printf("Warning: transport fetch failed: %v", err)
				stations = []model.TransportStation{}
			}
			out.Transport = stations
		case model.DatasetVegetation:
			trees, err := r.vegetation.Fetch(ctx, bounds)
			if err != nil {
				log.Printf("Warning: vegetation fetch failed: %v", err)
				trees = []model.VegetationRecord{}
			}
			out.Vegetation = trees
		default:
			log.Printf("Warning: unknown dataset %q requested, skipping", name)
		}
	}
	return out
}
