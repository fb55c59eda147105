package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"geochat/internal/model"
)

// TransportClient fetches public transport stations from the Overpass API
type TransportClient struct {
	baseURL    string
	httpClient *http.Client
	cap        int
}

type overpassResponse struct {
	Elements []struct {
		ID   int64             `json:"id"`
		Lat  float64           `json:"lat"`
		Lon  float64           `json:"lon"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// Fetch queries stations, tram stops and bus stops inside the bounds
func (c *TransportClient) Fetch(ctx context.Context, bounds model.Bounds) ([]model.TransportStation, error) {
	bbox := fmt.Sprintf("%f,%f,%f,%f", bounds.South, bounds.West, bounds.North, bounds.East)
	query := fmt.Sprintf(`[out:json][timeout:15];
(
  node["railway"="station"](%s);
  node["railway"="tram_stop"](%s);
  node["highway"="bus_stop"](%s);
);
out body %d;`, bbox, bbox, bbox, c.cap)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transport data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Overpass API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse Overpass response: %w", err)
	}

	stations := make([]model.TransportStation, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		if len(stations) >= c.cap {
			break
		}
		stations = append(stations, model.TransportStation{
			Name:      el.Tags["name"],
			Type:      stationType(el.Tags),
			Latitude:  el.Lat,
			Longitude: el.Lon,
		})
	}

	return stations, nil
}

func stationType(tags map[string]string) string {
	switch {
	case tags["railway"] == "station":
		return "station"
	case tags["railway"] == "tram_stop":
		return "tram_stop"
	case tags["highway"] == "bus_stop":
		return "bus_stop"
	}
	return "other"
}
