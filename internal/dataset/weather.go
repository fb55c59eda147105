package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"geochat/internal/model"
)

// WeatherClient samples current weather from the Open-Meteo API on a small
// grid across the viewport
type WeatherClient struct {
	baseURL    string
	httpClient *http.Client
	cap        int
}

type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Temperature float64 `json:"temperature_2m"`
		WindSpeed   float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

// gridSize is the sampling resolution per axis; a 3x3 grid keeps the request
// count small while still capturing variation across a city-scale viewport.
const gridSize = 3

// Fetch samples current weather across the bounds, capped at the dataset's
// declared item cap.
func (c *WeatherClient) Fetch(ctx context.Context, bounds model.Bounds) ([]model.WeatherPoint, error) {
	points := make([]model.WeatherPoint, 0, gridSize*gridSize)

	latStep := (bounds.North - bounds.South) / float64(gridSize+1)
	lonStep := (bounds.East - bounds.West) / float64(gridSize+1)

	for i := 1; i <= gridSize; i++ {
		for j := 1; j <= gridSize; j++ {
			if len(points) >= c.cap {
				return points, nil
			}
			lat := bounds.South + float64(i)*latStep
			lon := bounds.West + float64(j)*lonStep

			point, err := c.fetchPoint(ctx, lat, lon)
			if err != nil {
				return points, err
			}
			points = append(points, point)
		}
	}

	return points, nil
}

func (c *WeatherClient) fetchPoint(ctx context.Context, lat, lon float64) (model.WeatherPoint, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", lat))
	params.Set("longitude", fmt.Sprintf("%.4f", lon))
	params.Set("current", "temperature_2m,wind_speed_10m")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.WeatherPoint{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.WeatherPoint{}, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.WeatherPoint{}, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.WeatherPoint{}, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed openMeteoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return model.WeatherPoint{}, fmt.Errorf("failed to parse weather response: %w", err)
	}

	return model.WeatherPoint{
		Latitude:    parsed.Latitude,
		Longitude:   parsed.Longitude,
		Temperature: parsed.Current.Temperature,
		WindSpeed:   parsed.Current.WindSpeed,
	}, nil
}
