package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"geochat/internal/model"
)

// VegetationClient fetches trees from the city tree cadastre WFS endpoint
type VegetationClient struct {
	baseURL    string
	httpClient *http.Client
	cap        int
}

type wfsFeatureCollection struct {
	Features []struct {
		ID       string `json:"id"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// Fetch retrieves trees inside the bounds, capped at the dataset's declared
// item cap. The WFS bbox parameter uses west,south,east,north order.
func (c *VegetationClient) Fetch(ctx context.Context, bounds model.Bounds) ([]model.VegetationRecord, error) {
	endpoint := fmt.Sprintf("%s&bbox=%f,%f,%f,%f,EPSG:4326&maxFeatures=%d",
		c.baseURL, bounds.West, bounds.South, bounds.East, bounds.North, c.cap)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tree cadastre: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tree cadastre returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed wfsFeatureCollection
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tree cadastre response: %w", err)
	}

	trees := make([]model.VegetationRecord, 0, len(parsed.Features))
	for _, f := range parsed.Features {
		if len(trees) >= c.cap {
			break
		}
		record := model.VegetationRecord{
			ID:      f.ID,
			Species: propAsString(f.Properties, "GATTUNG_ART"),
			Height:  propAsFloat(f.Properties, "BAUMHOEHE"),
		}
		if len(f.Geometry.Coordinates) >= 2 {
			record.Longitude = f.Geometry.Coordinates[0]
			record.Latitude = f.Geometry.Coordinates[1]
		}
		trees = append(trees, record)
	}

	return trees, nil
}

func propAsString(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

func propAsFloat(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
