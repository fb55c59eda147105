package repository

import (
	"context"
	"fmt"

	"geochat/internal/config"
	"geochat/internal/model"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphExecutor submits a validated read-only statement to the graph store
// and returns the mapped rows
type GraphExecutor interface {
	Execute(ctx context.Context, statement string) ([]model.ResultRow, error)
	Close(ctx context.Context) error
}

// Neo4jRepository executes Cypher against a Neo4j instance
type Neo4jRepository struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ GraphExecutor = (*Neo4jRepository)(nil)

// NewNeo4jRepository connects to Neo4j and verifies connectivity
func NewNeo4jRepository(ctx context.Context, cfg *config.Neo4jConfig) (*Neo4jRepository, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	return &Neo4jRepository{driver: driver, database: cfg.Database}, nil
}

// Close closes the underlying driver
func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Execute runs a statement in a read session and maps the records into
// ResultRows. Statements reach this point only after passing the safety
// validator.
func (r *Neo4jRepository) Execute(ctx context.Context, statement string) ([]model.ResultRow, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: r.database,
	})
	defer session.Close(ctx)

	result, err := session.Run(ctx, statement, nil)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect records: %w", err)
	}

	return mapRecords(records), nil
}

// mapRecords folds raw records into one ResultRow per place. Multiple records
// for the same place (one per grade or comment) are merged; first-seen order
// is preserved.
func mapRecords(records []*neo4j.Record) []model.ResultRow {
	index := map[string]int{}
	var rows []model.ResultRow

	for _, record := range records {
		place, ok := extractPlace(record)
		if !ok {
			continue
		}

		i, seen := index[place.PlaceID]
		if !seen {
			rows = append(rows, model.ResultRow{Place: place})
			i = len(rows) - 1
			index[place.PlaceID] = i
		}

		if cg, ok := extractCategoryGrade(record); ok && !rows[i].HasCategory(cg.CategoryID) {
			rows[i].Categories = append(rows[i].Categories, cg)
		}

		for _, comment := range extractComments(record) {
			if !containsString(rows[i].Comments, comment) {
				rows[i].Comments = append(rows[i].Comments, comment)
			}
		}
	}

	return rows
}

func extractPlace(record *neo4j.Record) (model.Place, bool) {
	v, ok := record.Get("p")
	if !ok {
		return model.Place{}, false
	}
	node, ok := v.(neo4j.Node)
	if !ok {
		return model.Place{}, false
	}

	place := model.Place{
		PlaceID:   asString(node.Props["place_id"]),
		Location:  asString(node.Props["location"]),
		Latitude:  asFloat(node.Props["latitude"]),
		Longitude: asFloat(node.Props["longitude"]),
	}
	if place.PlaceID == "" {
		place.PlaceID = fmt.Sprintf("node-%s", node.ElementId)
	}

	extra := map[string]any{}
	for k, val := range node.Props {
		switch k {
		case "place_id", "location", "latitude", "longitude":
		default:
			extra[k] = val
		}
	}
	if len(extra) > 0 {
		place.Extra = extra
	}

	return place, true
}

func extractCategoryGrade(record *neo4j.Record) (model.CategoryGrade, bool) {
	cg := model.CategoryGrade{}
	found := false

	if v, ok := record.Get("pg"); ok {
		if node, ok := v.(neo4j.Node); ok {
			cg.Grade = asFloat(node.Props["grade"])
			found = true
		}
	}
	if v, ok := record.Get("c"); ok {
		if node, ok := v.(neo4j.Node); ok {
			cg.CategoryID = int(asFloat(node.Props["category_id"]))
			cg.Description = asString(node.Props["description"])
			found = true
		}
	}

	return cg, found
}

func extractComments(record *neo4j.Record) []string {
	var comments []string

	if v, ok := record.Get("comments"); ok {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				if s := asString(item); s != "" {
					comments = append(comments, s)
				}
			}
		}
	}

	if v, ok := record.Get("cm"); ok {
		if node, ok := v.(neo4j.Node); ok {
			if s := asString(node.Props["text"]); s != "" {
				comments = append(comments, s)
			}
		}
	}

	return comments
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
