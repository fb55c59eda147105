package service

import (
	"errors"
	"testing"
)

func TestValidateCypher_AcceptsReadOnly(t *testing.T) {
	tests := []struct {
		name string
		stmt string
	}{
		{
			name: "simple match",
			stmt: "MATCH (p:Place) RETURN p",
		},
		{
			name: "full path with optional comments",
			stmt: "MATCH (p:Place)-[:HAS_GRADE]->(pg:PlaceGrade)-[:BELONGS_TO]->(c:Category) OPTIONAL MATCH (p)-[:HAS_COMMENT]->(cm:Comment) RETURN p, pg, c, collect(cm.text) AS comments",
		},
		{
			name: "keyword inside identifier",
			stmt: "MATCH (p:Place) WHERE p.location CONTAINS 'Sunset Deli' RETURN p.offset_id",
		},
		{
			name: "keyword inside property name",
			stmt: "MATCH (p:Place) RETURN p.dataset_name, p.merged_from",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateCypher(tt.stmt); err != nil {
				t.Errorf("Expected statement to pass validation, got %v", err)
			}
		})
	}
}

func TestValidateCypher_RejectsDestructive(t *testing.T) {
	tests := []struct {
		name string
		stmt string
	}{
		{
			name: "delete",
			stmt: "MATCH (p:Place) DELETE p",
		},
		{
			name: "lowercase delete",
			stmt: "match (p:Place) delete p",
		},
		{
			name: "mixed case detach",
			stmt: "MATCH (p:Place) Detach Delete p",
		},
		{
			name: "create",
			stmt: "CREATE (p:Place {location: 'x'})",
		},
		{
			name: "set",
			stmt: "MATCH (p:Place) SET p.location = 'y' RETURN p",
		},
		{
			name: "remove",
			stmt: "MATCH (p:Place) REMOVE p.location",
		},
		{
			name: "merge",
			stmt: "MERGE (p:Place {place_id: '1'})",
		},
		{
			name: "drop",
			stmt: "DROP INDEX place_location",
		},
		{
			name: "empty statement",
			stmt: "",
		},
		{
			name: "whitespace only",
			stmt: "   \n\t  ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCypher(tt.stmt)
			if err == nil {
				t.Fatal("Expected validation to reject statement")
			}
			if !errors.Is(err, ErrValidationRejected) {
				t.Errorf("Expected ErrValidationRejected, got %v", err)
			}
		})
	}
}
