package repository

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func placeNode(placeID, location string, lat, lon float64) neo4j.Node {
	return neo4j.Node{
		ElementId: "el-" + placeID,
		Labels:    []string{"Place"},
		Props: map[string]any{
			"place_id":  placeID,
			"location":  location,
			"latitude":  lat,
			"longitude": lon,
		},
	}
}

func gradeNode(grade float64) neo4j.Node {
	return neo4j.Node{Labels: []string{"PlaceGrade"}, Props: map[string]any{"grade": grade}}
}

func categoryNode(id int64, description string) neo4j.Node {
	return neo4j.Node{
		Labels: []string{"Category"},
		Props:  map[string]any{"category_id": id, "description": description},
	}
}

func record(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestMapRecords_FoldsByPlace(t *testing.T) {
	keys := []string{"p", "pg", "c", "comments"}
	records := []*neo4j.Record{
		record(keys, []any{
			placeNode("a", "Augarten", 48.22, 16.37),
			gradeNode(88),
			categoryNode(1, "park"),
			[]any{"lovely", "shady"},
		}),
		record(keys, []any{
			placeNode("a", "Augarten", 48.22, 16.37),
			gradeNode(72),
			categoryNode(2, "playground"),
			[]any{"lovely"}, // duplicate comment
		}),
		record(keys, []any{
			placeNode("b", "Prater", 48.21, 16.39),
			gradeNode(65),
			categoryNode(1, "park"),
			[]any{},
		}),
	}

	rows := mapRecords(records)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 folded rows, got %d", len(rows))
	}

	a := rows[0]
	if a.Place.PlaceID != "a" || a.Place.Location != "Augarten" {
		t.Fatalf("Unexpected first row: %+v", a.Place)
	}
	if len(a.Categories) != 2 {
		t.Errorf("Expected 2 category grades, got %d", len(a.Categories))
	}
	if a.Grade() != 88 {
		t.Errorf("Expected best grade 88, got %f", a.Grade())
	}
	if len(a.Comments) != 2 {
		t.Errorf("Expected duplicate comments merged, got %v", a.Comments)
	}

	if rows[1].Place.PlaceID != "b" {
		t.Errorf("Expected first-seen order preserved, got %q second", rows[1].Place.PlaceID)
	}
}

func TestMapRecords_CommentNode(t *testing.T) {
	keys := []string{"p", "cm"}
	records := []*neo4j.Record{
		record(keys, []any{
			placeNode("a", "Augarten", 48.22, 16.37),
			neo4j.Node{Labels: []string{"Comment"}, Props: map[string]any{"text": "quiet in the morning"}},
		}),
	}

	rows := mapRecords(records)
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if len(rows[0].Comments) != 1 || rows[0].Comments[0] != "quiet in the morning" {
		t.Errorf("Expected the comment node text, got %v", rows[0].Comments)
	}
}

func TestMapRecords_SkipsRecordsWithoutPlace(t *testing.T) {
	records := []*neo4j.Record{
		record([]string{"x"}, []any{"not a node"}),
		record([]string{"p"}, []any{"still not a node"}),
		record([]string{"p"}, []any{placeNode("a", "Augarten", 48.22, 16.37)}),
	}

	rows := mapRecords(records)
	if len(rows) != 1 {
		t.Fatalf("Expected only the valid record, got %d rows", len(rows))
	}
}

func TestMapRecords_MissingPlaceIDFallsBackToElementID(t *testing.T) {
	node := neo4j.Node{
		ElementId: "4:abc:17",
		Labels:    []string{"Place"},
		Props:     map[string]any{"location": "Unnamed", "latitude": 48.2, "longitude": 16.3},
	}
	rows := mapRecords([]*neo4j.Record{record([]string{"p"}, []any{node})})

	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	if rows[0].Place.PlaceID != "node-4:abc:17" {
		t.Errorf("Expected element-id fallback, got %q", rows[0].Place.PlaceID)
	}
}

func TestMapRecords_ExtraPropertiesPreserved(t *testing.T) {
	node := placeNode("a", "Augarten", 48.22, 16.37)
	node.Props["district"] = "Leopoldstadt"
	node.Props["opened"] = int64(1775)

	rows := mapRecords([]*neo4j.Record{record([]string{"p"}, []any{node})})
	if len(rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rows))
	}
	extra := rows[0].Place.Extra
	if extra["district"] != "Leopoldstadt" || extra["opened"] != int64(1775) {
		t.Errorf("Expected extra properties passed through, got %v", extra)
	}
	if _, ok := extra["place_id"]; ok {
		t.Error("Expected core properties excluded from extras")
	}
}
