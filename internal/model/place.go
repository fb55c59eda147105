package model

// Place represents a single point of interest node from the graph database
type Place struct {
	PlaceID   string         `json:"place_id"`
	Location  string         `json:"location"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Extra     map[string]any `json:"extra,omitempty"` // remaining node properties, passed through untouched
}

// CategoryGrade represents one (category, grade) association of a place
type CategoryGrade struct {
	CategoryID  int     `json:"category_id"`
	Description string  `json:"description,omitempty"`
	Grade       float64 `json:"grade"`
}

// ResultRow is one entity returned by the query executor: a place with its
// category/grade associations and any attached user comments
type ResultRow struct {
	Place      Place           `json:"place"`
	Categories []CategoryGrade `json:"categories,omitempty"`
	Comments   []string        `json:"comments,omitempty"`
}

// Grade returns the row's best grade, or 0 if the row carries no grades.
func (r ResultRow) Grade() float64 {
	best := 0.0
	for _, cg := range r.Categories {
		if cg.Grade > best {
			best = cg.Grade
		}
	}
	return best
}

// HasCategory reports whether the row carries the given category id.
func (r ResultRow) HasCategory(categoryID int) bool {
	for _, cg := range r.Categories {
		if cg.CategoryID == categoryID {
			return true
		}
	}
	return false
}

// ScoredComment is a comment with its relevance score and a back-reference to
// the row it came from (index into the scored collection, not ownership)
type ScoredComment struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	RowIndex int     `json:"row_index"`
	RowGrade float64 `json:"row_grade"`
}
