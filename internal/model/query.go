package model

// Bounds represents the active map viewport bounds
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Valid reports whether the bounds describe a non-degenerate region.
func (b Bounds) Valid() bool {
	return b.North > b.South && b.East != b.West
}

// QA is one prior question/answer pair carried as conversation context
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Query is the immutable derived form of one user request. It is constructed
// once per incoming message and never mutated afterwards.
type Query struct {
	Text       string
	CategoryID *int
	Bounds     *Bounds
	History    []QA // prior pairs; the prompt builder renders at most the last 2
}

// ChatRequest represents a chat message request
type ChatRequest struct {
	Message    string   `json:"message" binding:"required"`
	Bounds     *Bounds  `json:"bounds,omitempty"`
	CategoryID *int     `json:"category_id,omitempty"`
	Zoom       *float64 `json:"zoom,omitempty"`
	Datasets   []string `json:"datasets,omitempty"` // enabled auxiliary datasets
}

// ChatResponse represents a chat answer response
type ChatResponse struct {
	OK               bool        `json:"ok"`
	Answer           string      `json:"answer,omitempty"`
	Rows             []ResultRow `json:"rows,omitempty"`
	DetectedCategory *int        `json:"detected_category,omitempty"`
	Refined          bool        `json:"refined"`
	NoMatch          bool        `json:"no_match,omitempty"`
	Reset            bool        `json:"reset,omitempty"`
	Error            string      `json:"error,omitempty"`
	Took             int64       `json:"took_ms"`
}

// ViewportRequest represents a map viewport change notification
type ViewportRequest struct {
	Zoom   float64 `json:"zoom" binding:"required"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// ViewportResponse reports whether the viewport change reset active refinements
type ViewportResponse struct {
	OK    bool        `json:"ok"`
	Reset bool        `json:"reset"`
	Rows  []ResultRow `json:"rows,omitempty"`
}

// MapFeature is the flattened row shape handed to the map layer
type MapFeature struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Location string  `json:"location"`
	PlaceID  string  `json:"place_id,omitempty"`
	Category string  `json:"category,omitempty"`
	Grade    float64 `json:"grade,omitempty"`
}

// FeedbackRequest represents user feedback on an answered query
type FeedbackRequest struct {
	SearchID string `json:"search_id" binding:"required"`
	PlaceID  string `json:"place_id" binding:"required"`
	Action   string `json:"action" binding:"required"` // click, focus, dismiss
}

// FeedbackResponse represents feedback response
type FeedbackResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
