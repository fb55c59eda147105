package filter

import (
	"sort"
	"strings"

	"geochat/internal/model"
)

// Criteria is one parsed refinement step. Zero-value fields are inactive; a
// single user message may set several at once ("best 5 in Soho").
type Criteria struct {
	Location     string   `json:"location,omitempty"`
	MinGrade     *float64 `json:"min_grade,omitempty"`
	MinExclusive bool     `json:"min_exclusive,omitempty"`
	MaxGrade     *float64 `json:"max_grade,omitempty"`
	MaxExclusive bool     `json:"max_exclusive,omitempty"`
	TopN         *int     `json:"top_n,omitempty"`
}

// Empty reports whether no criterion is active
func (c Criteria) Empty() bool {
	return c.Location == "" && c.MinGrade == nil && c.MaxGrade == nil && c.TopN == nil
}

// Apply narrows rows without mutating the input. Filters run in a fixed
// order: location match, grade bounds, then top-N truncation on the sorted
// remainder.
func (c Criteria) Apply(rows []model.ResultRow) []model.ResultRow {
	out := make([]model.ResultRow, 0, len(rows))
	for _, row := range rows {
		if c.Location != "" && !matchLocation(row, c.Location) {
			continue
		}
		if !c.matchGrade(row.Grade()) {
			continue
		}
		out = append(out, row)
	}

	if c.TopN != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Grade() > out[j].Grade()
		})
		if len(out) > *c.TopN {
			out = out[:*c.TopN]
		}
	}

	return out
}

func (c Criteria) matchGrade(grade float64) bool {
	if c.MinGrade != nil {
		if c.MinExclusive {
			if grade <= *c.MinGrade {
				return false
			}
		} else if grade < *c.MinGrade {
			return false
		}
	}
	if c.MaxGrade != nil {
		if c.MaxExclusive {
			if grade >= *c.MaxGrade {
				return false
			}
		} else if grade > *c.MaxGrade {
			return false
		}
	}
	return true
}

func matchLocation(row model.ResultRow, location string) bool {
	return strings.Contains(strings.ToLower(row.Place.Location), strings.ToLower(location))
}
