package filter

import (
	"math"

	"geochat/internal/model"
)

// zoomResetThreshold is the relative zoom change beyond which accumulated
// refinements no longer describe what the user is looking at
const zoomResetThreshold = 0.25

// State tracks progressive refinement for one session. The baseline is the
// last full query result; refinements stack on top of it and only ever
// narrow what is displayed.
type State struct {
	Baseline     []model.ResultRow
	Displayed    []model.ResultRow
	Stack        []Criteria
	BaselineZoom float64
	HasBaseline  bool
}

// SetBaseline installs a fresh query result and clears any refinement stack
func (s *State) SetBaseline(rows []model.ResultRow, zoom float64) {
	s.Baseline = rows
	s.Displayed = rows
	s.Stack = nil
	s.BaselineZoom = zoom
	s.HasBaseline = true
}

// Refine narrows the displayed set with one more criteria step. A step that
// would leave nothing is rejected: the state stays untouched and ok is
// false, so the caller can tell the user instead of stranding them on an
// empty map.
func (s *State) Refine(c Criteria) ([]model.ResultRow, bool) {
	if !s.HasBaseline {
		return nil, false
	}

	narrowed := c.Apply(s.Displayed)
	if len(narrowed) == 0 {
		return nil, false
	}

	s.Stack = append(s.Stack, c)
	s.Displayed = narrowed
	return narrowed, true
}

// CheckZoomReset drops the refinement stack when the viewport zoom drifts
// more than the threshold away from where the baseline was established. The
// baseline itself survives; only the narrowing is undone.
func (s *State) CheckZoomReset(zoom float64) bool {
	if !s.HasBaseline || s.BaselineZoom == 0 || len(s.Stack) == 0 {
		return false
	}
	delta := math.Abs(zoom-s.BaselineZoom) / s.BaselineZoom
	if delta <= zoomResetThreshold {
		return false
	}
	s.DropRefinements()
	return true
}

// DropRefinements clears the stack back to the baseline. The baseline itself
// survives.
func (s *State) DropRefinements() {
	s.Stack = nil
	s.Displayed = s.Baseline
}

// Reset clears the whole state, baseline included
func (s *State) Reset() {
	*s = State{}
}

// Replay recomputes the displayed set by applying the stack to the baseline
// from scratch. The result always equals Displayed; it exists so that the
// stack stays the single source of truth for what is shown.
func (s *State) Replay() []model.ResultRow {
	rows := s.Baseline
	for _, c := range s.Stack {
		rows = c.Apply(rows)
	}
	return rows
}
