package filter

import "testing"

func TestState_RefineNarrowsAndStacks(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 14)

	rows, ok := s.Refine(Criteria{MinGrade: floatPtr(70)})
	if !ok {
		t.Fatal("Expected refinement to succeed")
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows after first refinement, got %d", len(rows))
	}

	rows, ok = s.Refine(Criteria{TopN: intPtr(1)})
	if !ok {
		t.Fatal("Expected second refinement to succeed")
	}
	if len(rows) != 1 || rows[0].Place.PlaceID != "a" {
		t.Fatalf("Expected the best row to remain, got %v", rows)
	}

	if len(s.Stack) != 2 {
		t.Errorf("Expected 2 stacked criteria, got %d", len(s.Stack))
	}
	if len(s.Baseline) != 5 {
		t.Errorf("Expected the baseline to stay untouched, got %d rows", len(s.Baseline))
	}
}

func TestState_RefineRejectsEmptyResult(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 14)
	s.Refine(Criteria{MinGrade: floatPtr(70)})

	before := len(s.Displayed)
	_, ok := s.Refine(Criteria{Location: "Seestadt"})
	if ok {
		t.Fatal("Expected refinement with no matches to be rejected")
	}
	if len(s.Displayed) != before {
		t.Error("Expected displayed rows to survive a rejected refinement")
	}
	if len(s.Stack) != 1 {
		t.Errorf("Expected rejected criteria to stay off the stack, got %d entries", len(s.Stack))
	}
}

func TestState_RefineWithoutBaseline(t *testing.T) {
	var s State
	if _, ok := s.Refine(Criteria{MinGrade: floatPtr(50)}); ok {
		t.Error("Expected refinement without a baseline to fail")
	}
}

func TestState_ReplayMatchesDisplayed(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 14)
	s.Refine(Criteria{Location: "Ottakring"})
	s.Refine(Criteria{MinGrade: floatPtr(80)})

	replayed := s.Replay()
	if len(replayed) != len(s.Displayed) {
		t.Fatalf("Replay produced %d rows, displayed has %d", len(replayed), len(s.Displayed))
	}
	for i := range replayed {
		if replayed[i].Place.PlaceID != s.Displayed[i].Place.PlaceID {
			t.Errorf("replay[%d] = %q, displayed[%d] = %q",
				i, replayed[i].Place.PlaceID, i, s.Displayed[i].Place.PlaceID)
		}
	}
}

func TestState_CheckZoomReset(t *testing.T) {
	tests := []struct {
		name      string
		zoom      float64
		wantReset bool
	}{
		{"same zoom", 12, false},
		{"small change stays", 12 * 1.2, false},
		{"exact threshold stays", 15, false}, // 25% of 12 is 3
		{"zoom in past threshold resets", 16, true},
		{"zoom out past threshold resets", 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			s.SetBaseline(testRows(), 12)
			s.Refine(Criteria{MinGrade: floatPtr(70)})

			got := s.CheckZoomReset(tt.zoom)
			if got != tt.wantReset {
				t.Fatalf("CheckZoomReset(%f) = %v, want %v", tt.zoom, got, tt.wantReset)
			}

			if tt.wantReset {
				if len(s.Stack) != 0 {
					t.Error("Expected the stack to be cleared on reset")
				}
				if len(s.Displayed) != len(s.Baseline) {
					t.Error("Expected displayed rows to fall back to the baseline")
				}
				if !s.HasBaseline {
					t.Error("Expected the baseline itself to survive the reset")
				}
			} else if len(s.Stack) != 1 {
				t.Error("Expected the stack to survive below the threshold")
			}
		})
	}
}

func TestState_CheckZoomResetWithoutRefinements(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 12)

	if s.CheckZoomReset(20) {
		t.Error("Expected no reset when nothing is refined")
	}
}

func TestState_DropRefinements(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 12)
	s.Refine(Criteria{MinGrade: floatPtr(70)})
	s.Refine(Criteria{TopN: intPtr(1)})

	s.DropRefinements()
	if len(s.Stack) != 0 {
		t.Error("Expected an empty stack")
	}
	if len(s.Displayed) != len(s.Baseline) {
		t.Error("Expected the baseline rows back")
	}
	if !s.HasBaseline {
		t.Error("Expected the baseline to survive")
	}
}

func TestState_Reset(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 12)
	s.Refine(Criteria{MinGrade: floatPtr(70)})

	s.Reset()
	if s.HasBaseline || s.Baseline != nil || s.Displayed != nil || s.Stack != nil {
		t.Errorf("Expected a cleared state, got %+v", s)
	}
}

func TestState_NewBaselineClearsStack(t *testing.T) {
	var s State
	s.SetBaseline(testRows(), 12)
	s.Refine(Criteria{MinGrade: floatPtr(70)})

	s.SetBaseline(testRows()[:2], 13)
	if len(s.Stack) != 0 {
		t.Error("Expected a new baseline to clear the refinement stack")
	}
	if len(s.Displayed) != 2 {
		t.Errorf("Expected the new baseline to be displayed, got %d rows", len(s.Displayed))
	}
}
