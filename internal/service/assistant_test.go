package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"geochat/internal/model"
)

// fakeModel returns queued replies in order, one per Complete call
type fakeModel struct {
	replies []any
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeModel) Complete(_ context.Context, _, user string, _ float64) (any, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, user)
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "", nil
}

func (f *fakeModel) IsEnabled() bool { return true }

// fakeGraph records the executed statement and returns canned rows
type fakeGraph struct {
	rows     []model.ResultRow
	err      error
	executed string
}

func (f *fakeGraph) Execute(_ context.Context, statement string) ([]model.ResultRow, error) {
	f.executed = statement
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func (f *fakeGraph) Close(_ context.Context) error { return nil }

func TestAssistant_Answer(t *testing.T) {
	rows := makeRows(3)
	llm := &fakeModel{replies: []any{
		"```cypher\nMATCH (p:Place) RETURN p\n```",
		"Here are three places worth visiting.",
	}}
	graph := &fakeGraph{rows: rows}
	assistant := NewAssistant(llm, graph, nil, nil)

	result, err := assistant.Answer(context.Background(), model.Query{Text: "show me places"}, "sess", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if graph.executed != "MATCH (p:Place) RETURN p" {
		t.Errorf("Expected the fence-stripped statement to be executed, got %q", graph.executed)
	}
	if result.Answer != "Here are three places worth visiting." {
		t.Errorf("Unexpected answer: %q", result.Answer)
	}
	if result.Kind != ResultOK {
		t.Errorf("Expected ResultOK, got %v", result.Kind)
	}
	if len(result.Rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(result.Rows))
	}
	if result.SearchID == "" {
		t.Error("Expected a search ID")
	}
	if llm.calls != 2 {
		t.Errorf("Expected exactly two model calls, got %d", llm.calls)
	}
}

func TestAssistant_RejectsDestructiveStatement(t *testing.T) {
	llm := &fakeModel{replies: []any{"MATCH (p:Place) DELETE p"}}
	graph := &fakeGraph{rows: makeRows(1)}
	assistant := NewAssistant(llm, graph, nil, nil)

	_, err := assistant.Answer(context.Background(), model.Query{Text: "remove everything"}, "sess", nil)
	if !errors.Is(err, ErrValidationRejected) {
		t.Fatalf("Expected ErrValidationRejected, got %v", err)
	}
	if graph.executed != "" {
		t.Error("Expected the rejected statement to never reach the executor")
	}
	if llm.calls != 1 {
		t.Errorf("Expected no answer-phase call after rejection, got %d calls", llm.calls)
	}
}

func TestAssistant_ExecutionFailure(t *testing.T) {
	llm := &fakeModel{replies: []any{"MATCH (p:Place) RETURN p"}}
	graph := &fakeGraph{err: errors.New("connection lost")}
	assistant := NewAssistant(llm, graph, nil, nil)

	_, err := assistant.Answer(context.Background(), model.Query{Text: "show me places"}, "sess", nil)
	if !errors.Is(err, ErrExecutionFailed) {
		t.Fatalf("Expected ErrExecutionFailed, got %v", err)
	}
}

func TestAssistant_GenerationFailure(t *testing.T) {
	llm := &fakeModel{errs: []error{errors.New("api timeout")}}
	assistant := NewAssistant(llm, &fakeGraph{}, nil, nil)

	_, err := assistant.Answer(context.Background(), model.Query{Text: "show me places"}, "sess", nil)
	if !errors.Is(err, ErrExecutionFailed) {
		t.Fatalf("Expected ErrExecutionFailed, got %v", err)
	}
}

func TestAssistant_DontKnowFallsBackToTable(t *testing.T) {
	rows := makeRows(2)
	llm := &fakeModel{replies: []any{
		"MATCH (p:Place) RETURN p",
		"I don't know the answer to that question.",
	}}
	assistant := NewAssistant(llm, &fakeGraph{rows: rows}, nil, nil)

	result, err := assistant.Answer(context.Background(), model.Query{Text: "show me places"}, "sess", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Answer, "### 2 locations") {
		t.Errorf("Expected the deterministic table fallback, got %q", result.Answer)
	}
}

func TestAssistant_AnswerPhaseFailureFallsBackToTable(t *testing.T) {
	rows := makeRows(2)
	llm := &fakeModel{
		replies: []any{"MATCH (p:Place) RETURN p", nil},
		errs:    []error{nil, errors.New("api timeout")},
	}
	assistant := NewAssistant(llm, &fakeGraph{rows: rows}, nil, nil)

	result, err := assistant.Answer(context.Background(), model.Query{Text: "show me places"}, "sess", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Answer, "### 2 locations") {
		t.Errorf("Expected the deterministic table fallback, got %q", result.Answer)
	}
}

func TestAssistant_EmptyResult(t *testing.T) {
	llm := &fakeModel{replies: []any{
		"MATCH (p:Place) WHERE p.location = 'nowhere' RETURN p",
		"Nothing matched the current view. Try zooming out.",
	}}
	assistant := NewAssistant(llm, &fakeGraph{rows: nil}, nil, nil)

	result, err := assistant.Answer(context.Background(), model.Query{Text: "places in nowhere"}, "sess", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Kind != ResultEmpty {
		t.Errorf("Expected ResultEmpty, got %v", result.Kind)
	}
	// The answer phase still runs, fed the no-data marker
	if len(llm.prompts) != 2 || !strings.Contains(llm.prompts[1], NoDataMarker) {
		t.Error("Expected the answer prompt to carry the no-data marker")
	}
}

func TestAssistant_StructuredModelReply(t *testing.T) {
	llm := &fakeModel{replies: []any{
		map[string]any{"text": "MATCH (p:Place) RETURN p"},
		[]any{map[string]any{"text": "Found some places."}},
	}}
	graph := &fakeGraph{rows: makeRows(1)}
	assistant := NewAssistant(llm, graph, nil, nil)

	result, err := assistant.Answer(context.Background(), model.Query{Text: "show me places"}, "sess", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if graph.executed != "MATCH (p:Place) RETURN p" {
		t.Errorf("Expected the unwrapped statement, got %q", graph.executed)
	}
	if result.Answer != "Found some places." {
		t.Errorf("Expected the unwrapped answer, got %q", result.Answer)
	}
}
