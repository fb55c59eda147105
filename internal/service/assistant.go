package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"geochat/internal/dataset"
	"geochat/internal/model"
	"geochat/internal/repository"
	"geochat/internal/utils"
)

// cypherSystemPrompt pins the generation phase to statement-only output
const cypherSystemPrompt = "You translate natural-language questions into Cypher. Output only the Cypher statement."

// topCommentCount is how many ranked comments are fed into the answer prompt
const topCommentCount = 5

// dontKnowRe detects the model declining to answer; those answers are
// replaced with a deterministic rendering of the rows that were actually
// found.
var dontKnowRe = regexp.MustCompile(`(?i)(i don'?t know|i do not know|cannot answer|can'?t answer|no information (is )?available)`)

// Result is the outcome of one full pipeline run
type Result struct {
	Answer    string
	Rows      []model.ResultRow
	Kind      ResultKind
	Statement string
	SearchID  string
}

// Assistant runs the two-phase answer pipeline: translate the question into
// a Cypher statement, validate and execute it, aggregate the rows with any
// enabled auxiliary datasets, then generate the final answer.
type Assistant struct {
	llm      ChatModel
	graph    repository.GraphExecutor
	datasets *dataset.Registry
	logs     *repository.LogStore
}

// NewAssistant creates the pipeline. logs may be nil; logging then becomes a
// no-op.
func NewAssistant(llm ChatModel, graph repository.GraphExecutor, datasets *dataset.Registry, logs *repository.LogStore) *Assistant {
	return &Assistant{
		llm:      llm,
		graph:    graph,
		datasets: datasets,
		logs:     logs,
	}
}

// Answer runs the full pipeline for one question. Each phase calls the model
// at most once; there are no retries. Validation failures and execution
// failures surface as the sentinel errors from this package.
func (a *Assistant) Answer(ctx context.Context, q model.Query, sessionID string, enabledDatasets []string) (*Result, error) {
	started := time.Now()
	searchID := uuid.New().String()

	statement, err := a.generateStatement(ctx, q)
	if err != nil {
		a.logFailureAsync(sessionID, q.Text, "generation")
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	if err := ValidateCypher(statement); err != nil {
		// Rejected statements are never logged or surfaced
		a.logFailureAsync(sessionID, q.Text, "validation")
		return nil, err
	}

	rows, err := a.graph.Execute(ctx, statement)
	if err != nil {
		a.logFailureAsync(sessionID, q.Text, "execution")
		return nil, fmt.Errorf("%w: %v", ErrExecutionFailed, err)
	}

	aux := model.Datasets{}
	if len(enabledDatasets) > 0 && q.Bounds != nil {
		aux = a.datasets.FetchEnabled(ctx, enabledDatasets, *q.Bounds)
	}

	comments := TopComments(rows, q.Text, topCommentCount)
	aggregated := AggregateContext(rows, aux, q.CategoryID, comments)

	answer := a.generateAnswer(ctx, q.Text, aggregated, rows)

	result := &Result{
		Answer:    answer,
		Rows:      rows,
		Kind:      ResultOK,
		Statement: statement,
		SearchID:  searchID,
	}
	if len(rows) == 0 {
		result.Kind = ResultEmpty
	}

	a.logSearchAsync(searchID, sessionID, q.Text, statement, len(rows), int(time.Since(started).Milliseconds()))

	return result, nil
}

// generateStatement runs phase 1 at temperature zero so the same question
// against the same view yields the same statement.
func (a *Assistant) generateStatement(ctx context.Context, q model.Query) (string, error) {
	raw, err := a.llm.Complete(ctx, cypherSystemPrompt, BuildCypherPrompt(q), 0)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(utils.NormalizeModelOutput(raw)), nil
}

// generateAnswer runs phase 2. A model failure or a declined answer both
// fall back to the deterministic table rendering of the rows, so the user
// always gets the data that was found.
func (a *Assistant) generateAnswer(ctx context.Context, question, aggregated string, rows []model.ResultRow) string {
	raw, err := a.llm.Complete(ctx, "", BuildAnswerPrompt(question, aggregated), 0)
	if err != nil {
		log.Printf("Warning: answer generation failed, falling back to table: %v", err)
		return FormatRows(rows)
	}

	answer := CleanupAnswer(utils.NormalizeModelOutput(raw))
	if answer == "" || (dontKnowRe.MatchString(answer) && len(rows) > 0) {
		return FormatRows(rows)
	}
	return answer
}

func (a *Assistant) logSearchAsync(searchID, sessionID, question, statement string, resultCount, tookMs int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.logs.LogSearch(ctx, searchID, sessionID, question, statement, resultCount, tookMs); err != nil {
			log.Printf("Warning: failed to log search: %v", err)
		}
	}()
}

func (a *Assistant) logFailureAsync(sessionID, question, kind string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.logs.LogFailure(ctx, sessionID, question, kind); err != nil {
			log.Printf("Warning: failed to log failure: %v", err)
		}
	}()
}
