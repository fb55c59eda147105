package filter

import "regexp"

// Decision is the routing outcome for one user message
type Decision int

const (
	// NewQuery sends the message through the full translation pipeline
	NewQuery Decision = iota
	// Refinement narrows the current baseline without touching the graph
	Refinement
	// Ambiguous carries refinement vocabulary but no usable criteria; it is
	// routed like a new query so the model can make sense of it
	Ambiguous
)

func (d Decision) String() string {
	switch d {
	case NewQuery:
		return "new_query"
	case Refinement:
		return "refinement"
	case Ambiguous:
		return "ambiguous"
	}
	return "unknown"
}

// refinementVocabRe marks messages that talk about the current result set
// rather than asking something new
var refinementVocabRe = regexp.MustCompile(`(?i)\b(?:only|just|filter|narrow|refine|instead|keep|remove|exclude|of (?:those|these)|from (?:those|these|the list)|top|best|above|below|under|over|at least|at most|higher|lower)\b`)

// newQueryVerbRe marks messages that open a fresh search regardless of any
// criteria-looking phrases inside them
var newQueryVerbRe = regexp.MustCompile(`(?i)\b(?:find|search|look for|list all|show me all|what is|what are|where is|where are|which places|recommend|compare|how many)\b`)

// Classify decides how to route a message. Refinements require an existing
// baseline; without one every message is a new query.
func Classify(message string, hasBaseline bool) (Decision, Criteria) {
	criteria := ParseCriteria(message)

	if !hasBaseline {
		return NewQuery, criteria
	}
	if newQueryVerbRe.MatchString(message) {
		return NewQuery, criteria
	}
	if criteria.Empty() {
		if refinementVocabRe.MatchString(message) {
			return Ambiguous, criteria
		}
		return NewQuery, criteria
	}
	return Refinement, criteria
}
