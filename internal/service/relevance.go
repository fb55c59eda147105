package service

import (
	"sort"
	"strings"

	"geochat/internal/model"
)

// stopWords are dropped from the question before keyword matching
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "were": {},
	"this": {}, "that": {}, "with": {}, "from": {}, "about": {},
	"what": {}, "which": {}, "where": {}, "when": {}, "there": {},
	"here": {}, "have": {}, "has": {}, "had": {}, "does": {}, "did": {},
	"can": {}, "could": {}, "would": {}, "should": {}, "tell": {},
	"show": {}, "any": {}, "all": {}, "how": {}, "why": {}, "who": {},
	"not": {}, "you": {}, "near": {}, "place": {}, "places": {},
}

// Per-keyword scoring constants: a base point for presence, an early-position
// bonus when the keyword appears within the leading window, and a length bonus
// for keywords longer than four characters. perKeywordMax is their sum and the
// normalization divisor.
const (
	keywordBase     = 1.0
	earlyBonus      = 0.5
	earlyWindow     = 50
	lengthBonus     = 0.3
	lengthThreshold = 4
	perKeywordMax   = keywordBase + earlyBonus + lengthBonus // 1.8
)

// QuestionKeywords tokenizes a question into the keywords used for relevance
// scoring: case-folded, stop words and tokens of two characters or fewer
// dropped, duplicates removed (order preserved).
func QuestionKeywords(question string) []string {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})

	seen := make(map[string]struct{}, len(fields))
	keywords := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// ScoreComment computes the lexical relevance of a comment to a question,
// normalized to [0,1]. A comment sharing no keywords with the question scores
// exactly 0 but is never excluded by this function; ranking and truncation are
// the caller's concern.
func ScoreComment(comment, question string) float64 {
	return scoreAgainstKeywords(comment, QuestionKeywords(question))
}

func scoreAgainstKeywords(comment string, keywords []string) float64 {
	if len(keywords) == 0 || comment == "" {
		return 0
	}

	lower := strings.ToLower(comment)
	total := 0.0
	for _, kw := range keywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		score := keywordBase
		if idx < earlyWindow {
			score += earlyBonus
		}
		if len(kw) > lengthThreshold {
			score += lengthBonus
		}
		total += score
	}

	return total / (float64(len(keywords)) * perKeywordMax)
}

// TopComments ranks every comment attached to the rows by relevance to the
// question and returns the top n. Zero-score comments still participate; they
// sort last, so off-topic questions degrade to the least-irrelevant comments
// instead of failing. Ties are broken by the originating row's grade,
// descending.
func TopComments(rows []model.ResultRow, question string, n int) []model.ScoredComment {
	keywords := QuestionKeywords(question)

	var scored []model.ScoredComment
	for i, row := range rows {
		grade := row.Grade()
		for _, comment := range row.Comments {
			scored = append(scored, model.ScoredComment{
				Text:     comment,
				Score:    scoreAgainstKeywords(comment, keywords),
				RowIndex: i,
				RowGrade: grade,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].RowGrade > scored[j].RowGrade
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
