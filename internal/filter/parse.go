package filter

import (
	"regexp"
	"strconv"
	"strings"
)

// Numeric grade bound phrasings. Exclusive and inclusive forms are kept
// separate so "above 80" excludes 80 while "at least 80" includes it.
var (
	exclusiveMinRe = regexp.MustCompile(`(?i)\b(?:above|over|greater than|more than|better than)\s+(\d+(?:\.\d+)?)\b`)
	inclusiveMinRe = regexp.MustCompile(`(?i)\b(?:at least|minimum(?: of)?)\s+(\d+(?:\.\d+)?)\b|\b(\d+(?:\.\d+)?)\s+(?:or|and)\s+(?:above|higher|better)\b`)
	exclusiveMaxRe = regexp.MustCompile(`(?i)\b(?:below|under|less than|worse than)\s+(\d+(?:\.\d+)?)\b`)
	inclusiveMaxRe = regexp.MustCompile(`(?i)\b(?:at most|maximum(?: of)?)\s+(\d+(?:\.\d+)?)\b|\b(\d+(?:\.\d+)?)\s+(?:or|and)\s+(?:below|lower|worse)\b`)
)

// Qualitative phrasings map to fixed inclusive thresholds
var (
	topNRe    = regexp.MustCompile(`(?i)\b(?:top|best|first)\s+(\d+)\b`)
	highRe    = regexp.MustCompile(`(?i)\b(?:high|highly rated|good|well rated|well-rated)\b`)
	bestRe    = regexp.MustCompile(`(?i)\b(?:best|top|excellent)\b`)
	lowRe     = regexp.MustCompile(`(?i)\b(?:low|poorly rated|bad|badly rated)\b`)
	onlyNumRe = regexp.MustCompile(`(?i)\bonly\s+(\d+)\b`)
)

const (
	highThreshold = 70
	bestThreshold = 80
	lowThreshold  = 30
)

// Location phrasings. A quoted name wins; otherwise the tail after a
// location lead-in is taken up to the next grade phrase or end of message.
var (
	quotedLocationRe = regexp.MustCompile(`(?i)(?:in|near|at|around|about)\s+"([^"]+)"`)
	bareLocationRe   = regexp.MustCompile(`(?i)\b(?:in|near|around)\s+(?:the\s+)?([a-zA-ZäöüÄÖÜß][a-zA-ZäöüÄÖÜß\s\-']*?)(?:\s+(?:with|that|which|and|or|above|over|below|under|rated)\b|[,.?!]|$)`)
	leadInLocationRe = regexp.MustCompile(`(?i)\b(?:tell me about|show me|what about|how about)\s+(?:the\s+)?([a-zA-ZäöüÄÖÜß][a-zA-ZäöüÄÖÜß\s\-']*?)(?:[,.?!]|$)`)
)

// locationStopwords are tails that look like a place name to the regex but
// describe grades or results instead
var locationStopwords = map[string]bool{
	"general": true, "total": true, "particular": true,
	"the area": true, "this area": true, "the list": true,
	"the results": true, "them": true, "those": true, "these": true,
}

// ParseCriteria extracts refinement criteria from one user message. An
// unparseable message returns empty criteria, never an error; the caller
// decides whether that means a fresh query or an ambiguous refinement.
func ParseCriteria(message string) Criteria {
	var c Criteria

	parseGradeBounds(message, &c)
	parseTopN(message, &c)
	parseQualitative(message, &c)
	c.Location = parseLocation(message)

	return c
}

func parseGradeBounds(message string, c *Criteria) {
	if m := exclusiveMinRe.FindStringSubmatch(message); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.MinGrade = &v
			c.MinExclusive = true
		}
	}
	if m := inclusiveMinRe.FindStringSubmatch(message); m != nil {
		if v, err := strconv.ParseFloat(firstGroup(m), 64); err == nil {
			c.MinGrade = &v
			c.MinExclusive = false
		}
	}
	if m := exclusiveMaxRe.FindStringSubmatch(message); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.MaxGrade = &v
			c.MaxExclusive = true
		}
	}
	if m := inclusiveMaxRe.FindStringSubmatch(message); m != nil {
		if v, err := strconv.ParseFloat(firstGroup(m), 64); err == nil {
			c.MaxGrade = &v
			c.MaxExclusive = false
		}
	}
}

func parseTopN(message string, c *Criteria) {
	m := topNRe.FindStringSubmatch(message)
	if m == nil && c.MinGrade == nil && c.MaxGrade == nil {
		// "only 85 or higher" is a grade bound, not a count
		m = onlyNumRe.FindStringSubmatch(message)
	}
	if m == nil {
		return
	}
	if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
		c.TopN = &n
	}
}

// parseQualitative maps vague grade words to fixed thresholds. Skipped
// whenever an explicit numeric bound or a top-N count already applies, so
// "top 5" does not also impose a grade floor.
func parseQualitative(message string, c *Criteria) {
	if c.MinGrade == nil && c.TopN == nil {
		if bestRe.MatchString(message) {
			v := float64(bestThreshold)
			c.MinGrade = &v
		} else if highRe.MatchString(message) {
			v := float64(highThreshold)
			c.MinGrade = &v
		}
	}
	if c.MaxGrade == nil && lowRe.MatchString(message) {
		v := float64(lowThreshold)
		c.MaxGrade = &v
	}
}

func parseLocation(message string) string {
	if m := quotedLocationRe.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	for _, re := range []*regexp.Regexp{bareLocationRe, leadInLocationRe} {
		if m := re.FindStringSubmatch(message); m != nil {
			loc := strings.TrimSpace(m[1])
			if loc != "" && !locationStopwords[strings.ToLower(loc)] {
				return loc
			}
		}
	}
	return ""
}

// firstGroup returns the first non-empty capture from an alternation match
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
