package service

import (
	"fmt"
	"regexp"
	"strings"

	"geochat/internal/model"
)

// BuildAnswerPrompt assembles the phase-2 prompt that turns the aggregated
// context into a formatted natural-language answer.
func BuildAnswerPrompt(question, context string) string {
	return fmt.Sprintf(`You are a helpful assistant providing information about locations in a database.

Question: %s

Database results:
%s

Instructions:
1. When asked about a SPECIFIC location, provide all available information
   about it: category, comments, and grade, with clear sections.
2. When listing MULTIPLE places, keep it concise and include grades.
3. If the results say NO DATA, say that nothing matched the current view and
   suggest zooming out, changing the category, or rephrasing. Do not invent
   places.

Use proper Markdown syntax:
- Use ### for headers
- Use **text** for bold emphasis
- Use - for bullet lists
- Use tables with | pipes when comparing multiple items
- Use `+"`text`"+` for IDs

Answer:`, question, context)
}

// Cleanup patterns. The normalizer's fallback path can leak structural
// metadata keys from serialized reply objects into the answer text; generic
// closing boilerplate and sloppy whitespace come from the model itself.
var (
	metadataLineRe = regexp.MustCompile(`(?mi)^\s*"?(signature|extras|metadata|additional_kwargs|response_metadata|usage_metadata|finish_reason)"?\s*[:=].*$`)
	boilerplateRe  = regexp.MustCompile(`(?mi)^\s*(let me know if you (have|need) .*|i hope (this|that) helps.*|feel free to ask.*|is there anything else.*)$`)
	blankRunsRe    = regexp.MustCompile(`\n{3,}`)
	spaceDotRe     = regexp.MustCompile(` +\.`)
)

// CleanupAnswer applies the unconditional post-normalization cleanup pass to
// a generated answer. Idempotent: applying it twice yields the same output as
// applying it once.
func CleanupAnswer(s string) string {
	s = metadataLineRe.ReplaceAllString(s, "")
	s = boilerplateRe.ReplaceAllString(s, "")
	s = spaceDotRe.ReplaceAllString(s, ".")
	s = blankRunsRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// FormatRows renders rows as a deterministic markdown table, used when the
// model declines to answer. Shows only the first 10 rows as a preview.
func FormatRows(rows []model.ResultRow) string {
	if len(rows) == 0 {
		return "**No results found.**"
	}

	total := len(rows)
	preview := total
	if preview > 10 {
		preview = 10
	}

	var out []string
	if preview < total {
		out = append(out, fmt.Sprintf("### %d locations (showing first %d)\n", total, preview))
	} else {
		out = append(out, fmt.Sprintf("### %d locations\n", total))
	}

	out = append(out, "| # | Location | Grade | Place ID (Coordinates) |")
	out = append(out, "|---|----------|-------|------------------------|")

	for i, row := range rows[:preview] {
		name := row.Place.Location
		if name == "" {
			name = "Unknown"
		}
		pidCoords := fmt.Sprintf("`%s` (%.6f, %.6f)", row.Place.PlaceID, row.Place.Latitude, row.Place.Longitude)
		out = append(out, fmt.Sprintf("| %d | **%s** | %.1f | %s |", i+1, name, row.Grade(), pidCoords))
	}

	if total > preview {
		out = append(out, "", fmt.Sprintf("_... and %d more_", total-preview))
	}

	return strings.Join(out, "\n")
}
