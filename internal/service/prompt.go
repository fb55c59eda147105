package service

import (
	"fmt"
	"regexp"
	"strings"

	"geochat/internal/model"
)

// GraphSchema is the fixed schema description fed to the generation prompt.
// It mirrors the actual node labels and relationship types of the places graph.
const GraphSchema = `Node properties:
Place {place_id: STRING, location: STRING, latitude: FLOAT, longitude: FLOAT}
Category {category_id: INTEGER, description: STRING}
PlaceGrade {grade: FLOAT}
Comment {text: STRING}
Relationships:
(:Place)-[:HAS_GRADE]->(:PlaceGrade)
(:PlaceGrade)-[:BELONGS_TO]->(:Category)
(:Place)-[:HAS_COMMENT]->(:Comment)`

// locationalRe detects messages that name their own location ("in Ottakring",
// "near the river", "at Karlsplatz"). When the user names a place, injecting
// the visible viewport bounds would wrongly clip the query, so bounds are
// suppressed.
var locationalRe = regexp.MustCompile(`(?i)\b(in|near|at)\b`)

// NamesOwnLocation reports whether the message contains a locational
// preposition and should therefore not be constrained to the viewport.
func NamesOwnLocation(message string) bool {
	return locationalRe.MatchString(message)
}

// BuildCypherPrompt assembles the phase-1 generation prompt from the fixed
// schema, the active bounds and category filter, and up to the last two
// question/answer pairs. Deterministic given identical inputs; temperature is
// pinned to zero downstream.
func BuildCypherPrompt(q model.Query) string {
	var b strings.Builder

	b.WriteString(`Task: Generate a Cypher statement to query a graph database.
Instructions:
Use only the provided relationship types and properties in the schema.
Do not use any other relationship types or properties that are not provided.

Schema:
`)
	b.WriteString(GraphSchema)
	b.WriteString(`

Note: Do not include any explanations or apologies in your responses.
Do not respond to any questions that might ask anything else than for you to construct a Cypher statement.
Do not include any text except the generated Cypher statement.

Always return comprehensive information about places:
- Return the place node (p) with its properties
- Return grade and category information for each place
- Return comments if they exist
- Use OPTIONAL MATCH only for comments; never for category paths
`)

	if q.CategoryID != nil {
		writeCategorySection(&b, *q.CategoryID)
	} else {
		b.WriteString(`
Example for listing places with their categories:
MATCH (p:Place)-[:HAS_GRADE]->(pg:PlaceGrade)-[:BELONGS_TO]->(c:Category)
OPTIONAL MATCH (p)-[:HAS_COMMENT]->(cm:Comment)
RETURN p, pg, c, collect(cm.text) AS comments
`)
	}

	if q.Bounds != nil && !NamesOwnLocation(q.Text) {
		fmt.Fprintf(&b, `
The user is looking at a map region. Restrict results to the visible bounds:
WHERE p.latitude >= %f AND p.latitude <= %f AND p.longitude >= %f AND p.longitude <= %f
`, q.Bounds.South, q.Bounds.North, q.Bounds.West, q.Bounds.East)
	}

	if len(q.History) > 0 {
		b.WriteString("\nConversation so far:\n")
		history := q.History
		if len(history) > 2 {
			history = history[len(history)-2:]
		}
		for _, qa := range history {
			fmt.Fprintf(&b, "Previous Q: %s\nPrevious A: %s\n", qa.Question, qa.Answer)
		}
	}

	fmt.Fprintf(&b, "\nThe question is:\n%s", q.Text)

	return b.String()
}

// writeCategorySection emits the worked examples that pin down the one subtle
// correctness rule of category filtering: the path from place to category must
// be a required match. An OPTIONAL MATCH followed by an equality filter on
// category_id silently admits places with no category at all (they pass
// through with a null category), so the prompt shows both the correct and the
// forbidden form explicitly.
func writeCategorySection(b *strings.Builder, categoryID int) {
	fmt.Fprintf(b, `
CATEGORY FILTER ACTIVE: the user has selected category %d.
Every returned place MUST genuinely carry category %d. The category path is a
required match, never an optional one.

CORRECT:
MATCH (p:Place)-[:HAS_GRADE]->(pg:PlaceGrade)-[:BELONGS_TO]->(c:Category)
WHERE c.category_id = %d
OPTIONAL MATCH (p)-[:HAS_COMMENT]->(cm:Comment)
RETURN p, pg, c, collect(cm.text) AS comments

WRONG (do not generate this; it returns places with no category at all):
MATCH (p:Place)
OPTIONAL MATCH (p)-[:HAS_GRADE]->(pg:PlaceGrade)-[:BELONGS_TO]->(c:Category)
WHERE c.category_id = %d
RETURN p, pg, c
`, categoryID, categoryID, categoryID, categoryID)
}
