package service

import (
	"fmt"
	"sort"
	"strings"

	"geochat/internal/model"
)

// RowSampleCap bounds how many rows are rendered into the aggregated context.
// It caps prompt size independent of how much map data is loaded.
const RowSampleCap = 40

// NoDataMarker is emitted instead of an empty string whenever there is
// nothing to summarize, so the answer generator can produce a graceful
// empty-state message instead of hallucinating.
const NoDataMarker = "NO DATA: the query matched no places in the current view."

// AggregateContext merges the primary result rows with the enabled auxiliary
// datasets into one bounded text block for the answer-generation step. Rows
// beyond RowSampleCap are counted but not rendered; auxiliary datasets are
// reduced to numeric summaries, never raw item lists.
func AggregateContext(rows []model.ResultRow, datasets model.Datasets, categoryID *int, comments []model.ScoredComment) string {
	var b strings.Builder

	if len(rows) == 0 {
		b.WriteString(NoDataMarker)
		b.WriteString("\n")
	} else {
		writeRowSummary(&b, rows, categoryID)
	}

	if datasets.Empty() {
		b.WriteString("\nNo auxiliary datasets enabled.\n")
	} else {
		writeDatasetSummaries(&b, datasets)
	}

	if len(comments) > 0 {
		b.WriteString("\nMost relevant visitor comments:\n")
		for _, sc := range comments {
			fmt.Fprintf(&b, "- %s\n", sc.Text)
		}
	}

	return b.String()
}

func writeRowSummary(b *strings.Builder, rows []model.ResultRow, categoryID *int) {
	fmt.Fprintf(b, "Total places found: %d\n", len(rows))
	if categoryID != nil {
		fmt.Fprintf(b, "Active category filter: %d\n", *categoryID)
	}

	// Category distribution over the whole result set
	dist := map[int]int{}
	for _, row := range rows {
		for _, cg := range row.Categories {
			dist[cg.CategoryID]++
		}
	}
	if len(dist) > 0 {
		ids := make([]int, 0, len(dist))
		for id := range dist {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		parts := make([]string, 0, len(ids))
		for _, id := range ids {
			parts = append(parts, fmt.Sprintf("category %d: %d", id, dist[id]))
		}
		fmt.Fprintf(b, "Category distribution: %s\n", strings.Join(parts, ", "))
	}

	sample := rows
	if len(sample) > RowSampleCap {
		sample = sample[:RowSampleCap]
		fmt.Fprintf(b, "Sample of the first %d places:\n", RowSampleCap)
	} else {
		b.WriteString("Places:\n")
	}
	for _, row := range sample {
		name := row.Place.Location
		if name == "" {
			name = row.Place.PlaceID
		}
		category := "uncategorized"
		if len(row.Categories) > 0 {
			category = row.Categories[0].Description
			if category == "" {
				category = fmt.Sprintf("category %d", row.Categories[0].CategoryID)
			}
		}
		fmt.Fprintf(b, "- %s | %s | grade %.1f\n", name, category, row.Grade())
	}
}

func writeDatasetSummaries(b *strings.Builder, datasets model.Datasets) {
	if datasets.Weather != nil {
		b.WriteString("\nWeather summary:\n")
		if len(datasets.Weather) == 0 {
			b.WriteString("- no observations available\n")
		} else {
			minT, maxT, sumT, sumW := datasets.Weather[0].Temperature, datasets.Weather[0].Temperature, 0.0, 0.0
			for _, w := range datasets.Weather {
				if w.Temperature < minT {
					minT = w.Temperature
				}
				if w.Temperature > maxT {
					maxT = w.Temperature
				}
				sumT += w.Temperature
				sumW += w.WindSpeed
			}
			n := float64(len(datasets.Weather))
			fmt.Fprintf(b, "- temperature: avg %.1f°C, min %.1f°C, max %.1f°C (%d samples)\n", sumT/n, minT, maxT, len(datasets.Weather))
			fmt.Fprintf(b, "- wind speed: avg %.1f km/h\n", sumW/n)
		}
	}

	if datasets.Transport != nil {
		b.WriteString("\nPublic transport summary:\n")
		if len(datasets.Transport) == 0 {
			b.WriteString("- no stations in view\n")
		} else {
			byType := map[string]int{}
			for _, st := range datasets.Transport {
				byType[st.Type]++
			}
			fmt.Fprintf(b, "- %d stations/stops in view: %s\n", len(datasets.Transport), groupedCounts(byType))
		}
	}

	if datasets.Vegetation != nil {
		b.WriteString("\nVegetation summary:\n")
		if len(datasets.Vegetation) == 0 {
			b.WriteString("- no tree records in view\n")
		} else {
			bySpecies := map[string]int{}
			sumH, withH := 0.0, 0
			for _, t := range datasets.Vegetation {
				bySpecies[t.Species]++
				if t.Height > 0 {
					sumH += t.Height
					withH++
				}
			}
			fmt.Fprintf(b, "- %d trees, %d species; top species: %s\n", len(datasets.Vegetation), len(bySpecies), topCounts(bySpecies, 5))
			if withH > 0 {
				fmt.Fprintf(b, "- average tree height: %.1f m\n", sumH/float64(withH))
			}
		}
	}
}

// groupedCounts renders a count map as "name: n" pairs, largest first.
func groupedCounts(counts map[string]int) string {
	return topCounts(counts, len(counts))
}

func topCounts(counts map[string]int, n int) string {
	type kv struct {
		key   string
		count int
	}
	pairs := make([]kv, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if len(pairs) > n {
		pairs = pairs[:n]
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s: %d", p.key, p.count))
	}
	return strings.Join(parts, ", ")
}
