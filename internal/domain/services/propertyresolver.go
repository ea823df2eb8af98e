package services

import (
	"sort"
	"strings"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// maxSuggestions caps the suggestion list attached to PropertyNotFound.
const maxSuggestions = 5

// suggestionDistance is the largest edit distance still offered as a
// suggestion.
const suggestionDistance = 3

// phraseVariations maps canonical schema property names to known phrase
// variations, normalized (lowercase, separators stripped). Operators rarely
// use the canonical camel-case names verbatim.
var phraseVariations = map[string][]string{
	"maxSpeedKph":             {"speedlimit", "maxspeed", "topspeed"},
	"focusSnapDistanceMeters": {"focussnapdistance", "snapdistance", "focusdistance"},
	"capacityTons":            {"capacity", "maxload", "payloadcapacity"},
	"operatorName":            {"operator", "driver"},
	"status":                  {"state", "operationalstatus"},
	"gradePercent":            {"grade", "slope", "incline"},
}

// PropertyResolver maps a free-text property phrase onto a canonical property
// descriptor, searching the entity's twin schema first and the global
// telemetry schema second. A resolved descriptor records its source; commands
// later use that tag to reject writes against telemetry fields.
type PropertyResolver struct{}

// NewPropertyResolver creates a property resolver.
func NewPropertyResolver() *PropertyResolver {
	return &PropertyResolver{}
}

// ResolveProperty grounds a phrase against the entity's declared properties
// and the telemetry field table. Strict matches (canonical name or known
// variation) on either schema outrank substring matches on both, so a phrase
// like "speed" binds the telemetry field rather than falling into
// "maxSpeedKph" by containment. Within each tier the twin schema wins. On
// failure it returns PropertyNotFound carrying ranked suggestions.
func (r *PropertyResolver) ResolveProperty(e *entities.Entity, phrase string) (*entities.PropertyDescriptor, error) {
	norm := normalizePhrase(phrase)
	if norm == "" {
		return nil, entities.NewPropertyNotFound(phrase, nil)
	}

	if desc := r.resolveSchema(e, norm, scanStrict); desc != nil {
		return desc, nil
	}
	if desc := r.resolveTelemetry(norm, scanStrict); desc != nil {
		return desc, nil
	}
	if desc := r.resolveSchema(e, norm, scanSubstring); desc != nil {
		return desc, nil
	}
	if desc := r.resolveTelemetry(norm, scanSubstring); desc != nil {
		return desc, nil
	}
	return nil, entities.NewPropertyNotFound(phrase, r.suggestions(e, norm))
}

// resolveSchema scans the entity's declared property names.
func (r *PropertyResolver) resolveSchema(e *entities.Entity, norm string, scan func([]string, string) string) *entities.PropertyDescriptor {
	match := scan(e.PropertyNames(), norm)
	if match == "" {
		return nil
	}

	st, _ := e.Property(match)
	return &entities.PropertyDescriptor{
		Name:   match,
		Source: entities.SourceSchema,
		Type:   st.Type,
		Unit:   inferUnit(match),
	}
}

// resolveTelemetry scans the global telemetry field table the same way.
func (r *PropertyResolver) resolveTelemetry(norm string, scan func([]string, string) string) *entities.PropertyDescriptor {
	match := scan(telemetryFieldNames(), norm)
	if match == "" {
		return nil
	}
	for _, f := range telemetryFieldTable {
		if f.name == match {
			return &entities.PropertyDescriptor{
				Name:   f.name,
				Source: entities.SourceTelemetry,
				Type:   entities.ValueType(f.valueType),
				Unit:   f.unit,
			}
		}
	}
	return nil
}

// scanStrict matches the normalized phrase against candidate names by
// canonical-name equality first, then known variations. Each step completes
// over all candidates before the next runs.
func scanStrict(names []string, norm string) string {
	for _, name := range names {
		if normalizePhrase(name) == norm {
			return name
		}
	}
	for _, name := range names {
		for _, v := range phraseVariations[name] {
			if v == norm {
				return name
			}
		}
		for _, f := range telemetryFieldTable {
			if f.name != name {
				continue
			}
			for _, v := range f.variations {
				if v == norm {
					return name
				}
			}
		}
	}
	return ""
}

// scanSubstring matches by containment in either direction.
func scanSubstring(names []string, norm string) string {
	for _, name := range names {
		n := normalizePhrase(name)
		if strings.Contains(n, norm) || strings.Contains(norm, n) {
			return name
		}
	}
	return ""
}

// suggestions ranks candidates from the entity's declared properties and the
// telemetry field names by a single score: substring containment scores zero,
// anything else its edit distance, cut off above suggestionDistance. Ties
// break alphabetically so results are deterministic.
func (r *PropertyResolver) suggestions(e *entities.Entity, norm string) []string {
	type scored struct {
		name  string
		score int
	}

	seen := make(map[string]bool)
	var candidates []string
	for _, name := range e.PropertyNames() {
		if !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}
	for _, name := range telemetryFieldNames() {
		if !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	var ranked []scored
	for _, name := range candidates {
		n := normalizePhrase(name)
		if strings.Contains(n, norm) || strings.Contains(norm, n) {
			ranked = append(ranked, scored{name, 0})
			continue
		}
		if d := levenshteinDistance(n, norm); d <= suggestionDistance {
			ranked = append(ranked, scored{name, d})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score < ranked[j].score
		}
		return ranked[i].name < ranked[j].name
	})

	var out []string
	for _, s := range ranked {
		out = append(out, s.name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// normalizePhrase lowercases and strips spaces, hyphens and underscores
// entirely. Property phrases vary more in punctuation than entity references,
// so this is deliberately more aggressive than reference normalization.
func normalizePhrase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, s)
}

// levenshteinDistance calculates the edit distance between two strings using
// a two-row DP table.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = minInt(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// minInt returns the minimum of three integers.
func minInt(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
