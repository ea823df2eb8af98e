// Package services contains the grounding and execution engine.
package services

import (
	"regexp"
	"strings"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// typedRefPattern recognizes references of the form
// {optional "haul"} {type word} {optional "cat"} {id} {optional sub-id},
// applied to the normalized (underscored) form of the reference.
var typedRefPattern = regexp.MustCompile(`^(?:haul_)?([a-z]+)_(?:cat_)?([a-z0-9]+)(?:_([a-z0-9]+))?$`)

// EntityResolver maps free-text entity references onto twin entities.
//
// Operators use inconsistent casing, spacing and spelling ("truck 56",
// "Truck_56", "haul truck 777 2"), so resolution is a fixed strict-to-loose
// cascade: each stage runs only if the previous produced nothing, and within
// a stage the first hit in model insertion order wins. Running the cheap
// exact stages first keeps the loosest rules from producing false positives.
type EntityResolver struct{}

// NewEntityResolver creates an entity resolver.
func NewEntityResolver() *EntityResolver {
	return &EntityResolver{}
}

// Resolve maps a free-text reference to a single entity.
func (r *EntityResolver) Resolve(ref string, model *entities.Model) (*entities.Entity, error) {
	normalized := entities.NormalizeReference(ref)

	stages := []func(string, string, *entities.Model) *entities.Entity{
		r.exactMatch,
		r.normalizedMatch,
		r.caseInsensitiveMatch,
		r.tokenSubsetMatch,
		r.typedIdentifierMatch,
		r.looseTokenMatch,
	}
	for _, stage := range stages {
		if e := stage(ref, normalized, model); e != nil {
			return e, nil
		}
	}
	return nil, entities.NewEntityNotFound(ref)
}

// ResolveBulk maps a reference to one or more entities. References containing
// "all" select over the whole model with optional category and relationship
// filters; anything else delegates to single-entity resolution.
func (r *EntityResolver) ResolveBulk(ref string, model *entities.Model, filter *entities.EntityFilter) ([]*entities.Entity, error) {
	if !strings.Contains(strings.ToLower(ref), "all") {
		e, err := r.Resolve(ref, model)
		if err != nil {
			return nil, err
		}
		return []*entities.Entity{e}, nil
	}

	var out []*entities.Entity
	for _, e := range model.All() {
		if filter != nil {
			if filter.Type != "" && e.Category != filter.Type {
				continue
			}
			if rel := filter.Relationship; rel != nil {
				if e.Relationships()[rel.Name] != rel.TargetID {
					continue
				}
			}
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, entities.NewEntityNotFound(ref)
	}
	return out, nil
}

// exactMatch tries the raw reference against entity ids.
func (r *EntityResolver) exactMatch(ref, _ string, model *entities.Model) *entities.Entity {
	for _, e := range model.All() {
		if e.ID == ref {
			return e
		}
	}
	return nil
}

// normalizedMatch tries the normalized form against entity ids.
func (r *EntityResolver) normalizedMatch(_, normalized string, model *entities.Model) *entities.Entity {
	for _, e := range model.All() {
		if e.ID == normalized {
			return e
		}
	}
	return nil
}

// caseInsensitiveMatch compares ids ignoring case.
func (r *EntityResolver) caseInsensitiveMatch(ref, _ string, model *entities.Model) *entities.Entity {
	for _, e := range model.All() {
		if strings.EqualFold(e.ID, ref) {
			return e
		}
	}
	return nil
}

// tokenSubsetMatch splits the normalized reference into tokens; an entity
// matches if every token is a substring of its id, case-insensitive. Purely
// numeric tokens must equal a whole id token, so "777 2" cannot land on
// "777_20" and the typed-identifier stage stays reachable.
func (r *EntityResolver) tokenSubsetMatch(_, normalized string, model *entities.Model) *entities.Entity {
	tokens := splitTokens(normalized)
	if len(tokens) == 0 {
		return nil
	}
	for _, e := range model.All() {
		id := strings.ToLower(e.ID)
		idTokens := splitTokens(id)
		all := true
		for _, tok := range tokens {
			if isNumeric(tok) {
				if !containsToken(idTokens, tok) {
					all = false
					break
				}
				continue
			}
			if !strings.Contains(id, tok) {
				all = false
				break
			}
		}
		if all {
			return e
		}
	}
	return nil
}

// typedIdentifierMatch handles typed references like "truck 56" or
// "haul truck cat 777 2". The type word restricts the search to one category;
// the identifier (and the sub-identifier, when present) must appear as whole
// tokens of the entity id, which keeps "777 2" from landing on "777_20".
func (r *EntityResolver) typedIdentifierMatch(_, normalized string, model *entities.Model) *entities.Entity {
	m := typedRefPattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil
	}
	category := entities.CategoryForTypeWord(m[1])
	id, sub := m[2], m[3]

	for _, e := range model.All() {
		if e.Category != category {
			continue
		}
		tokens := splitTokens(strings.ToLower(e.ID))
		if containsToken(tokens, id) && (sub == "" || containsToken(tokens, sub)) {
			return e
		}
	}
	return nil
}

// looseTokenMatch is the last resort: from tokens longer than one character
// that are numeric or at least two alphabetic characters, an entity matches
// when at least min(2, tokenCount) of them are substrings of its id.
func (r *EntityResolver) looseTokenMatch(_, normalized string, model *entities.Model) *entities.Entity {
	var tokens []string
	for _, tok := range splitTokens(normalized) {
		if len(tok) > 1 && (isNumeric(tok) || isAlphabetic(tok)) {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	need := 2
	if len(tokens) < need {
		need = len(tokens)
	}

	for _, e := range model.All() {
		id := strings.ToLower(e.ID)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(id, tok) {
				hits++
			}
		}
		if hits >= need {
			return e
		}
	}
	return nil
}

// splitTokens splits a normalized reference on underscores and whitespace.
func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == ' ' || r == '\t'
	})
}

func containsToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) >= 2
}
