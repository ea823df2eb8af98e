package services

import (
	"context"
	"sort"
	"strings"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// RelationshipExecutor serves relationship queries from the resolved
// entity's relationship map; no telemetry window is involved.
type RelationshipExecutor struct{}

// CanHandle reports whether the intent is relationship.
func (e *RelationshipExecutor) CanHandle(intent entities.GenericIntent) bool {
	return intent == entities.IntentRelationship
}

// Execute returns the target of the named relationship, or the whole
// relationship map when the query names none. Relation phrases match the
// same way property phrases do: normalized equality first, then substring.
func (e *RelationshipExecutor) Execute(_ context.Context, q *entities.ResolvedQuery, _ []entities.TelemetryRecord) (*entities.QueryResult, error) {
	rels := q.Entity.Relationships()

	if q.Relation == "" {
		return &entities.QueryResult{
			Value:    rels,
			Metadata: map[string]any{"entity": q.Entity.ID},
		}, nil
	}

	// Iterate in sorted order so substring matches are deterministic.
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)

	norm := normalizePhrase(q.Relation)
	for _, name := range names {
		if normalizePhrase(name) == norm {
			return e.result(q.Entity.ID, name, rels[name]), nil
		}
	}
	for _, name := range names {
		n := normalizePhrase(name)
		if strings.Contains(n, norm) || strings.Contains(norm, n) {
			return e.result(q.Entity.ID, name, rels[name]), nil
		}
	}

	return nil, entities.NewPropertyNotFound(q.Relation, names)
}

func (e *RelationshipExecutor) result(entityID, name, target string) *entities.QueryResult {
	return &entities.QueryResult{
		Value: target,
		Metadata: map[string]any{
			"entity":       entityID,
			"relationship": name,
		},
	}
}
