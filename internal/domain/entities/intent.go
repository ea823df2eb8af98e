package entities

import "time"

// QuestionType is the specific question category produced by the intent
// parser for a query.
type QuestionType string

const (
	QuestionAverageSpeed     QuestionType = "average_speed"
	QuestionMaxSpeed         QuestionType = "max_speed"
	QuestionMinSpeed         QuestionType = "min_speed"
	QuestionCurrentSpeed     QuestionType = "current_speed"
	QuestionProperty         QuestionType = "property"
	QuestionTripCount        QuestionType = "trip_count"
	QuestionRouteUtilization QuestionType = "route_utilization"
	QuestionRelationship     QuestionType = "relationship"
)

// GenericIntent is the closed set of execution intents a resolved query maps
// to. Executors dispatch on this enum.
type GenericIntent string

const (
	IntentAggregate    GenericIntent = "aggregate"
	IntentGetProperty  GenericIntent = "get_property"
	IntentCount        GenericIntent = "count"
	IntentRelationship GenericIntent = "relationship"
)

// AggregateOp selects the reduction an aggregate query applies.
type AggregateOp string

const (
	OpAverage AggregateOp = "average"
	OpMax     AggregateOp = "max"
	OpMin     AggregateOp = "min"
	OpSum     AggregateOp = "sum"
)

// CommandScope states whether a command targets one entity or a bulk set.
type CommandScope string

const (
	ScopeSingle CommandScope = "single"
	ScopeBulk   CommandScope = "bulk"
)

// AllEntitiesSentinel is the entity reference a route-utilization query uses
// to mean "keyed by path, not by entity".
const AllEntitiesSentinel = "ALL"

// QueryIntent is the externally produced structured request for a read.
// Entity and property references are still free text at this point.
type QueryIntent struct {
	Question        QuestionType `json:"question"`
	EntityRef       string       `json:"entity"`
	Property        string       `json:"property,omitempty"`
	SourcePath      string       `json:"source_path,omitempty"`
	DestinationPath string       `json:"destination_path,omitempty"`
	Start           time.Time    `json:"start,omitempty"`
	End             time.Time    `json:"end,omitempty"`
}

// RelationshipFilter restricts bulk resolution to entities whose named
// relationship points at the given target.
type RelationshipFilter struct {
	Name     string `json:"name"`
	TargetID string `json:"target_id"`
}

// EntityFilter narrows a bulk entity reference.
type EntityFilter struct {
	Type         Category            `json:"type,omitempty"`
	Relationship *RelationshipFilter `json:"relationship,omitempty"`
}

// CommandIntent is the externally produced structured request for a write.
type CommandIntent struct {
	EntityRef string        `json:"entity"`
	Property  string        `json:"property"`
	Value     any           `json:"value"`
	Scope     CommandScope  `json:"scope,omitempty"`
	Filter    *EntityFilter `json:"filter,omitempty"`
}

// PropertySource tags where a resolved property descriptor came from.
// Telemetry-sourced properties are read-only sensor data and can never be
// the target of a command.
type PropertySource string

const (
	SourceSchema    PropertySource = "schema"
	SourceTelemetry PropertySource = "telemetry"
)

// PropertyDescriptor is a grounded property reference.
type PropertyDescriptor struct {
	Name   string         `json:"name"`
	Source PropertySource `json:"source"`
	Type   ValueType      `json:"type"`
	Unit   string         `json:"unit,omitempty"`
}

// ResolvedQuery is a query intent after grounding: free-text references have
// been replaced by a concrete entity and property descriptor. It is created
// per request and never persisted.
type ResolvedQuery struct {
	Intent          GenericIntent
	Operation       AggregateOp
	Entity          *Entity // nil for path-keyed route utilization
	Property        *PropertyDescriptor
	Relation        string // raw relation phrase for relationship queries
	SourcePath      string
	DestinationPath string
	Start           time.Time
	End             time.Time
}

// PathKeyed reports whether the telemetry window for this query is fetched
// by haul path rather than by entity.
func (q *ResolvedQuery) PathKeyed() bool {
	if q.Entity == nil {
		return q.SourcePath != ""
	}
	return q.Intent == IntentAggregate && q.Operation == OpAverage &&
		q.Property == nil && q.SourcePath != "" && q.Entity.Category == CategoryHaulRoute
}

// ResolvedCommand is a command intent after grounding.
type ResolvedCommand struct {
	Entities []*Entity
	Property *PropertyDescriptor
	Value    any
	Scope    CommandScope
}
