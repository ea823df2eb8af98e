package services

import (
	"strings"

	"go.uber.org/zap"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// questionBinding maps a specific question category onto a generic execution
// intent, its aggregate operation, and an implicit property phrase to
// synthesize when the intent names none.
type questionBinding struct {
	intent       entities.GenericIntent
	op           entities.AggregateOp
	implicitProp string
}

// questionBindings is the fixed question-type mapping table.
var questionBindings = map[entities.QuestionType]questionBinding{
	entities.QuestionAverageSpeed:     {intent: entities.IntentAggregate, op: entities.OpAverage, implicitProp: "speed"},
	entities.QuestionMaxSpeed:         {intent: entities.IntentAggregate, op: entities.OpMax, implicitProp: "speed"},
	entities.QuestionMinSpeed:         {intent: entities.IntentAggregate, op: entities.OpMin, implicitProp: "speed"},
	entities.QuestionRouteUtilization: {intent: entities.IntentAggregate, op: entities.OpAverage},
	entities.QuestionCurrentSpeed:     {intent: entities.IntentGetProperty, implicitProp: "speed"},
	entities.QuestionProperty:         {intent: entities.IntentGetProperty},
	entities.QuestionTripCount:        {intent: entities.IntentCount},
	entities.QuestionRelationship:     {intent: entities.IntentRelationship},
}

// SchemaResolver orchestrates the entity and property resolvers to turn raw
// intents into grounded queries and commands.
type SchemaResolver struct {
	model     *entities.Model
	entityRes *EntityResolver
	propRes   *PropertyResolver
	log       *zap.SugaredLogger
}

// NewSchemaResolver creates a schema resolver over the given model.
func NewSchemaResolver(model *entities.Model, log *zap.SugaredLogger) *SchemaResolver {
	return &SchemaResolver{
		model:     model,
		entityRes: NewEntityResolver(),
		propRes:   NewPropertyResolver(),
		log:       log,
	}
}

// ResolveQuery grounds a query intent. It fails with EntityNotFound or
// PropertyNotFound (the latter including suggestions) when grounding fails,
// and with ValidationError for unknown question types.
func (s *SchemaResolver) ResolveQuery(intent *entities.QueryIntent) (*entities.ResolvedQuery, error) {
	binding, ok := questionBindings[intent.Question]
	if !ok {
		return nil, entities.NewValidationError("unsupported question type %q", intent.Question)
	}

	resolved := &entities.ResolvedQuery{
		Intent:          binding.intent,
		Operation:       binding.op,
		SourcePath:      intent.SourcePath,
		DestinationPath: intent.DestinationPath,
		Start:           intent.Start,
		End:             intent.End,
	}

	// A route-utilization query over "ALL" is keyed by path id and bypasses
	// entity resolution entirely.
	allRoutes := intent.Question == entities.QuestionRouteUtilization &&
		strings.EqualFold(intent.EntityRef, entities.AllEntitiesSentinel)
	if !allRoutes {
		e, err := s.entityRes.Resolve(intent.EntityRef, s.model)
		if err != nil {
			return nil, err
		}
		resolved.Entity = e
	}

	if intent.Question == entities.QuestionRelationship {
		resolved.Relation = intent.Property
		return resolved, nil
	}

	phrase := intent.Property
	if phrase == "" {
		phrase = binding.implicitProp
	}
	if phrase != "" && intent.Question != entities.QuestionRouteUtilization {
		desc, err := s.propRes.ResolveProperty(resolved.Entity, phrase)
		if err != nil {
			return nil, err
		}
		resolved.Property = desc
	}

	return resolved, nil
}

// ResolveCommand grounds a command intent via the bulk resolver. Commands
// against telemetry-sourced properties are rejected: telemetry is read-only
// sensor data. Scope defaults to bulk when more than one entity resolves,
// unless the intent states a scope explicitly.
func (s *SchemaResolver) ResolveCommand(intent *entities.CommandIntent) (*entities.ResolvedCommand, error) {
	targets, err := s.entityRes.ResolveBulk(intent.EntityRef, s.model, intent.Filter)
	if err != nil {
		return nil, err
	}

	desc, err := s.propRes.ResolveProperty(targets[0], intent.Property)
	if err != nil {
		return nil, err
	}
	if desc.Source == entities.SourceTelemetry {
		return nil, entities.NewPropertyNotEditable(
			"property %q is a telemetry field and cannot be written", desc.Name)
	}

	scope := intent.Scope
	if scope == "" {
		scope = entities.ScopeSingle
		if len(targets) > 1 {
			scope = entities.ScopeBulk
		}
	}

	s.log.Debugw("resolved command",
		"property", desc.Name,
		"entities", len(targets),
		"scope", scope,
	)

	return &entities.ResolvedCommand{
		Entities: targets,
		Property: desc,
		Value:    intent.Value,
		Scope:    scope,
	}, nil
}
