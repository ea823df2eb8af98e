package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/domain/ports"
)

// DefaultQueryWindow is the telemetry window applied when an intent carries
// no explicit time bounds.
const DefaultQueryWindow = time.Hour

// Engine is the grounding and execution façade. Each request runs as one
// sequential pipeline: resolution, then either telemetry fetch and executor
// dispatch (reads) or validation and application per entity (writes).
type Engine struct {
	model     *entities.Model
	schema    *SchemaResolver
	registry  *ExecutorRegistry
	telemetry ports.TelemetryStore
	validator *UpdateValidator
	applier   *CommandApplier
	log       *zap.SugaredLogger
}

// NewEngine wires the engine over the twin model and the three stores.
func NewEngine(model *entities.Model, telemetry ports.TelemetryStore, constraints ports.ConstraintStore, twins ports.TwinStore, log *zap.SugaredLogger) *Engine {
	return &Engine{
		model:     model,
		schema:    NewSchemaResolver(model, log),
		registry:  DefaultExecutorRegistry(log),
		telemetry: telemetry,
		validator: NewUpdateValidator(constraints),
		applier:   NewCommandApplier(model, twins, log),
		log:       log,
	}
}

// Registry exposes the executor registry so callers can replace or extend
// executors before serving requests.
func (e *Engine) Registry() *ExecutorRegistry {
	return e.registry
}

// ExecuteQuery grounds and executes a read.
func (e *Engine) ExecuteQuery(ctx context.Context, intent *entities.QueryIntent) (*entities.QueryResult, error) {
	resolved, err := e.schema.ResolveQuery(intent)
	if err != nil {
		return nil, err
	}
	normalizeWindow(resolved)

	records, err := e.fetchWindow(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("fetching telemetry window: %w", err)
	}

	ex, err := e.registry.For(resolved.Intent)
	if err != nil {
		return nil, err
	}

	result, err := ex.Execute(ctx, resolved, records)
	if err != nil {
		return nil, err
	}
	e.log.Debugw("query executed",
		"intent", resolved.Intent,
		"records", len(records),
	)
	return result, nil
}

// ExecuteCommand grounds, validates and applies a write. Bulk commands
// return a mixed per-entity success/failure list; a failing entity does not
// roll back its siblings or its own in-memory mutation.
func (e *Engine) ExecuteCommand(ctx context.Context, intent *entities.CommandIntent) (*entities.CommandResult, error) {
	resolved, err := e.schema.ResolveCommand(intent)
	if err != nil {
		return nil, err
	}

	result := &entities.CommandResult{
		Property: resolved.Property.Name,
		Scope:    resolved.Scope,
	}
	for _, target := range resolved.Entities {
		update := e.applyOne(ctx, target, resolved)
		result.Updates = append(result.Updates, update)
	}
	return result, nil
}

func (e *Engine) applyOne(ctx context.Context, target *entities.Entity, resolved *entities.ResolvedCommand) entities.PropertyUpdate {
	name := resolved.Property.Name

	if err := e.validator.Validate(ctx, target, name, resolved.Value); err != nil {
		return entities.PropertyUpdate{
			EntityID: target.ID,
			Property: name,
			NewValue: resolved.Value,
			Error:    err.Error(),
		}
	}

	update, err := e.applier.UpdateProperty(ctx, target.ID, name, resolved.Value)
	if err != nil {
		return entities.PropertyUpdate{
			EntityID: target.ID,
			Property: name,
			NewValue: resolved.Value,
			Error:    err.Error(),
		}
	}
	return *update
}

// fetchWindow retrieves the telemetry window a resolved query needs, keyed
// by path for route utilization and by entity otherwise. Queries that never
// touch telemetry skip the fetch.
func (e *Engine) fetchWindow(ctx context.Context, q *entities.ResolvedQuery) ([]entities.TelemetryRecord, error) {
	switch q.Intent {
	case entities.IntentRelationship:
		return nil, nil
	case entities.IntentGetProperty:
		if q.Property != nil && q.Property.Source == entities.SourceSchema {
			return nil, nil
		}
	}

	if q.PathKeyed() {
		return e.telemetry.FindByPathAndWindow(ctx, q.SourcePath, q.Start, q.End)
	}
	return e.telemetry.FindByEntityAndWindow(ctx, q.Entity.ID, q.Start, q.End)
}

// normalizeWindow fills in the default window for intents that carry no
// explicit time bounds.
func normalizeWindow(q *entities.ResolvedQuery) {
	if q.End.IsZero() {
		q.End = time.Now()
	}
	if q.Start.IsZero() {
		q.Start = q.End.Add(-DefaultQueryWindow)
	}
}
