package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// Executor is a stateless strategy that computes a result for one class of
// grounded query.
type Executor interface {
	// CanHandle reports whether this executor serves the generic intent.
	CanHandle(intent entities.GenericIntent) bool

	// Execute computes a result from the grounded query and its telemetry
	// window. Records are ordered time-ascending.
	Execute(ctx context.Context, q *entities.ResolvedQuery, records []entities.TelemetryRecord) (*entities.QueryResult, error)
}

// ExecutorRegistry holds executors in registration order and dispatches a
// resolved query to the first whose CanHandle matches. A lookup miss is an
// internal configuration fault, not bad input: it means a registration is
// missing.
type ExecutorRegistry struct {
	names  []string
	byName map[string]Executor
	log    *zap.SugaredLogger
}

// NewExecutorRegistry creates an empty registry.
func NewExecutorRegistry(log *zap.SugaredLogger) *ExecutorRegistry {
	return &ExecutorRegistry{
		byName: make(map[string]Executor),
		log:    log,
	}
}

// Register adds an executor under a name. Re-registering a name replaces the
// previous instance and keeps its position in dispatch order.
func (r *ExecutorRegistry) Register(name string, ex Executor) {
	if _, ok := r.byName[name]; !ok {
		r.names = append(r.names, name)
	}
	r.byName[name] = ex
}

// For returns the first registered executor that handles the intent.
func (r *ExecutorRegistry) For(intent entities.GenericIntent) (Executor, error) {
	for _, name := range r.names {
		if ex := r.byName[name]; ex.CanHandle(intent) {
			return ex, nil
		}
	}
	r.log.Errorw("no executor registered for intent", "intent", intent)
	return nil, fmt.Errorf("no executor registered for intent %q", intent)
}

// DefaultExecutorRegistry returns a registry with the standard executors for
// the four generic intents.
func DefaultExecutorRegistry(log *zap.SugaredLogger) *ExecutorRegistry {
	r := NewExecutorRegistry(log)
	r.Register("property", &PropertyExecutor{})
	r.Register("aggregate", &AggregateExecutor{})
	r.Register("count", &CountExecutor{})
	r.Register("relationship", &RelationshipExecutor{})
	return r
}
