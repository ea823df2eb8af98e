// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// IntentParser turns free text into structured intents. It is an opaque
// collaborator: parsing failures are surfaced to the caller as parse errors,
// distinct from grounding and validation errors.
type IntentParser interface {
	// ParseQuery parses a natural-language question into a query intent.
	ParseQuery(ctx context.Context, text string) (*entities.QueryIntent, error)

	// ParseCommand parses a natural-language instruction into a command intent.
	ParseCommand(ctx context.Context, text string) (*entities.CommandIntent, error)
}
