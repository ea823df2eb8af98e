// Package mocks provides hand-written mock implementations of the ports.
package mocks

import (
	"context"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// IntentParser is a mock implementation of ports.IntentParser.
type IntentParser struct {
	Query   *entities.QueryIntent
	Command *entities.CommandIntent
	Err     error
}

// ParseQuery returns the preconfigured query intent.
func (m *IntentParser) ParseQuery(_ context.Context, _ string) (*entities.QueryIntent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Query, nil
}

// ParseCommand returns the preconfigured command intent.
func (m *IntentParser) ParseCommand(_ context.Context, _ string) (*entities.CommandIntent, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Command, nil
}
