// Package openai provides an IntentParser implementation using OpenAI.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/infrastructure/config"
)

const queryPrompt = `You are an intent parser for a mine fleet digital twin. Parse the operator's question into a structured query intent.

Fields:
- question: one of average_speed, max_speed, min_speed, current_speed, property, trip_count, route_utilization, relationship
- entity: the equipment reference exactly as the operator said it (use "ALL" for route utilization across all routes)
- property: the property or relationship phrase, if the question names one (optional)
- source_path: haul path id the question starts from (optional)
- destination_path: haul path id the question ends at (optional)
- start, end: RFC3339 timestamps when the question bounds a time window (optional)

Return ONLY a valid JSON object, no other text.

Example:
Input: "how many trips did truck 56 make from crusher_ramp to waste_dump today?"
Output: {"question": "trip_count", "entity": "truck 56", "source_path": "crusher_ramp", "destination_path": "waste_dump"}`

const commandPrompt = `You are an intent parser for a mine fleet digital twin. Parse the operator's instruction into a structured command intent.

Fields:
- entity: the equipment reference exactly as the operator said it ("all trucks" style references select in bulk)
- property: the property phrase being set
- value: the new value (number, string or boolean, typed correctly)
- scope: "single" or "bulk" only when the operator states it explicitly (optional)
- filter: for bulk references, {"type": "<Category>"} and/or {"relationship": {"name": "...", "target_id": "..."}} (optional)

Return ONLY a valid JSON object, no other text.

Example:
Input: "set the speed limit on all haul trucks to 60"
Output: {"entity": "all haul trucks", "property": "speed limit", "value": 60, "filter": {"type": "HaulTruck"}}`

// Client implements the IntentParser interface using OpenAI.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI intent-parser client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// ParseQuery parses a natural-language question into a query intent.
func (c *Client) ParseQuery(ctx context.Context, text string) (*entities.QueryIntent, error) {
	content, err := c.complete(ctx, queryPrompt, text)
	if err != nil {
		return nil, entities.NewParseError(err)
	}

	var raw rawQueryIntent
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, entities.NewParseError(fmt.Errorf("parsing intent JSON: %w (response: %s)", err, content))
	}

	intent := &entities.QueryIntent{
		Question:        entities.QuestionType(raw.Question),
		EntityRef:       raw.Entity,
		Property:        raw.Property,
		SourcePath:      raw.SourcePath,
		DestinationPath: raw.DestinationPath,
	}
	if intent.Start, err = parseTimestamp(raw.Start); err != nil {
		return nil, entities.NewParseError(err)
	}
	if intent.End, err = parseTimestamp(raw.End); err != nil {
		return nil, entities.NewParseError(err)
	}
	return intent, nil
}

// ParseCommand parses a natural-language instruction into a command intent.
func (c *Client) ParseCommand(ctx context.Context, text string) (*entities.CommandIntent, error) {
	content, err := c.complete(ctx, commandPrompt, text)
	if err != nil {
		return nil, entities.NewParseError(err)
	}

	var raw rawCommandIntent
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, entities.NewParseError(fmt.Errorf("parsing intent JSON: %w (response: %s)", err, content))
	}

	intent := &entities.CommandIntent{
		EntityRef: raw.Entity,
		Property:  raw.Property,
		Value:     raw.Value,
		Scope:     entities.CommandScope(raw.Scope),
	}
	if raw.Filter != nil {
		intent.Filter = &entities.EntityFilter{
			Type: entities.Category(raw.Filter.Type),
		}
		if raw.Filter.Relationship != nil {
			intent.Filter.Relationship = &entities.RelationshipFilter{
				Name:     raw.Filter.Relationship.Name,
				TargetID: raw.Filter.Relationship.TargetID,
			}
		}
	}
	return intent, nil
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return cleanJSONResponse(resp.Choices[0].Message.Content), nil
}

// rawQueryIntent is the JSON structure for parsed query intents.
type rawQueryIntent struct {
	Question        string `json:"question"`
	Entity          string `json:"entity"`
	Property        string `json:"property,omitempty"`
	SourcePath      string `json:"source_path,omitempty"`
	DestinationPath string `json:"destination_path,omitempty"`
	Start           string `json:"start,omitempty"`
	End             string `json:"end,omitempty"`
}

// rawCommandIntent is the JSON structure for parsed command intents.
type rawCommandIntent struct {
	Entity   string     `json:"entity"`
	Property string     `json:"property"`
	Value    any        `json:"value"`
	Scope    string     `json:"scope,omitempty"`
	Filter   *rawFilter `json:"filter,omitempty"`
}

type rawFilter struct {
	Type         string `json:"type,omitempty"`
	Relationship *struct {
		Name     string `json:"name"`
		TargetID string `json:"target_id"`
	} `json:"relationship,omitempty"`
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// cleanJSONResponse strips markdown code fences the model sometimes wraps
// around its JSON output.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
