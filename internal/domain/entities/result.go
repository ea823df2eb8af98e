package entities

// QueryResult is the typed outcome of an executed query. RecordCount reflects
// the raw telemetry window size, which distinguishes "no data" from a genuine
// zero value.
type QueryResult struct {
	Value       any            `json:"value"`
	Units       string         `json:"units,omitempty"`
	RecordCount int            `json:"record_count"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// PropertyUpdate reports one applied or attempted property write.
type PropertyUpdate struct {
	EntityID string `json:"entity_id"`
	Property string `json:"property"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
}

// CommandResult is the outcome of an executed command. Bulk commands return a
// mixed per-entity list; a failed update does not roll back its siblings.
type CommandResult struct {
	Property string           `json:"property"`
	Scope    CommandScope     `json:"scope"`
	Updates  []PropertyUpdate `json:"updates"`
}

// Failed returns the updates that did not apply durably.
func (r *CommandResult) Failed() []PropertyUpdate {
	var out []PropertyUpdate
	for _, u := range r.Updates {
		if !u.OK {
			out = append(out, u)
		}
	}
	return out
}
