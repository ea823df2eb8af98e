// Package sqlite provides a SQLite implementation of the twin, constraint
// and telemetry store interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements the TwinStore, ConstraintStore and TelemetryStore
// ports using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Twin entities; content is the canonical content list as JSON and
	-- position preserves model insertion order.
	CREATE TABLE IF NOT EXISTS twin_entities (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_twin_entities_position ON twin_entities(position);

	-- Property constraints, unique per (entity type, property).
	CREATE TABLE IF NOT EXISTS property_constraints (
		entity_type TEXT NOT NULL,
		property TEXT NOT NULL,
		min_value REAL,
		max_value REAL,
		read_only INTEGER NOT NULL DEFAULT 0,
		editable INTEGER NOT NULL DEFAULT 1,
		allowed_values TEXT,
		PRIMARY KEY (entity_type, property)
	);

	-- Append-only telemetry observations.
	CREATE TABLE IF NOT EXISTS telemetry_records (
		id TEXT PRIMARY KEY,
		truck_id TEXT NOT NULL,
		haul_path_id TEXT,
		haul_phase TEXT,
		ts TIMESTAMP NOT NULL,
		speed REAL,
		heading REAL,
		position_x REAL,
		position_y REAL,
		engine_temperature REAL,
		fuel_level REAL,
		tire_pressure_front_left REAL,
		tire_pressure_front_right REAL,
		tire_pressure_rear_left REAL,
		tire_pressure_rear_right REAL,
		payload_tons REAL
	);
	CREATE INDEX IF NOT EXISTS idx_telemetry_truck_ts ON telemetry_records(truck_id, ts);
	CREATE INDEX IF NOT EXISTS idx_telemetry_path_ts ON telemetry_records(haul_path_id, ts);

	-- Audit log of applied commands.
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_log(entity_id);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Twin entity operations

// Save upserts the full content list for one entity. A new entity takes the
// next position; an existing one keeps its position.
func (r *Repository) Save(ctx context.Context, e *entities.Entity) error {
	content, err := json.Marshal(e.Content)
	if err != nil {
		return fmt.Errorf("marshaling content list: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO twin_entities (id, category, position, content, updated_at)
		VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM twin_entities), ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			content = excluded.content,
			updated_at = excluded.updated_at`,
		e.ID, string(e.Category), string(content), timeNow())
	if err != nil {
		return fmt.Errorf("saving entity %q: %w", e.ID, err)
	}
	return nil
}

// LoadAll returns every persisted entity in model insertion order.
func (r *Repository) LoadAll(ctx context.Context) ([]*entities.Entity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, content
		FROM twin_entities
		ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("loading entities: %w", err)
	}
	defer rows.Close()

	var out []*entities.Entity
	for rows.Next() {
		var id, category, content string
		if err := rows.Scan(&id, &category, &content); err != nil {
			return nil, fmt.Errorf("scanning entity row: %w", err)
		}
		var items []entities.ContentItem
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, fmt.Errorf("unmarshaling content list for %q: %w", id, err)
		}
		out = append(out, entities.NewEntity(id, entities.Category(category), items))
	}
	return out, rows.Err()
}

// Constraint operations

// GetConstraint returns the constraint for (entityType, property), or nil
// when no row exists.
func (r *Repository) GetConstraint(ctx context.Context, entityType entities.Category, property string) (*entities.PropertyConstraint, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT entity_type, property, min_value, max_value, read_only, editable, allowed_values
		FROM property_constraints
		WHERE entity_type = ? AND property = ?`,
		string(entityType), property)

	c, err := scanConstraint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading constraint %s.%s: %w", entityType, property, err)
	}
	return c, nil
}

// SaveConstraint inserts or replaces a constraint row.
func (r *Repository) SaveConstraint(ctx context.Context, c *entities.PropertyConstraint) error {
	var allowed *string
	if len(c.AllowedValues) > 0 {
		data, err := json.Marshal(c.AllowedValues)
		if err != nil {
			return fmt.Errorf("marshaling allowed values: %w", err)
		}
		s := string(data)
		allowed = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO property_constraints
			(entity_type, property, min_value, max_value, read_only, editable, allowed_values)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(c.EntityType), c.Property, c.MinValue, c.MaxValue,
		boolToInt(c.ReadOnly), boolToInt(c.Editable), allowed)
	if err != nil {
		return fmt.Errorf("saving constraint %s.%s: %w", c.EntityType, c.Property, err)
	}
	return nil
}

// ListConstraints returns all constraint rows.
func (r *Repository) ListConstraints(ctx context.Context) ([]entities.PropertyConstraint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT entity_type, property, min_value, max_value, read_only, editable, allowed_values
		FROM property_constraints
		ORDER BY entity_type, property`)
	if err != nil {
		return nil, fmt.Errorf("listing constraints: %w", err)
	}
	defer rows.Close()

	var out []entities.PropertyConstraint
	for rows.Next() {
		c, err := scanConstraint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning constraint row: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// scanner abstracts sql.Row and sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanConstraint(s scanner) (*entities.PropertyConstraint, error) {
	var (
		c          entities.PropertyConstraint
		entityType string
		minValue   sql.NullFloat64
		maxValue   sql.NullFloat64
		readOnly   int
		editable   int
		allowed    sql.NullString
	)
	if err := s.Scan(&entityType, &c.Property, &minValue, &maxValue, &readOnly, &editable, &allowed); err != nil {
		return nil, err
	}
	c.EntityType = entities.Category(entityType)
	c.MinValue = nullFloat(minValue)
	c.MaxValue = nullFloat(maxValue)
	c.ReadOnly = readOnly != 0
	c.Editable = editable != 0
	if allowed.Valid && allowed.String != "" {
		if err := json.Unmarshal([]byte(allowed.String), &c.AllowedValues); err != nil {
			return nil, fmt.Errorf("unmarshaling allowed values: %w", err)
		}
	}
	return &c, nil
}

// Telemetry operations

// SaveBatch appends a batch of telemetry records in one transaction.
func (r *Repository) SaveBatch(ctx context.Context, records []entities.TelemetryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO telemetry_records
			(id, truck_id, haul_path_id, haul_phase, ts, speed, heading,
			 position_x, position_y, engine_temperature, fuel_level,
			 tire_pressure_front_left, tire_pressure_front_right,
			 tire_pressure_rear_left, tire_pressure_rear_right, payload_tons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = generateUUID()
		}
		_, err := stmt.ExecContext(ctx,
			id, rec.TruckID, rec.HaulPathID, rec.HaulPhase, rec.Timestamp.UTC(),
			rec.Speed, rec.Heading, rec.PositionX, rec.PositionY,
			rec.EngineTemperature, rec.FuelLevel,
			rec.TirePressureFrontLeft, rec.TirePressureFrontRight,
			rec.TirePressureRearLeft, rec.TirePressureRearRight, rec.PayloadTons)
		if err != nil {
			return fmt.Errorf("inserting telemetry record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing telemetry batch: %w", err)
	}
	return nil
}

// FindByEntityAndWindow returns all records for one truck whose timestamp
// falls in [start, end], time-ascending.
func (r *Repository) FindByEntityAndWindow(ctx context.Context, truckID string, start, end time.Time) ([]entities.TelemetryRecord, error) {
	return r.queryTelemetry(ctx, `
		SELECT id, truck_id, haul_path_id, haul_phase, ts, speed, heading,
		       position_x, position_y, engine_temperature, fuel_level,
		       tire_pressure_front_left, tire_pressure_front_right,
		       tire_pressure_rear_left, tire_pressure_rear_right, payload_tons
		FROM telemetry_records
		WHERE truck_id = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC`,
		truckID, start.UTC(), end.UTC())
}

// FindByPathAndWindow returns all records on one haul path whose timestamp
// falls in [start, end], time-ascending.
func (r *Repository) FindByPathAndWindow(ctx context.Context, pathID string, start, end time.Time) ([]entities.TelemetryRecord, error) {
	return r.queryTelemetry(ctx, `
		SELECT id, truck_id, haul_path_id, haul_phase, ts, speed, heading,
		       position_x, position_y, engine_temperature, fuel_level,
		       tire_pressure_front_left, tire_pressure_front_right,
		       tire_pressure_rear_left, tire_pressure_rear_right, payload_tons
		FROM telemetry_records
		WHERE haul_path_id = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC`,
		pathID, start.UTC(), end.UTC())
}

func (r *Repository) queryTelemetry(ctx context.Context, query string, args ...any) ([]entities.TelemetryRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying telemetry: %w", err)
	}
	defer rows.Close()

	var out []entities.TelemetryRecord
	for rows.Next() {
		var (
			rec        entities.TelemetryRecord
			haulPathID sql.NullString
			haulPhase  sql.NullString
			numerics   [11]sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.TruckID, &haulPathID, &haulPhase, &rec.Timestamp,
			&numerics[0], &numerics[1], &numerics[2], &numerics[3], &numerics[4], &numerics[5],
			&numerics[6], &numerics[7], &numerics[8], &numerics[9], &numerics[10]); err != nil {
			return nil, fmt.Errorf("scanning telemetry row: %w", err)
		}
		rec.HaulPathID = haulPathID.String
		rec.HaulPhase = haulPhase.String
		rec.Speed = nullFloat(numerics[0])
		rec.Heading = nullFloat(numerics[1])
		rec.PositionX = nullFloat(numerics[2])
		rec.PositionY = nullFloat(numerics[3])
		rec.EngineTemperature = nullFloat(numerics[4])
		rec.FuelLevel = nullFloat(numerics[5])
		rec.TirePressureFrontLeft = nullFloat(numerics[6])
		rec.TirePressureFrontRight = nullFloat(numerics[7])
		rec.TirePressureRearLeft = nullFloat(numerics[8])
		rec.TirePressureRearRight = nullFloat(numerics[9])
		rec.PayloadTons = nullFloat(numerics[10])
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Audit operations

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action, entityID string, details map[string]any) error {
	var detailsJSON *string
	if len(details) > 0 {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling audit details: %w", err)
		}
		s := string(data)
		detailsJSON = &s
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (action, entity_id, details, created_at)
		VALUES (?, ?, ?, ?)`,
		action, entityID, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// FindAuditLog returns the audit entries for one entity, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, entityID string) ([]entities.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, entity_id, details, created_at
		FROM audit_log
		WHERE entity_id = ?
		ORDER BY id DESC`,
		entityID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var out []entities.AuditEntry
	for rows.Next() {
		var (
			entry   entities.AuditEntry
			details sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Action, &entry.EntityID, &details, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling audit details: %w", err)
			}
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
