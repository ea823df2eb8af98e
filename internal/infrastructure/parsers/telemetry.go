package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/opencut/minetwin/internal/domain/entities"
)

// TelemetryParser parses telemetry records from CSV. Columns are mapped by
// header name; numeric sensor columns are optional and a blank cell means
// the sensor did not report in that sample.
type TelemetryParser struct{}

// numericColumns maps CSV headers to record field setters.
var numericColumns = map[string]func(*entities.TelemetryRecord, float64){
	"speed":                     func(r *entities.TelemetryRecord, v float64) { r.Speed = &v },
	"heading":                   func(r *entities.TelemetryRecord, v float64) { r.Heading = &v },
	"position_x":                func(r *entities.TelemetryRecord, v float64) { r.PositionX = &v },
	"position_y":                func(r *entities.TelemetryRecord, v float64) { r.PositionY = &v },
	"engine_temperature":        func(r *entities.TelemetryRecord, v float64) { r.EngineTemperature = &v },
	"fuel_level":                func(r *entities.TelemetryRecord, v float64) { r.FuelLevel = &v },
	"tire_pressure_front_left":  func(r *entities.TelemetryRecord, v float64) { r.TirePressureFrontLeft = &v },
	"tire_pressure_front_right": func(r *entities.TelemetryRecord, v float64) { r.TirePressureFrontRight = &v },
	"tire_pressure_rear_left":   func(r *entities.TelemetryRecord, v float64) { r.TirePressureRearLeft = &v },
	"tire_pressure_rear_right":  func(r *entities.TelemetryRecord, v float64) { r.TirePressureRearRight = &v },
	"payload_tons":              func(r *entities.TelemetryRecord, v float64) { r.PayloadTons = &v },
}

// Parse reads CSV from the reader and returns telemetry records.
// Required columns: truck_id, timestamp. All others are optional.
func (p *TelemetryParser) Parse(r io.Reader) ([]entities.TelemetryRecord, error) {
	reader := csv.NewReader(r)

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *TelemetryParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	for _, col := range []string{"truck_id", "timestamp"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to telemetry records.
func (p *TelemetryParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]entities.TelemetryRecord, error) {
	var records []entities.TelemetryRecord
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		rec, err := p.parseRow(row, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func (p *TelemetryParser) parseRow(row []string, colIndex map[string]int, lineNum int) (entities.TelemetryRecord, error) {
	cell := func(name string) string {
		i, ok := colIndex[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	rec := entities.TelemetryRecord{
		TruckID:    cell("truck_id"),
		HaulPathID: cell("haul_path_id"),
		HaulPhase:  cell("haul_phase"),
	}
	if rec.TruckID == "" {
		return rec, fmt.Errorf("line %d: empty truck_id", lineNum)
	}

	ts, err := time.Parse(time.RFC3339, cell("timestamp"))
	if err != nil {
		return rec, fmt.Errorf("line %d: parsing timestamp: %w", lineNum, err)
	}
	rec.Timestamp = ts

	for col, set := range numericColumns {
		raw := cell(col)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("line %d: parsing %s: %w", lineNum, col, err)
		}
		set(&rec, v)
	}

	return rec, nil
}
