package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opencut/minetwin/internal/infrastructure/parsers"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <telemetry.csv>",
		Short: "Ingest a telemetry CSV into the twin database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runIngest(cmd, d, args[0])
			})
		},
	}
}

func runIngest(cmd *cobra.Command, d *Deps, path string) error {
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening telemetry file: %w", err)
	}
	defer f.Close()

	parser := &parsers.TelemetryParser{}
	records, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing telemetry file: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}

	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.New().String()
		}
	}

	if err := d.Repo.SaveBatch(ctx, records); err != nil {
		return fmt.Errorf("saving telemetry batch: %w", err)
	}

	fmt.Printf("Ingested %d telemetry records from %s\n", len(records), path)
	return nil
}
