package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencut/minetwin/internal/infrastructure/parsers"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <schema.json>",
		Short: "Import twin entities from a schema file",
		Long:  "Parses a JSON schema file and upserts every entity it describes into the twin database.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runImport(cmd, d, args[0])
			})
		},
	}
}

func runImport(cmd *cobra.Command, d *Deps, path string) error {
	ctx := cmd.Context()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening schema file: %w", err)
	}
	defer f.Close()

	parser := &parsers.SchemaParser{}
	raw, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parsing schema file: %w", err)
	}

	imported := 0
	for _, re := range raw {
		entity, err := re.ToEntity()
		if err != nil {
			return fmt.Errorf("entity %q: %w", re.ID, err)
		}
		if err := d.Repo.Save(ctx, entity); err != nil {
			return fmt.Errorf("saving entity %q: %w", entity.ID, err)
		}
		d.Model.Add(entity)
		imported++
	}

	fmt.Printf("Imported %d entities from %s\n", imported, path)
	return nil
}
