package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEntitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Manage twin entities",
	}

	cmd.AddCommand(newEntitiesListCmd(), newEntitiesShowCmd(), newEntitiesHistoryCmd())

	return cmd
}

func newEntitiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all twin entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runEntitiesList(d)
			})
		},
	}
}

func runEntitiesList(d *Deps) error {
	all := d.Model.All()
	if len(all) == 0 {
		fmt.Println("No entities found. Run 'minetwin import' first.")
		return nil
	}

	fmt.Printf("Found %d entities:\n\n", len(all))
	for _, e := range all {
		fmt.Printf("  %-30s %-12s %d properties, %d relationships\n",
			e.ID, e.Category, len(e.PropertyNames()), len(e.Relationships()))
	}
	return nil
}

func newEntitiesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entity's properties and relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runEntitiesShow(d, args[0])
			})
		},
	}
}

func runEntitiesShow(d *Deps, id string) error {
	e, ok := d.Model.Get(id)
	if !ok {
		return fmt.Errorf("entity %q not found", id)
	}

	fmt.Printf("%s (%s)\n\n", e.ID, e.Category)

	names := e.PropertyNames()
	if len(names) > 0 {
		fmt.Println("Properties:")
		for _, name := range names {
			p, _ := e.Property(name)
			value := p.Value
			if value == nil {
				value = p.Default
			}
			line := fmt.Sprintf("  %-30s %v", name, value)
			if p.ReadOnly {
				line += " (read-only)"
			}
			fmt.Println(line)
		}
	}

	rels := e.Relationships()
	if len(rels) > 0 {
		fmt.Println("\nRelationships:")
		for name, target := range rels {
			fmt.Printf("  %-30s -> %s\n", name, target)
		}
	}

	if defs := e.TelemetryDefinitions(); len(defs) > 0 {
		fmt.Println("\nTelemetry:")
		for _, name := range defs {
			fmt.Printf("  %s\n", name)
		}
	}
	return nil
}

func newEntitiesHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the audit log for one entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runEntitiesHistory(cmd, d, args[0])
			})
		},
	}
}

func runEntitiesHistory(cmd *cobra.Command, d *Deps, id string) error {
	entries, err := d.Repo.FindAuditLog(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("loading audit log: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No audit entries found.")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %-20s", entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action)
		for k, v := range entry.Details {
			fmt.Printf("  %s=%v", k, v)
		}
		fmt.Println()
	}
	return nil
}
