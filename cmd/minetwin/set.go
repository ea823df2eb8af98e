package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <instruction>",
		Short: "Apply a natural-language property update",
		Long:  "Parses the instruction into a command intent, validates it against the property constraints and applies it to every resolved entity.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runSet(cmd, d, args[0])
			})
		},
	}
}

func runSet(cmd *cobra.Command, d *Deps, instruction string) error {
	ctx := cmd.Context()

	parser, err := d.IntentParser()
	if err != nil {
		return err
	}

	intent, err := parser.ParseCommand(ctx, instruction)
	if err != nil {
		return fmt.Errorf("parsing instruction: %w", err)
	}

	result, err := d.Engine.ExecuteCommand(ctx, intent)
	if err != nil {
		return err
	}

	printCommandResult(result)
	if len(result.Failed()) > 0 {
		return fmt.Errorf("%d of %d updates failed", len(result.Failed()), len(result.Updates))
	}
	return nil
}

func printCommandResult(r *entities.CommandResult) {
	fmt.Printf("Property %q (%s):\n", r.Property, r.Scope)
	for _, u := range r.Updates {
		if u.OK {
			fmt.Printf("  %s: %v -> %v\n", u.EntityID, u.OldValue, u.NewValue)
		} else {
			fmt.Printf("  %s: FAILED: %s\n", u.EntityID, u.Error)
		}
	}
}
