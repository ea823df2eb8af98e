package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func newConstraintsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "constraints",
		Short: "Manage property constraints",
	}

	cmd.AddCommand(newConstraintsListCmd(), newConstraintsSetCmd())

	return cmd
}

func newConstraintsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all property constraints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runConstraintsList(cmd, d)
			})
		},
	}
}

func runConstraintsList(cmd *cobra.Command, d *Deps) error {
	constraints, err := d.Repo.ListConstraints(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing constraints: %w", err)
	}

	if len(constraints) == 0 {
		fmt.Println("No constraints defined.")
		return nil
	}

	for _, c := range constraints {
		fmt.Printf("%s.%s:", c.EntityType, c.Property)
		if c.MinValue != nil {
			fmt.Printf(" min=%v", *c.MinValue)
		}
		if c.MaxValue != nil {
			fmt.Printf(" max=%v", *c.MaxValue)
		}
		if c.ReadOnly {
			fmt.Print(" read-only")
		} else if !c.Editable {
			fmt.Print(" not-editable")
		}
		if len(c.AllowedValues) > 0 {
			fmt.Printf(" allowed=%v", c.AllowedValues)
		}
		fmt.Println()
	}
	return nil
}

func newConstraintsSetCmd() *cobra.Command {
	var (
		minValue float64
		maxValue float64
		readOnly bool
		frozen   bool
		allowed  string
	)

	cmd := &cobra.Command{
		Use:   "set <entity-type> <property>",
		Short: "Create or replace a constraint on (entity type, property)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				c := &entities.PropertyConstraint{
					EntityType: entities.Category(args[0]),
					Property:   args[1],
					ReadOnly:   readOnly,
					Editable:   !frozen,
				}
				if cmd.Flags().Changed("min") {
					c.MinValue = &minValue
				}
				if cmd.Flags().Changed("max") {
					c.MaxValue = &maxValue
				}
				if allowed != "" {
					values, err := parseAllowedValues(allowed)
					if err != nil {
						return err
					}
					c.AllowedValues = values
				}
				return runConstraintsSet(cmd, d, c)
			})
		},
	}

	cmd.Flags().Float64Var(&minValue, "min", 0, "Minimum numeric value")
	cmd.Flags().Float64Var(&maxValue, "max", 0, "Maximum numeric value")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Reject all writes to the property")
	cmd.Flags().BoolVar(&frozen, "not-editable", false, "Mark the property not editable for this entity type")
	cmd.Flags().StringVar(&allowed, "allowed", "", "Comma-separated allowed values")

	return cmd
}

func runConstraintsSet(cmd *cobra.Command, d *Deps, c *entities.PropertyConstraint) error {
	if err := d.Repo.SaveConstraint(cmd.Context(), c); err != nil {
		return fmt.Errorf("saving constraint: %w", err)
	}
	fmt.Printf("Saved constraint on %s.%s\n", c.EntityType, c.Property)
	return nil
}

// parseAllowedValues parses a comma-separated list, keeping numbers numeric
// so membership checks match typed property values.
func parseAllowedValues(raw string) ([]any, error) {
	var out []any
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var num float64
		if err := json.Unmarshal([]byte(part), &num); err == nil {
			out = append(out, num)
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no allowed values in %q", raw)
	}
	return out, nil
}
