package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencut/minetwin/internal/domain/entities"
)

func newQueryCmd() *cobra.Command {
	var (
		startFlag string
		endFlag   string
	)

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a natural-language question about the twin",
		Long:  "Parses the question into a structured intent, grounds it against the twin model and executes it over the telemetry window.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				return runQuery(cmd, d, args[0], startFlag, endFlag)
			})
		},
	}

	cmd.Flags().StringVar(&startFlag, "start", "", "Window start (RFC3339), overrides the parsed intent")
	cmd.Flags().StringVar(&endFlag, "end", "", "Window end (RFC3339), overrides the parsed intent")

	return cmd
}

func runQuery(cmd *cobra.Command, d *Deps, question, startFlag, endFlag string) error {
	ctx := cmd.Context()

	parser, err := d.IntentParser()
	if err != nil {
		return err
	}

	intent, err := parser.ParseQuery(ctx, question)
	if err != nil {
		return fmt.Errorf("parsing question: %w", err)
	}

	if startFlag != "" {
		intent.Start, err = time.Parse(time.RFC3339, startFlag)
		if err != nil {
			return fmt.Errorf("parsing --start: %w", err)
		}
	}
	if endFlag != "" {
		intent.End, err = time.Parse(time.RFC3339, endFlag)
		if err != nil {
			return fmt.Errorf("parsing --end: %w", err)
		}
	}

	result, err := d.Engine.ExecuteQuery(ctx, intent)
	if err != nil {
		return err
	}

	printQueryResult(result)
	return nil
}

func printQueryResult(r *entities.QueryResult) {
	if r.Units != "" {
		fmt.Printf("%v %s\n", r.Value, r.Units)
	} else {
		fmt.Printf("%v\n", r.Value)
	}
	fmt.Printf("  records: %d\n", r.RecordCount)
	for k, v := range r.Metadata {
		fmt.Printf("  %s: %v\n", k, v)
	}
}
