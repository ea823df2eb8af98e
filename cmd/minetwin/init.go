package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencut/minetwin/internal/infrastructure/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a minetwin project in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		fmt.Printf("Already initialized: %s\n", config.ConfigFilePath(cwd))
		return nil
	}

	if err := config.WriteDefault(cwd); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	fmt.Printf("Initialized minetwin project in %s/%s\n", cwd, config.DefaultConfigDir)
	fmt.Println("Set OPENAI_API_KEY or add llm.api_key to the config to enable natural-language queries.")
	return nil
}
