package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/opencut/minetwin/internal/domain/entities"
	"github.com/opencut/minetwin/internal/domain/ports"
	"github.com/opencut/minetwin/internal/domain/services"
	"github.com/opencut/minetwin/internal/infrastructure/config"
	llm "github.com/opencut/minetwin/internal/infrastructure/llm/openai"
	"github.com/opencut/minetwin/internal/infrastructure/logging"
	"github.com/opencut/minetwin/internal/infrastructure/twindb/sqlite"
)

// Deps holds the dependencies commands work through. The engine is the
// high-level surface; the repository is exposed for commands that manage
// stored data directly.
type Deps struct {
	Config *config.Config
	Log    *zap.SugaredLogger
	Repo   *sqlite.Repository
	Model  *entities.Model
	Engine *services.Engine
}

// withDeps loads config and builds dependencies, then calls the provided
// function. It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is harmless

	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: cfg.DatabasePath(cwd)})
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	stored, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading twin entities: %w", err)
	}
	model := entities.NewModel()
	for _, e := range stored {
		model.Add(e)
	}

	deps := &Deps{
		Config: cfg,
		Log:    log,
		Repo:   repo,
		Model:  model,
		Engine: services.NewEngine(model, repo, repo, repo, log),
	}

	return fn(deps)
}

// IntentParser builds the LLM-backed intent parser from the loaded config.
func (d *Deps) IntentParser() (ports.IntentParser, error) {
	client, err := llm.NewClient(d.Config.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating llm client: %w", err)
	}
	return client, nil
}
