package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"career-compass/internal/config"
	"career-compass/internal/database"
	dbpostgres "career-compass/internal/database/postgres"
	dbsqlite "career-compass/internal/database/sqlite"
	"career-compass/internal/model"
	"career-compass/internal/repository"
)

type Container struct {
	Config   config.Config
	DB       database.DB
	Models   *model.Registry
	Postings repository.PostingRepository
}

// NewContainer wires the serving dependencies. The model artifacts are
// mandatory; the posting store is not: when it cannot be opened the
// service still starts and serves recommendations without enrichment.
func NewContainer(cfg config.Config) (*Container, error) {
	models, err := model.LoadRegistry(cfg.Model.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifacts: %w", err)
	}

	c := &Container{Config: cfg, Models: models}

	db, err := connect(cfg.Database)
	if err != nil {
		log.Printf("posting store unavailable, serving without enrichment: %v", err)
		return c, nil
	}

	c.DB = db
	c.Postings = repository.NewSQLPostingRepository(db)
	return c, nil
}

// NewTrainingContainer wires the training dependencies. Here the store
// is mandatory (when training from it) and the artifacts are outputs,
// not inputs.
func NewTrainingContainer(cfg config.Config) (*Container, error) {
	db, err := connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:   cfg,
		DB:       db,
		Postings: repository.NewSQLPostingRepository(db),
	}, nil
}

func connect(cfg config.DatabaseConfig) (database.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Driver {
	case config.DriverPostgres:
		return dbpostgres.Connect(ctx, cfg)
	case config.DriverSQLite:
		return dbsqlite.Open(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
